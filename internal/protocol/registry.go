package protocol

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// AllProtocols selects every registered tester in Resolve.
const AllProtocols = "all"

// Registry maps protocol names to testers.
// It is thread-safe and can be used concurrently.
type Registry struct {
	testers map[string]Tester
	mu      sync.RWMutex
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		testers: make(map[string]Tester),
	}
}

// DefaultRegistry returns a registry holding every built-in tester, each
// configured with opts.
func DefaultRegistry(opts ...Option) *Registry {
	r := NewRegistry()
	for _, t := range []Tester{
		NewHTCPCPTester(opts...),
		NewMQTTTester(opts...),
	} {
		if err := r.Register(t); err != nil {
			panic(err) // built-in names are unique
		}
	}
	return r
}

// foldName normalizes a protocol name for lookups.
// A Caser keeps state, so one is created per call.
func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Register adds a tester under its descriptor's short name.
func (r *Registry) Register(t Tester) error {
	if t == nil {
		return ErrNilTester
	}

	name := t.Descriptor().ShortName
	key := foldName(name)
	if key == "" {
		return ErrEmptyProtocolName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.testers[key]; exists {
		return fmt.Errorf("%w: %s", ErrTesterExists, name)
	}

	r.testers[key] = t
	return nil
}

// Get returns the tester registered under name, ignoring case.
func (r *Registry) Get(name string) (Tester, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.testers[foldName(name)]
	return t, exists
}

// Lookup is Get with an ErrUnknownProtocol error.
func (r *Registry) Lookup(name string) (Tester, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProtocol, name, strings.Join(r.Names(), ", "))
	}
	return t, nil
}

// List returns all testers sorted by short name.
func (r *Registry) List() []Tester {
	r.mu.RLock()
	testers := make([]Tester, 0, len(r.testers))
	for _, t := range r.testers {
		testers = append(testers, t)
	}
	r.mu.RUnlock()

	sort.Slice(testers, func(i, j int) bool {
		return testers[i].Descriptor().ShortName < testers[j].Descriptor().ShortName
	})
	return testers
}

// Names returns the short names of all testers, sorted.
func (r *Registry) Names() []string {
	testers := r.List()
	names := make([]string, len(testers))
	for i, t := range testers {
		names[i] = t.Descriptor().ShortName
	}
	return names
}

// ListByCapability returns the testers supporting c, sorted by short name.
func (r *Registry) ListByCapability(c Capability) []Tester {
	var testers []Tester
	for _, t := range r.List() {
		if t.Descriptor().Capabilities.Supports(c) {
			testers = append(testers, t)
		}
	}
	return testers
}

// Count returns the number of registered testers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.testers)
}

// Resolve turns a list of protocol names into testers, keeping the order of
// first appearance and dropping duplicates. AllProtocols expands to every
// tester that supports ping.
func (r *Registry) Resolve(names []string) ([]Tester, error) {
	var (
		testers []Tester
		seen    = make(map[string]bool)
	)

	add := func(t Tester) {
		key := foldName(t.Descriptor().ShortName)
		if !seen[key] {
			seen[key] = true
			testers = append(testers, t)
		}
	}

	for _, name := range names {
		if foldName(name) == AllProtocols {
			for _, t := range r.ListByCapability(CapabilityPing) {
				add(t)
			}
			continue
		}

		t, err := r.Lookup(name)
		if err != nil {
			return nil, err
		}
		add(t)
	}

	return testers, nil
}
