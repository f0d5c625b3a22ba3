package model

import (
	"time"

	"github.com/nao1215/svcping/internal/protocol"
)

// Report is the outcome of probing one target.
type Report struct {
	// Target is the host as given by the user.
	Target string `json:"target"`

	// Proxy is the SOCKS5 proxy the probes went through, if any.
	Proxy string `json:"proxy,omitempty"`

	// StartedAt and FinishedAt bound the whole run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Entries holds one entry per probed protocol, in selection order.
	Entries []*Entry `json:"entries"`
}

// Entry is the result for one protocol.
type Entry struct {
	protocol.PingResult

	// FullName is the protocol's descriptive name.
	FullName string `json:"full_name"`

	// Status is derived from the ping result.
	Status Status `json:"status"`
}

// NewReport creates an empty report for target, started now.
func NewReport(target string) *Report {
	return &Report{
		Target:    target,
		StartedAt: time.Now(),
		Entries:   make([]*Entry, 0),
	}
}

// NewEntry wraps a ping result. A nil result becomes a not-probed entry.
func NewEntry(d protocol.Descriptor, r *protocol.PingResult) *Entry {
	if r == nil {
		r = &protocol.PingResult{Protocol: d.ShortName}
	}
	return &Entry{
		PingResult: *r,
		FullName:   d.FullName,
		Status:     StatusOf(r),
	}
}

// Finish stamps the end time.
func (r *Report) Finish() {
	r.FinishedAt = time.Now()
}

// Duration returns the wall time of the run, or zero if unfinished.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Counts returns the number of entries per status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, e := range r.Entries {
		counts[e.Status]++
	}
	return counts
}

// AliveCount returns the number of protocols found alive.
func (r *Report) AliveCount() int {
	return r.Counts()[StatusAlive]
}

// AnyAlive reports whether at least one protocol was found alive.
func (r *Report) AnyAlive() bool {
	return r.AliveCount() > 0
}
