package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/svcping/internal/model"
	"github.com/nao1215/svcping/internal/protocol"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of probes run at once when no option
// says otherwise.
const DefaultConcurrency = 4

// ParamsFunc returns the test parameters to use for one protocol.
type ParamsFunc func(d protocol.Descriptor) protocol.TestParameters

// Runner probes one target with a set of testers concurrently.
type Runner struct {
	params      ParamsFunc
	concurrency int
	logger      *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithConcurrency sets the maximum number of probes in flight.
// Non-positive values keep the default.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the logger for run-level messages.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner. params is called once per tester to build its
// test parameters.
func NewRunner(params ParamsFunc, opts ...RunnerOption) *Runner {
	r := &Runner{
		params:      params,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Run probes every tester and appends one entry per tester to report, in
// input order. Individual probe failures are recorded in the entries; the
// returned error is the context error if the run was cancelled.
func (r *Runner) Run(ctx context.Context, report *model.Report, testers []protocol.Tester) error {
	entries := make([]*model.Entry, len(testers))

	err := r.RunWithCallback(ctx, testers, func(entry *model.Entry, index int) {
		// Each index is written by exactly one goroutine.
		entries[index] = entry
	})

	report.Entries = append(report.Entries, entries...)
	return err
}

// RunWithCallback probes every tester and calls callback as each probe
// completes. The callback runs on the probing goroutine and must be safe
// for concurrent use.
func (r *Runner) RunWithCallback(
	ctx context.Context,
	testers []protocol.Tester,
	callback func(entry *model.Entry, index int),
) error {
	r.logger.Info("starting probes",
		"protocols", len(testers),
		"concurrency", r.concurrency,
	)

	startTime := time.Now()

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for i, tester := range testers {
		g.Go(func() error {
			d := tester.Descriptor()
			params := r.params(d)

			// Probe honours ctx itself and reports a cancelled run as an
			// entry with no attempts.
			result := tester.Probe(ctx, params)
			callback(model.NewEntry(d, result), i)
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // goroutines never return an error

	r.logger.Info("probes complete",
		"protocols", len(testers),
		"elapsed", time.Since(startTime),
	)

	return ctx.Err()
}
