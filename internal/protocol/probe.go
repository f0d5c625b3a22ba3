package protocol

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/svcping/internal/log"
	"github.com/nao1215/svcping/internal/transport"
)

// probeSpec is what an adapter hands to the retry engine.
type probeSpec struct {
	descriptor Descriptor
	templates  []Template
	// evaluate decodes a response and applies the success predicate.
	evaluate func(raw []byte) Outcome
	// dump renders a response for verbose diagnostics.
	dump func(raw []byte) string
}

// runProbe drives the attempt loop shared by every adapter.
// Templates are tried in order, each up to params.Attempts() times. The
// first attempt whose predicate holds ends the call. Cancelling ctx stops the
// loop before the next attempt; the verdict is then false.
func runProbe(ctx context.Context, ex transport.Exchanger, spec probeSpec, params TestParameters, diag *log.Diagnostics) *PingResult {
	start := time.Now()
	result := &PingResult{
		Protocol: spec.descriptor.ShortName,
		Target:   params.Address(),
	}
	defer func() {
		result.Elapsed = time.Since(start)
	}()

	diag = diag.With("protocol", spec.descriptor.ShortName, "target", result.Target)

	if err := params.Validate(); err != nil {
		diag.Report("invalid test parameters", false, "error", err)
		result.LastError = err.Error()
		return result
	}

	network := spec.descriptor.Transport.Network()

	for _, tmpl := range spec.templates {
		for attempt := 1; attempt <= params.Attempts(); attempt++ {
			if err := ctx.Err(); err != nil {
				diag.Report("probe cancelled", false, "error", err)
				result.LastError = err.Error()
				return result
			}

			result.Attempts++
			result.Template = tmpl.Name

			diag.Report("sending request", true,
				"template", tmpl.Name, "attempt", attempt, "bytes", len(tmpl.Payload))

			outcome := attemptOnce(ctx, ex, spec, network, result.Target, tmpl, params.Timeout)

			if outcome.Raw != nil && spec.dump != nil {
				diag.Report("received response", true,
					"template", tmpl.Name, "attempt", attempt, "response", spec.dump(outcome.Raw))
			}
			if outcome.Summary != "" {
				result.Summary = outcome.Summary
				diag.Report(fmt.Sprintf("%s ping %d: %s", spec.descriptor.ShortName, attempt, outcome.Summary), true,
					"template", tmpl.Name)
			}

			if outcome.Success {
				result.Alive = true
				result.LastFailure = FailureNone
				result.LastError = ""
				diag.Report("service is alive", false, "template", tmpl.Name, "attempts", result.Attempts)
				return result
			}

			result.LastFailure = outcome.Failure
			if outcome.Err != nil {
				result.LastError = outcome.Err.Error()
			}
			diag.Report("attempt failed", false,
				"template", tmpl.Name, "attempt", attempt, "failure", outcome.Failure, "error", outcome.Err)
		}
	}

	diag.Report("service did not respond as expected", false, "attempts", result.Attempts)
	return result
}

// attemptOnce performs one exchange and evaluates the reply.
// A panic in the exchanger is a transport failure; a panic in the evaluator
// is a decode failure.
func attemptOnce(
	ctx context.Context,
	ex transport.Exchanger,
	spec probeSpec,
	network, address string,
	tmpl Template,
	timeout time.Duration,
) (outcome Outcome) {
	stage := FailureTransport
	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome{
				Failure: stage,
				Err:     fmt.Errorf("%w: %v", ErrAdapterPanic, r),
			}
		}
	}()

	res := ex.Exchange(ctx, network, address, bytes.Clone(tmpl.Payload), timeout)

	switch res.Status {
	case transport.StatusOK:
	case transport.StatusTimeout:
		return Outcome{Failure: FailureTimeout, Err: res.Err}
	default:
		err := res.Err
		if err == nil {
			err = errors.New(res.Status.String())
		}
		return Outcome{Failure: FailureTransport, Err: err}
	}

	stage = FailureDecode
	outcome = spec.evaluate(res.Data)
	if outcome.Raw == nil {
		outcome.Raw = res.Data
	}
	return outcome
}

// probe is the Probe implementation shared by the adapters.
func (b base) probe(ctx context.Context, spec probeSpec, params TestParameters) *PingResult {
	return runProbe(ctx, b.exchanger, spec, params, log.NewDiagnostics(b.logger, params.Verbose))
}
