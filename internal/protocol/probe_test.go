package protocol

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	svclog "github.com/nao1215/svcping/internal/log"
	"github.com/nao1215/svcping/internal/transport"
)

func TestMQTTPing_ConnackOnFirstAttempt(t *testing.T) {
	t.Parallel()

	ex := newScriptedExchanger(okResult(connackAccepted))
	tester := NewMQTTTester(WithExchanger(ex))

	result := tester.Probe(context.Background(), testParams(0))

	if !result.Alive {
		t.Fatalf("expected alive, got %+v", result)
	}
	if result.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", result.Attempts)
	}
	if result.Template != "mqtt-v3.1.1" {
		t.Errorf("Template = %q, want mqtt-v3.1.1", result.Template)
	}
	if result.LastFailure != FailureNone {
		t.Errorf("LastFailure = %s, want none", result.LastFailure)
	}

	calls := ex.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if !bytes.Equal(calls[0].payload, tester.Templates()[0].Payload) {
		t.Errorf("first call did not send the first template: %x", calls[0].payload)
	}
	if calls[0].network != "tcp" || calls[0].address != "192.0.2.1:1883" || calls[0].timeout != 50*time.Millisecond {
		t.Errorf("unexpected call %+v", calls[0])
	}
}

func TestMQTTPing_SilentBrokerExhaustsBothTemplates(t *testing.T) {
	t.Parallel()

	ex := newScriptedExchanger(timeoutResult())
	tester := NewMQTTTester(WithExchanger(ex))

	result := tester.Probe(context.Background(), testParams(2))

	if result.Alive {
		t.Fatal("expected not alive")
	}
	if result.Attempts != 6 {
		t.Errorf("Attempts = %d, want 6", result.Attempts)
	}
	if result.LastFailure != FailureTimeout {
		t.Errorf("LastFailure = %s, want timeout", result.LastFailure)
	}

	templates := tester.Templates()
	calls := ex.Calls()
	if len(calls) != 6 {
		t.Fatalf("calls = %d, want 6", len(calls))
	}
	for i, call := range calls {
		want := templates[i/3].Payload
		if !bytes.Equal(call.payload, want) {
			t.Errorf("call %d sent %x, want template %q", i, call.payload, templates[i/3].Name)
		}
	}
}

func TestHTCPCPPing_CoffeepotAnswersFirstBrew(t *testing.T) {
	t.Parallel()

	ex := newScriptedExchanger(okResult([]byte("HTCPCP/1.0 200 OK\r\nContent-Type: message/coffeepot\r\n\r\n")))
	tester := NewHTCPCPTester(WithExchanger(ex))

	result := tester.Probe(context.Background(), testParams(3))

	if !result.Alive || result.Attempts != 1 {
		t.Errorf("expected alive after 1 attempt, got %+v", result)
	}
	if result.Summary != "HTCPCP/1.0 200 OK" {
		t.Errorf("Summary = %q", result.Summary)
	}
	if got := string(ex.Calls()[0].payload); got != "BREW kafo://pot-0 HTCPCP/1.0\r\nContent-Type: message/coffeepot\r\n\r\n" {
		t.Errorf("unexpected request %q", got)
	}
}

func TestHTCPCPPing_PlainHTTPReplyFailsPredicate(t *testing.T) {
	t.Parallel()

	ex := newScriptedExchanger(okResult([]byte("HTTP/1.1 200 OK\r\n\r\n")))
	tester := NewHTCPCPTester(WithExchanger(ex))

	result := tester.Probe(context.Background(), testParams(1))

	if result.Alive {
		t.Fatal("expected not alive")
	}
	if result.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", result.Attempts)
	}
	if result.LastFailure != FailurePredicate {
		t.Errorf("LastFailure = %s, want predicate", result.LastFailure)
	}
	if len(ex.Calls()) != 2 {
		t.Errorf("calls = %d, want 2", len(ex.Calls()))
	}
}

func TestPing_AttemptCounts(t *testing.T) {
	t.Parallel()

	t.Run("single template always timing out makes retries+1 attempts", func(t *testing.T) {
		t.Parallel()

		for _, retries := range []uint{0, 1, 4} {
			ex := newScriptedExchanger(timeoutResult())
			tester := NewHTCPCPTester(WithExchanger(ex))

			if tester.Ping(context.Background(), testParams(retries)) {
				t.Fatal("expected not alive")
			}
			if got := len(ex.Calls()); got != int(retries)+1 {
				t.Errorf("retries=%d: calls = %d, want %d", retries, got, retries+1)
			}
		}
	})

	t.Run("first successful attempt stops the loop", func(t *testing.T) {
		t.Parallel()

		ex := newScriptedExchanger(okResult(connackAccepted))
		tester := NewMQTTTester(WithExchanger(ex))

		if !tester.Ping(context.Background(), testParams(5)) {
			t.Fatal("expected alive")
		}
		if got := len(ex.Calls()); got != 1 {
			t.Errorf("calls = %d, want 1", got)
		}
	})

	t.Run("transport and decode failures do not stop later attempts", func(t *testing.T) {
		t.Parallel()

		ex := newScriptedExchanger(
			timeoutResult(),
			errorResult(),
			okResult([]byte{0xff, 0xff}),
			okResult(connackAccepted),
		)
		tester := NewMQTTTester(WithExchanger(ex))

		result := tester.Probe(context.Background(), testParams(3))
		if !result.Alive || result.Attempts != 4 {
			t.Errorf("expected alive after 4 attempts, got %+v", result)
		}
		if result.Template != "mqtt-v3.1.1" {
			t.Errorf("Template = %q", result.Template)
		}
	})

	t.Run("second template is tried after the first is exhausted", func(t *testing.T) {
		t.Parallel()

		first := NewMQTTTester().Templates()[0].Payload
		var calls int
		ex := exchangeFunc(func(_ context.Context, _, _ string, payload []byte, _ time.Duration) transport.Result {
			calls++
			if bytes.Equal(payload, first) {
				return errorResult()
			}
			return okResult(connackAccepted)
		})
		tester := NewMQTTTester(WithExchanger(ex))

		result := tester.Probe(context.Background(), testParams(1))
		if !result.Alive {
			t.Fatalf("expected alive, got %+v", result)
		}
		if result.Attempts != 3 || calls != 3 {
			t.Errorf("Attempts = %d, calls = %d, want 3", result.Attempts, calls)
		}
		if result.Template != "mqisdp-v3.1" {
			t.Errorf("Template = %q, want mqisdp-v3.1", result.Template)
		}
	})
}

func TestPing_LastFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result transport.Result
		want   FailureKind
	}{
		{name: "timeout", result: timeoutResult(), want: FailureTimeout},
		{name: "socket error", result: errorResult(), want: FailureTransport},
		{name: "status error without cause", result: transport.Result{Status: transport.StatusError}, want: FailureTransport},
		{name: "empty reply", result: okResult(nil), want: FailureDecode},
		{name: "wrong token", result: okResult([]byte("HTTP/1.0 404 Not Found\r\n\r\n")), want: FailurePredicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tester := NewHTCPCPTester(WithExchanger(newScriptedExchanger(tt.result)))
			result := tester.Probe(context.Background(), testParams(0))

			if result.Alive {
				t.Fatal("expected not alive")
			}
			if result.LastFailure != tt.want {
				t.Errorf("LastFailure = %s, want %s", result.LastFailure, tt.want)
			}
			if result.LastError == "" {
				t.Error("LastError should be set")
			}
		})
	}
}

func TestPing_Cancellation(t *testing.T) {
	t.Parallel()

	t.Run("cancelled context makes no attempt", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ex := newScriptedExchanger(okResult(connackAccepted))
		result := NewMQTTTester(WithExchanger(ex)).Probe(ctx, testParams(2))

		if result.Alive || result.Attempts != 0 || len(ex.Calls()) != 0 {
			t.Errorf("expected no attempt, got %+v", result)
		}
		if !strings.Contains(result.LastError, context.Canceled.Error()) {
			t.Errorf("LastError = %q", result.LastError)
		}
	})

	t.Run("cancellation during an attempt stops the loop", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var calls int
		ex := exchangeFunc(func(ctx context.Context, _, _ string, _ []byte, _ time.Duration) transport.Result {
			calls++
			cancel()
			return transport.Result{Status: transport.StatusError, Err: ctx.Err()}
		})

		result := NewMQTTTester(WithExchanger(ex)).Probe(ctx, testParams(2))
		if result.Alive || calls != 1 || result.Attempts != 1 {
			t.Errorf("expected one attempt, got calls=%d result=%+v", calls, result)
		}
	})
}

func TestPing_RecoversPanics(t *testing.T) {
	t.Parallel()

	t.Run("panicking exchanger counts as transport failure", func(t *testing.T) {
		t.Parallel()

		var calls int
		ex := exchangeFunc(func(context.Context, string, string, []byte, time.Duration) transport.Result {
			calls++
			panic("socket exploded")
		})

		result := NewHTCPCPTester(WithExchanger(ex)).Probe(context.Background(), testParams(2))
		if result.Alive || calls != 3 {
			t.Errorf("expected 3 failed attempts, got calls=%d result=%+v", calls, result)
		}
		if result.LastFailure != FailureTransport {
			t.Errorf("LastFailure = %s, want transport", result.LastFailure)
		}
		if !strings.Contains(result.LastError, ErrAdapterPanic.Error()) {
			t.Errorf("LastError = %q", result.LastError)
		}
	})

	t.Run("panicking evaluator counts as decode failure", func(t *testing.T) {
		t.Parallel()

		spec := probeSpec{
			descriptor: htcpcpDescriptor,
			templates:  htcpcpTemplates,
			evaluate: func([]byte) Outcome {
				panic("decoder exploded")
			},
		}
		ex := newScriptedExchanger(okResult([]byte("HTCPCP/1.0 200 OK\r\n\r\n")))

		result := runProbe(context.Background(), ex, spec, testParams(1), svclog.NewDiagnostics(nil, false))
		if result.Alive || result.Attempts != 2 {
			t.Errorf("expected 2 failed attempts, got %+v", result)
		}
		if result.LastFailure != FailureDecode {
			t.Errorf("LastFailure = %s, want decode", result.LastFailure)
		}
	})
}

func TestPing_InvalidParameters(t *testing.T) {
	t.Parallel()

	ex := newScriptedExchanger(okResult(connackAccepted))
	params := testParams(0)
	params.Host = ""

	result := NewMQTTTester(WithExchanger(ex)).Probe(context.Background(), params)
	if result.Alive || result.Attempts != 0 || len(ex.Calls()) != 0 {
		t.Errorf("expected no attempt, got %+v", result)
	}
	if result.LastError != ErrEmptyHost.Error() {
		t.Errorf("LastError = %q", result.LastError)
	}
}

func TestPing_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	tester := NewMQTTTester(WithExchanger(exchangeFunc(
		func(_ context.Context, _, _ string, payload []byte, _ time.Duration) transport.Result {
			for i := range payload {
				payload[i] = 0
			}
			return timeoutResult()
		},
	)))

	before := tester.Templates()
	params := testParams(1)
	paramsBefore := params
	descriptorBefore := tester.Descriptor()

	tester.Ping(context.Background(), params)

	after := tester.Templates()
	for i := range before {
		if !bytes.Equal(before[i].Payload, after[i].Payload) {
			t.Errorf("template %q was mutated", before[i].Name)
		}
	}
	if params != paramsBefore {
		t.Error("parameters were mutated")
	}
	if tester.Descriptor() != descriptorBefore {
		t.Error("descriptor was mutated")
	}

	returned := tester.Templates()
	returned[0].Payload[0] = 0xff
	if tester.Templates()[0].Payload[0] == 0xff {
		t.Error("Templates() exposes internal payloads")
	}
}

func TestPing_Diagnostics(t *testing.T) {
	t.Parallel()

	t.Run("verbose probe logs the return code", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		ex := newScriptedExchanger(okResult(connackNotAuthorized))
		tester := NewMQTTTester(WithExchanger(ex), WithLogger(svclog.NewSecureLogger(&buf, true)))

		params := testParams(0)
		params.Verbose = true
		if !tester.Ping(context.Background(), params) {
			t.Fatal("expected alive")
		}

		out := buf.String()
		if !strings.Contains(out, "MQTT ping 1: CONNACK retcode:") {
			t.Errorf("missing return code diagnostics: %s", out)
		}
		if !strings.Contains(out, "20020005") {
			t.Errorf("missing response dump: %s", out)
		}
	})

	t.Run("quiet probe skips verbose-only messages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := svclog.NewSecureLogger(&buf, true)
		ex := newScriptedExchanger(okResult(connackAccepted))
		tester := NewMQTTTester(WithExchanger(ex), WithLogger(logger))

		tester.Ping(context.Background(), testParams(0))

		if strings.Contains(buf.String(), "retcode") {
			t.Errorf("verbose-only message emitted: %s", buf.String())
		}
		if !strings.Contains(buf.String(), "service is alive") {
			t.Errorf("missing verdict message: %s", buf.String())
		}
	})
}

func TestFailureKind_String(t *testing.T) {
	t.Parallel()

	want := map[FailureKind]string{
		FailureNone:      "none",
		FailureTimeout:   "timeout",
		FailureTransport: "transport",
		FailureDecode:    "decode",
		FailurePredicate: "predicate",
		FailureKind(42):  "unknown",
	}
	for k, w := range want {
		if got := k.String(); got != w {
			t.Errorf("String() = %q, want %q", got, w)
		}
	}

	text, err := FailurePredicate.MarshalText()
	if err != nil || string(text) != "predicate" {
		t.Errorf("MarshalText() = %q, %v", text, err)
	}
}
