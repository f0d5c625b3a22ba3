package protocol

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/nao1215/svcping/internal/transport"
)

// exchangeCall records one call to a fake exchanger.
type exchangeCall struct {
	network string
	address string
	payload []byte
	timeout time.Duration
}

// scriptedExchanger replays canned results. The last result repeats once
// the script is exhausted.
type scriptedExchanger struct {
	mu      sync.Mutex
	results []transport.Result
	calls   []exchangeCall
}

func newScriptedExchanger(results ...transport.Result) *scriptedExchanger {
	return &scriptedExchanger{results: results}
}

func (s *scriptedExchanger) Exchange(_ context.Context, network, address string, payload []byte, timeout time.Duration) transport.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, exchangeCall{
		network: network,
		address: address,
		payload: bytes.Clone(payload),
		timeout: timeout,
	})

	idx := len(s.calls) - 1
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	return s.results[idx]
}

func (s *scriptedExchanger) Calls() []exchangeCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]exchangeCall(nil), s.calls...)
}

// exchangeFunc adapts a function to transport.Exchanger.
type exchangeFunc func(ctx context.Context, network, address string, payload []byte, timeout time.Duration) transport.Result

func (f exchangeFunc) Exchange(ctx context.Context, network, address string, payload []byte, timeout time.Duration) transport.Result {
	return f(ctx, network, address, payload, timeout)
}

func okResult(data []byte) transport.Result {
	return transport.Result{Status: transport.StatusOK, Data: data}
}

func timeoutResult() transport.Result {
	return transport.Result{Status: transport.StatusTimeout, Err: context.DeadlineExceeded}
}

func errorResult() transport.Result {
	return transport.Result{Status: transport.StatusError, Err: transport.ErrNoResponse}
}

func testParams(retries uint) TestParameters {
	return TestParameters{
		Host:    "192.0.2.1",
		Port:    1883,
		Retries: retries,
		Timeout: 50 * time.Millisecond,
	}
}

var (
	connackAccepted      = []byte{0x20, 0x02, 0x00, 0x00}
	connackNotAuthorized = []byte{0x20, 0x02, 0x00, 0x05}
)
