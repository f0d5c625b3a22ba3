package protocol

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/svcping/internal/codec/htcpcp"
)

// htcpcpPot is the coffee pot addressed by the ping request.
const htcpcpPot = "pot-0"

var htcpcpDescriptor = Descriptor{
	ShortName:   "HTCPCP",
	FullName:    "Hyper Text Coffee Pot Control Protocol",
	DefaultPort: 80,
	Transport:   TransportTCP,
	Capabilities: Capabilities{
		Ping:       true,
		ServerFuzz: true,
		ClientFuzz: true,
		VulnTest:   true,
	},
}

var htcpcpTemplates = []Template{
	{Name: "htcpcp-brew", Payload: htcpcp.NewBrewRequest(htcpcpPot).Encode()},
}

// HTCPCPTester pings coffee pots (RFC 2324).
// It sends a single BREW request and treats any reply carrying the
// "HTCPCP/1.0" token as proof of life.
type HTCPCPTester struct {
	base
}

var _ Tester = (*HTCPCPTester)(nil)

// NewHTCPCPTester creates an HTCPCP tester.
func NewHTCPCPTester(opts ...Option) *HTCPCPTester {
	return &HTCPCPTester{base: newBase(opts)}
}

// Descriptor returns the HTCPCP descriptor.
func (t *HTCPCPTester) Descriptor() Descriptor {
	return htcpcpDescriptor
}

// Templates returns the BREW request.
func (t *HTCPCPTester) Templates() []Template {
	return cloneTemplates(htcpcpTemplates)
}

// Evaluate checks raw for the HTCPCP version token.
// Only the presence of the token matters; the status code is not inspected.
func (t *HTCPCPTester) Evaluate(raw []byte) Outcome {
	return evaluateHTCPCP(raw)
}

// Ping reports whether an HTCPCP server answers at params.
func (t *HTCPCPTester) Ping(ctx context.Context, params TestParameters) bool {
	return t.Probe(ctx, params).Alive
}

// Probe pings and returns the details of the call.
func (t *HTCPCPTester) Probe(ctx context.Context, params TestParameters) *PingResult {
	return t.probe(ctx, probeSpec{
		descriptor: htcpcpDescriptor,
		templates:  htcpcpTemplates,
		evaluate:   evaluateHTCPCP,
		dump:       dumpText,
	}, params)
}

func evaluateHTCPCP(raw []byte) Outcome {
	out := Outcome{Raw: raw}

	resp, err := htcpcp.ParseResponse(raw)
	if errors.Is(err, htcpcp.ErrEmptyResponse) {
		out.Failure = FailureDecode
		out.Err = err
		return out
	}
	if err == nil {
		out.Summary = resp.StatusLine()
	} else {
		out.Summary = firstLine(raw)
	}

	if strings.Contains(string(raw), htcpcp.Version10) {
		out.Success = true
		return out
	}

	if err != nil {
		out.Failure = FailureDecode
		out.Err = err
		return out
	}
	out.Failure = FailurePredicate
	out.Err = fmt.Errorf("%w: %q", ErrUnexpectedResponse, out.Summary)
	return out
}

// firstLine returns the first line of raw as valid UTF-8, without the line break.
func firstLine(raw []byte) string {
	line, _, _ := strings.Cut(string(raw), "\n")
	return strings.ToValidUTF8(strings.TrimRight(line, "\r"), "?")
}

func dumpText(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "?")
}
