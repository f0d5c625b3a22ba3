package htcpcp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
	"strings"
)

var (
	// ErrEmptyResponse is returned when no bytes were received.
	ErrEmptyResponse = errors.New("empty response")

	// ErrMalformedResponse is returned when the status line or header block
	// cannot be parsed.
	ErrMalformedResponse = errors.New("malformed response")
)

// Response is a decoded HTCPCP (or HTTP) response.
type Response struct {
	// Proto is the protocol/version token of the status line, e.g. "HTCPCP/1.0".
	Proto string
	// StatusCode is the three-digit status code.
	StatusCode int
	// Reason is the reason phrase following the status code. May be empty.
	Reason string
	// Header holds the header fields read before the blank line.
	Header textproto.MIMEHeader
	// Body is whatever followed the header block in the same read.
	Body []byte
	// Raw is the undecoded response.
	Raw []byte
}

// ParseResponse decodes a response received in a single read.
// A header block cut short by the end of the data is accepted, because the
// transport hands over the first chunk only.
func ParseResponse(raw []byte) (*Response, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyResponse
	}

	reader := textproto.NewReader(bufio.NewReader(bytes.NewReader(raw)))

	line, err := reader.ReadLine()
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, fmt.Errorf("%w: reading status line: %v", ErrMalformedResponse, err)
	}

	resp, err := parseStatusLine(line)
	if err != nil {
		return nil, err
	}
	resp.Raw = raw

	header, err := reader.ReadMIMEHeader()
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w: reading header: %v", ErrMalformedResponse, err)
	}
	if header == nil {
		header = make(textproto.MIMEHeader)
	}
	resp.Header = header

	body, err := io.ReadAll(reader.R)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrMalformedResponse, err)
	}
	resp.Body = body

	return resp, nil
}

// parseStatusLine splits "PROTO CODE REASON" into its parts.
func parseStatusLine(line string) (*Response, error) {
	proto, rest, ok := strings.Cut(line, " ")
	if !ok || !strings.Contains(proto, "/") {
		return nil, fmt.Errorf("%w: bad status line %q", ErrMalformedResponse, line)
	}

	codeText, reason, _ := strings.Cut(strings.TrimLeft(rest, " "), " ")
	if len(codeText) != 3 {
		return nil, fmt.Errorf("%w: bad status code %q", ErrMalformedResponse, codeText)
	}
	code, err := strconv.Atoi(codeText)
	if err != nil || code < 100 {
		return nil, fmt.Errorf("%w: bad status code %q", ErrMalformedResponse, codeText)
	}

	return &Response{
		Proto:      proto,
		StatusCode: code,
		Reason:     strings.TrimSpace(reason),
	}, nil
}

// StatusLine returns the status line without the trailing CRLF.
func (r *Response) StatusLine() string {
	line := r.Proto + " " + strconv.Itoa(r.StatusCode)
	if r.Reason != "" {
		line += " " + r.Reason
	}
	return line
}

// Text returns the raw response as a string.
func (r *Response) Text() string {
	return string(r.Raw)
}
