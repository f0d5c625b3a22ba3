// Package htcpcp implements the wire format of the Hyper Text Coffee Pot
// Control Protocol (RFC 2324): an HTTP-like text protocol with a request
// line, a header block and a blank-line terminator.
package htcpcp

import (
	"net/textproto"
	"sort"
	"strings"
)

// Protocol constants from RFC 2324.
const (
	// Version10 is the protocol/version token carried by requests and responses.
	Version10 = "HTCPCP/1.0"

	// MethodBrew asks the pot to start brewing. POST is accepted as a synonym.
	MethodBrew = "BREW"
	// MethodGet retrieves coffee from the pot.
	MethodGet = "GET"
	// MethodPropfind retrieves metadata about the coffee.
	MethodPropfind = "PROPFIND"
	// MethodWhen tells the pot to stop pouring milk.
	MethodWhen = "WHEN"

	// ContentTypeCoffeePot is the body type of BREW requests.
	ContentTypeCoffeePot = "message/coffeepot"

	// DefaultScheme is the coffee URI scheme used for pot addressing.
	DefaultScheme = "kafo"

	crlf = "\r\n"
)

// Request is an outgoing HTCPCP request.
type Request struct {
	Method  string
	URI     string
	Version string
	Header  textproto.MIMEHeader
	Body    []byte
}

// NewBrewRequest returns a BREW request addressed to the named pot.
func NewBrewRequest(pot string) *Request {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", ContentTypeCoffeePot)

	return &Request{
		Method:  MethodBrew,
		URI:     DefaultScheme + "://" + pot,
		Version: Version10,
		Header:  header,
	}
}

// Encode renders the request in wire format.
// Header fields are written in sorted order so that encoding is deterministic.
func (r *Request) Encode() []byte {
	version := r.Version
	if version == "" {
		version = Version10
	}

	var sb strings.Builder
	sb.WriteString(r.Method)
	sb.WriteString(" ")
	sb.WriteString(r.URI)
	sb.WriteString(" ")
	sb.WriteString(version)
	sb.WriteString(crlf)

	keys := make([]string, 0, len(r.Header))
	for k := range r.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range r.Header[k] {
			sb.WriteString(k)
			sb.WriteString(": ")
			sb.WriteString(v)
			sb.WriteString(crlf)
		}
	}
	sb.WriteString(crlf)
	sb.Write(r.Body)

	return []byte(sb.String())
}
