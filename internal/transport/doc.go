// Package transport performs one request/response round trip against a
// remote service.
//
// Every Exchange opens its own connection, writes the payload, waits for the
// first chunk of the reply and closes the connection again. Failures are not
// returned as errors: the outcome is a tagged Result (OK, Timeout or Error)
// that the caller branches on explicitly.
//
// Connections are made through a proxy.Dialer, so the same code path serves
// direct connections and connections through a SOCKS5 proxy such as Tor.
package transport
