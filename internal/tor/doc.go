// Package tor provides proxied connectivity for svcping.
//
// A Client wraps a SOCKS5 proxy (an external Tor daemon or any other SOCKS5
// server) and hands out a dialer that the probe transport routes every
// connection through. EmbeddedTor starts a private Tor daemon with tornago
// for users who have none running.
//
// The package also validates v3 onion addresses, so that a mistyped .onion
// target fails fast instead of timing out through Tor.
package tor
