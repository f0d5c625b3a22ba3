// Package codec holds helpers shared by the per-protocol wire codecs.
//
// Each protocol has its own subpackage:
//   - htcpcp: text request builder and status-line/header decoder
//   - mqtt: CONNECT builder and fixed/variable header decoder
//
// Codecs are pure: they never touch the network and never log.
package codec
