// Package protocol provides the protocol testers of svcping: one adapter per
// application protocol, each able to tell whether a remote service speaking
// that protocol is alive.
//
// # Architecture
//
// Every adapter implements the Tester interface and carries a constant
// Descriptor: names, default port, transport kind and a capability matrix.
// Orchestration code reads the descriptor instead of probing the network,
// so Descriptor must return the same value on every call.
//
// A liveness probe ("ping") sends one or more fixed request templates and
// applies a protocol-specific success predicate to the first response:
//
//	for each template, in order:
//	    for attempt 1 .. 1+Retries:
//	        exchange payload (bounded by Timeout)
//	        timeout / socket error / undecodable reply -> next attempt
//	        predicate holds                             -> alive, stop
//	exhausted -> not alive
//
// Transport and decode failures never escape Ping or Probe. They are
// recorded in the PingResult returned by Probe.
//
// # Supported Protocols
//
//   - HTCPCP (port 80/TCP): BREW request, alive when the reply carries "HTCPCP/1.0"
//   - MQTT (port 1883/TCP): CONNECT request in two dialects, alive on any CONNACK
//
// # Registry
//
// Testers are looked up by name through a Registry. DefaultRegistry holds
// every built-in adapter; names are matched case-insensitively.
package protocol
