// Package pipeline runs several protocol testers against one target.
//
// Each tester gets its own goroutine and its own connections; the number of
// probes in flight is bounded with errgroup. Results are collected into a
// model.Report in the order the testers were given, regardless of which
// probe finished first.
package pipeline
