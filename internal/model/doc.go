// Package model defines the data structures shared by the runner and the
// report writers.
//
// This package contains the following main types:
//   - Report: the outcome of probing one target with one or more protocols
//   - Entry: one protocol's PingResult plus its derived Status
//   - Status: the verdict category used for summaries and exit codes
//
// The models are designed to be serializable to JSON for report output.
package model
