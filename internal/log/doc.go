// Package log provides the diagnostics channel of svcping, built on top of
// the standard slog package.
//
// It offers:
//   - A SecureHandler that masks credentials before they reach the output.
//     MQTT CONNECT templates may carry a username and password, and SOCKS
//     proxy URLs may embed secrets, so every record is sanitized.
//   - NewSecureLogger / NewSecureJSONLogger: Debug level when verbose,
//     Warn otherwise.
//   - Diagnostics: best-effort tracing for a single probe. Messages marked
//     verbose-only are dropped unless the probe runs in verbose mode.
//     Diagnostics never influence control flow.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	diag := log.NewDiagnostics(logger, params.Verbose)
//	diag.Report("received response", true, "bytes", len(data))
package log
