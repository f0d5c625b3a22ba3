package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/svcping/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text reports.
type SimpleWriter struct {
	baseWriter

	// verbose adds the status hint and the attempt count to each entry.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeEntries(&sb, report)
	w.writeSummary(&sb, report)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.Report) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Target:   %s\n", report.Target)
	if report.Proxy != "" {
		fmt.Fprintf(sb, "Proxy:    %s\n", report.Proxy)
	}
	fmt.Fprintf(sb, "Started:  %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	if d := report.Duration(); d > 0 {
		fmt.Fprintf(sb, "Duration: %s\n", d.Round(time.Millisecond))
	}
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeEntries(sb *strings.Builder, report *model.Report) {
	if len(report.Entries) == 0 {
		sb.WriteString("  No protocols probed\n\n")
		return
	}

	for _, e := range report.Entries {
		fmt.Fprintf(sb, "[%s] %-8s %-22s %s\n", statusIndicator(e.Status), e.Protocol, orDash(e.Target), e.Status)
		if e.Summary != "" {
			fmt.Fprintf(sb, "      response: %s\n", e.Summary)
		}
		if !e.Alive && e.LastError != "" {
			fmt.Fprintf(sb, "      error:    %s\n", e.LastError)
		}
		if w.verbose {
			fmt.Fprintf(sb, "      attempts: %d (template %s, %s)\n",
				e.Attempts, orDash(e.Template), e.Elapsed.Round(time.Millisecond))
			if hint := e.Status.Hint(); hint != "" {
				fmt.Fprintf(sb, "      %s\n", hint)
			}
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.Report) {
	counts := report.Counts()

	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	parts := make([]string, 0, len(orderedStatuses))
	for _, s := range orderedStatuses {
		if counts[s] > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", s, counts[s]))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing probed")
	}
	fmt.Fprintf(sb, "%d/%d alive  (%s)\n", counts[model.StatusAlive], len(report.Entries), strings.Join(parts, ", "))
}

// statusIndicator returns a visual indicator for the status.
func statusIndicator(s model.Status) string {
	switch s {
	case model.StatusAlive:
		return "+"
	case model.StatusNoMatch:
		return "?"
	case model.StatusUnreachable:
		return "-"
	case model.StatusNotProbed:
		return " "
	default:
		return "!"
	}
}
