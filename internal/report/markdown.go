package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/svcping/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeResults(md, report)
	w.writeSummary(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("svcping Report")
	md.PlainText("")

	rows := [][]string{
		{"Target", "`" + report.Target + "`"},
		{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
	}
	if report.Proxy != "" {
		rows = append(rows, []string{"Proxy", "`" + report.Proxy + "`"})
	}
	if d := report.Duration(); d > 0 {
		rows = append(rows, []string{"Duration", d.Round(time.Millisecond).String()})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeResults(md *markdown.Markdown, report *model.Report) {
	md.H2("Results")
	md.PlainText("")

	if len(report.Entries) == 0 {
		md.PlainText("No protocols probed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Entries))
	for i, e := range report.Entries {
		detail := e.Summary
		if !e.Alive && e.LastError != "" {
			detail = e.LastError
		}
		rows[i] = []string{
			e.Protocol,
			"`" + orDash(e.Target) + "`",
			statusBadge(e.Status),
			strconv.Itoa(e.Attempts),
			truncateString(orDash(detail), 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Protocol", "Target", "Status", "Attempts", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.Report) {
	md.H2("Summary")
	md.PlainText("")

	counts := report.Counts()
	if len(report.Entries) > 1 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Probe Results"),
			piechart.WithShowData(true),
		)
		for _, s := range orderedStatuses {
			if counts[s] > 0 {
				chart.LabelAndIntValue(s.String(), uint64(counts[s])) //nolint:gosec // counts are non-negative
			}
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case len(report.Entries) == 0:
		md.Note("Nothing was probed.")
	case counts[model.StatusAlive] == len(report.Entries):
		md.Tip("Every probed service is alive.")
	case counts[model.StatusAlive] > 0:
		md.Importantf("%d of %d probed services are alive.", counts[model.StatusAlive], len(report.Entries))
	case counts[model.StatusNoMatch] > 0:
		md.Warningf("No service is alive. %d port(s) answered with something else.", counts[model.StatusNoMatch])
	default:
		md.Cautionf("No service is alive. %d port(s) gave no answer.", len(report.Entries))
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [svcping](https://github.com/nao1215/svcping)*")
}

func statusBadge(s model.Status) string {
	switch s {
	case model.StatusAlive:
		return "✅ " + s.String()
	case model.StatusNoMatch:
		return "⚠️ " + s.String()
	case model.StatusUnreachable:
		return "❌ " + s.String()
	default:
		return s.String()
	}
}
