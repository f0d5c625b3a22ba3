package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nao1215/markdown"
	"github.com/nao1215/svcping/internal/protocol"
)

// capabilityColumns are the capability columns of the matrix, in order.
var capabilityColumns = protocol.AllCapabilities()

// WriteCapabilities writes the protocol list as an aligned text table.
func WriteCapabilities(output io.Writer, descriptors []protocol.Descriptor) error {
	tw := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)

	header := []string{"PROTOCOL", "NAME", "PORT", "TRANSPORT"}
	for _, c := range capabilityColumns {
		header = append(header, strings.ToUpper(c.String()))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return err
	}

	for _, d := range descriptors {
		if _, err := fmt.Fprintln(tw, strings.Join(capabilityRow(d, "yes", "-"), "\t")); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// WriteCapabilitiesMarkdown writes the protocol list as a Markdown table.
func WriteCapabilitiesMarkdown(output io.Writer, descriptors []protocol.Descriptor) error {
	md := markdown.NewMarkdown(output)

	header := []string{"Protocol", "Name", "Port", "Transport"}
	for _, c := range capabilityColumns {
		header = append(header, c.String())
	}

	rows := make([][]string, len(descriptors))
	for i, d := range descriptors {
		rows[i] = capabilityRow(d, "✅", "")
	}

	md.H2("Supported protocols")
	md.PlainText("")
	md.Table(markdown.TableSet{Header: header, Rows: rows})

	return md.Build()
}

func capabilityRow(d protocol.Descriptor, yes, no string) []string {
	row := []string{d.ShortName, d.FullName, fmt.Sprint(d.DefaultPort), d.Transport.String()}
	for _, c := range capabilityColumns {
		if d.Capabilities.Supports(c) {
			row = append(row, yes)
		} else {
			row = append(row, no)
		}
	}
	return row
}
