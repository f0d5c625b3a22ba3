// Package report renders probe results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text for the terminal
//   - JSONWriter: structured JSON for scripts and other tools
//   - MarkdownWriter: Markdown for issues, wikis and chat
//
// Writers implement the Writer interface and can be combined with
// MultiWriter. The capability matrix of the registered protocols is
// rendered by WriteCapabilities and WriteCapabilitiesMarkdown.
package report
