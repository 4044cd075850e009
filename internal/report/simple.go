package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/BeAPI/redirect-loop/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: Plain ASCII formatting, no ANSI colors. It works in
// every terminal and pipes cleanly into files and other tools.
type SimpleWriter struct {
	baseWriter

	// verbose adds the request URL and debug flag per incident.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional incident details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the history report in human-readable format.
func (w *SimpleWriter) Write(report *model.HistoryReport) (int, error) {
	var sb strings.Builder

	sb.WriteString("Redirect Loop History\n")
	sb.WriteString("=====================\n\n")
	fmt.Fprintf(&sb, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Incidents: %d (initiator identified for %d)\n", report.Total, report.Diagnosed)

	if len(report.ByHost) > 0 {
		sb.WriteString("\nBy host:\n")
		for _, host := range sortedHosts(report.ByHost) {
			fmt.Fprintf(&sb, "  %-40s %d\n", host, report.ByHost[host])
		}
	}

	if !report.HasIncidents() {
		sb.WriteString("\nNo redirect loops recorded.\n")
		return io.WriteString(w.output, sb.String())
	}

	sb.WriteString("\n")
	for _, inc := range report.Incidents {
		fmt.Fprintf(&sb, "[%s] %s\n", inc.DetectedAt.Format("2006-01-02 15:04:05"), inc.Target)
		if inc.HasSource() {
			fmt.Fprintf(&sb, "    source: %s\n", inc.SourceRef())
		} else {
			sb.WriteString("    source: unknown\n")
		}
		if w.verbose {
			fmt.Fprintf(&sb, "    request: %s\n", inc.RequestURL)
			fmt.Fprintf(&sb, "    host: %s  debug: %t\n", inc.Host, inc.Debug)
		}
	}

	return io.WriteString(w.output, sb.String())
}
