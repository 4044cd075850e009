package report

import (
	"io"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/BeAPI/redirect-loop/internal/model"
)

// MarkdownWriter outputs history reports in Markdown format, designed for
// documentation and sharing.
//
// Design decision: The nao1215/markdown library gives type-safe generation
// of tables and GitHub-flavored alerts instead of hand-assembled strings.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the history report in Markdown format.
func (w *MarkdownWriter) Write(report *model.HistoryReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeAlert(md, report)
	w.writeHosts(md, report)
	w.writeIncidents(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with summary information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.HistoryReport) {
	md.H1("Redirect Loop History")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Incidents", strconv.Itoa(report.Total)},
			{"Initiator identified", strconv.Itoa(report.Diagnosed)},
		},
	})
	md.PlainText("")
}

// writeAlert writes an alert summarizing the state of the history.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.HistoryReport) {
	switch {
	case report.Total > 0 && report.Diagnosed == report.Total:
		md.Warningf("%d redirect loop(s) recorded; every incident has an identified initiator.", report.Total)
	case report.Total > 0:
		md.Warningf("%d redirect loop(s) recorded; %d without an identified initiator.",
			report.Total, report.Total-report.Diagnosed)
	default:
		md.Tip("No redirect loops recorded.")
	}
	md.PlainText("")
}

// writeHosts writes the per-host incident counts.
func (w *MarkdownWriter) writeHosts(md *markdown.Markdown, report *model.HistoryReport) {
	if len(report.ByHost) == 0 {
		return
	}

	md.H2("Incidents by Host")
	md.PlainText("")

	rows := make([][]string, 0, len(report.ByHost))
	for _, host := range sortedHosts(report.ByHost) {
		rows = append(rows, []string{"`" + host + "`", strconv.Itoa(report.ByHost[host])})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Host", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeIncidents writes the incident table.
func (w *MarkdownWriter) writeIncidents(md *markdown.Markdown, report *model.HistoryReport) {
	if !report.HasIncidents() {
		return
	}

	md.H2("Incidents")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Incidents))
	for _, inc := range report.Incidents {
		source := inc.SourceRef()
		if source == "" {
			source = "unknown"
		}
		rows = append(rows, []string{
			inc.DetectedAt.Format("2006-01-02 15:04:05"),
			"`" + inc.Target + "`",
			"`" + source + "`",
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Detected", "Target", "Source"},
		Rows:   rows,
	})
	md.PlainText("")
}

// sortedHosts returns the host keys in deterministic order.
func sortedHosts(byHost map[string]int) []string {
	hosts := make([]string, 0, len(byHost))
	for host := range byHost {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}
