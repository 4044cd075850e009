package reporter

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/BeAPI/redirect-loop/internal/model"
)

// DebugReporter renders a diagnostic document describing the loop and
// terminates the request with it. Intended for development: the loop is
// made impossible to miss instead of silently spinning the client.
type DebugReporter struct {
	logger *slog.Logger
}

// NewDebugReporter creates a DebugReporter.
func NewDebugReporter(logger *slog.Logger) *DebugReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DebugReporter{logger: logger}
}

// Report writes the diagnostic document with status 508 Loop Detected and
// terminates the request by panicking with ErrRequestTerminated. The guard
// middleware recovers the sentinel, so handlers above the redirect call
// never resume.
func (d *DebugReporter) Report(_ context.Context, w http.ResponseWriter, incident *model.Incident) {
	d.logger.Error("redirect loop detected, aborting request",
		"url", incident.Target,
		"source", incident.SourceRef(),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusLoopDetected)
	_, _ = fmt.Fprint(w, renderDocument(incident)) //nolint:errcheck // Best effort; the request dies either way

	panic(ErrRequestTerminated)
}

// renderDocument builds the human-readable diagnostic page.
func renderDocument(incident *model.Incident) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head><title>Redirect loop detected</title></head>\n<body>\n")
	b.WriteString("<h1>Redirect loop detected</h1>\n")
	fmt.Fprintf(&b, "<p>A redirect was issued to <code>%s</code>, which is the URL of the current request. Following it would loop forever.</p>\n",
		html.EscapeString(incident.Target))

	if incident.HasSource() {
		fmt.Fprintf(&b, "<p>The redirect appears to originate from <code>%s</code>.</p>\n",
			html.EscapeString(incident.SourceRef()))
	} else {
		b.WriteString("<p>The origin of the redirect could not be determined from the call stack.</p>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}
