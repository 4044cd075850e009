package reporter

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/BeAPI/redirect-loop/internal/model"
)

// LogReporter emits one structured log record per detected loop and lets
// the request proceed. This is the production reporter: the redirect is
// still sent, but operators get an actionable record with the initiator's
// file and line when the stack analysis found one.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter creates a LogReporter writing through the given logger.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger}
}

// Report logs the incident. The response writer is unused; log reporting
// never touches the response.
func (l *LogReporter) Report(_ context.Context, _ http.ResponseWriter, incident *model.Incident) {
	if incident.HasSource() {
		l.logger.Warn("redirect loop detected",
			"url", incident.Target,
			"source", incident.SourceRef(),
		)
		return
	}

	l.logger.Warn("redirect loop detected, cause unknown",
		"url", incident.Target,
	)
}
