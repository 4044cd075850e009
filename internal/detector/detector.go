package detector

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/BeAPI/redirect-loop/internal/hook"
	"github.com/BeAPI/redirect-loop/internal/model"
	"github.com/BeAPI/redirect-loop/internal/reporter"
	"github.com/BeAPI/redirect-loop/internal/request"
	"github.com/BeAPI/redirect-loop/internal/stacktrace"
)

// IncidentStore persists detected loop incidents. The database package
// provides the real implementation; a nil store disables persistence.
type IncidentStore interface {
	SaveIncident(ctx context.Context, incident *model.Incident) error
}

// Detector intercepts outgoing redirect targets and flags loops.
//
// Design decision: The detector is an explicitly constructed component
// wired in by the guard during pipeline setup, not a package-level
// singleton. This keeps every collaborator injectable and makes the
// detector trivial to exercise in tests.
type Detector struct {
	analyzer *stacktrace.Analyzer
	reporter reporter.Reporter
	store    IncidentStore
	logger   *slog.Logger

	// useForwardedHost lets a proxy-supplied X-Forwarded-Host header
	// override the observed host when reconstructing the current URL.
	useForwardedHost bool

	// debug is recorded on incidents so history output shows which loops
	// aborted their request.
	debug bool
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithStore sets the incident store. A nil store disables persistence.
func WithStore(store IncidentStore) DetectorOption {
	return func(d *Detector) {
		d.store = store
	}
}

// WithForwardedHost controls whether X-Forwarded-Host participates in
// current-URL reconstruction.
func WithForwardedHost(use bool) DetectorOption {
	return func(d *Detector) {
		d.useForwardedHost = use
	}
}

// WithDebugFlag marks incidents produced by this detector as debug-mode
// detections.
func WithDebugFlag(debug bool) DetectorOption {
	return func(d *Detector) {
		d.debug = debug
	}
}

// WithLogger sets the logger for detector diagnostics.
func WithLogger(logger *slog.Logger) DetectorOption {
	return func(d *Detector) {
		d.logger = logger
	}
}

// New creates a Detector that diagnoses loops with analyzer and delivers
// them through rep.
func New(analyzer *stacktrace.Analyzer, rep reporter.Reporter, opts ...DetectorOption) *Detector {
	d := &Detector{
		analyzer:         analyzer,
		reporter:         rep,
		useForwardedHost: true,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	return d
}

// Register adds the detector to the registry's redirect-target chain at
// PriorityLast, so it observes the final target value after all other
// filters and before emission. Call once during pipeline setup.
func (d *Detector) Register(reg *hook.Registry) {
	reg.AddFilter(hook.FilterRedirectTarget, d.FilterRedirectTarget, hook.PriorityLast)
}

// FilterRedirectTarget is the filter applied to every outgoing redirect
// target. It always returns target unchanged; a detected loop triggers the
// diagnostic side channel (stack analysis, persistence, reporting) but
// never rewrites the redirect.
//
// In debug mode the reporter terminates the request after the diagnostic
// document is written, which happens before the redirect would have been
// emitted.
func (d *Detector) FilterRedirectTarget(w http.ResponseWriter, r *http.Request, target string) string {
	current := request.CurrentURL(request.Snapshot(r), d.useForwardedHost)
	if request.UntrailingSlash(target) != request.UntrailingSlash(current) {
		return target
	}

	incident := model.NewIncident(current, target, r.Host)
	incident.Debug = d.debug

	if initiator := d.analyzer.FindInitiator(stacktrace.Capture(1)); initiator != nil {
		incident.SetSource(initiator.File, initiator.Line)
	}

	// Persist before reporting: the debug reporter aborts the request and
	// must not cost us the record. Storage failures are logged and
	// swallowed; diagnosis never breaks the request it diagnoses.
	if d.store != nil {
		if err := d.store.SaveIncident(r.Context(), incident); err != nil {
			d.logger.Error("failed to save loop incident", "url", target, "error", err)
		}
	}

	d.reporter.Report(r.Context(), w, incident)

	return target
}
