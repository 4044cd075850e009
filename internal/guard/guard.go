package guard

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/BeAPI/redirect-loop/internal/config"
	"github.com/BeAPI/redirect-loop/internal/detector"
	"github.com/BeAPI/redirect-loop/internal/hook"
	"github.com/BeAPI/redirect-loop/internal/reporter"
	"github.com/BeAPI/redirect-loop/internal/stacktrace"
)

// Guard owns a configured redirect-loop detection pipeline.
type Guard struct {
	registry *hook.Registry
	detector *detector.Detector
	logger   *slog.Logger
}

// New builds a Guard from the configuration. store may be nil to disable
// incident persistence.
func New(cfg *config.Config, logger *slog.Logger, store detector.IncidentStore) *Guard {
	if logger == nil {
		logger = slog.Default()
	}

	registry := hook.NewRegistry(
		hook.WithLogger(logger),
		hook.WithFallbackURL(cfg.FallbackURL),
		hook.WithAllowedHosts(func(r *http.Request) []string {
			return cfg.AllowedHostsFor(r.Host)
		}),
	)

	// The probe ties the analyzer to the hook package's dispatch
	// internals; swapping the host framework means swapping this probe.
	probe := stacktrace.SuffixProbe{
		DispatchFile:      hook.DispatchFileSuffix,
		ApplyFiltersFunc:  hook.ApplyFiltersFunc,
		PlainRedirectFunc: hook.PlainRedirectFunc,
	}
	analyzer := stacktrace.NewAnalyzer(probe, stacktrace.WithPathNormalization(true))

	var rep reporter.Reporter
	if cfg.Debug {
		rep = reporter.NewDebugReporter(logger)
	} else {
		rep = reporter.NewLogReporter(logger)
	}

	det := detector.New(analyzer, rep,
		detector.WithStore(store),
		detector.WithForwardedHost(cfg.UseForwardedHost),
		detector.WithDebugFlag(cfg.Debug),
		detector.WithLogger(logger),
	)
	det.Register(registry)

	return &Guard{
		registry: registry,
		detector: det,
		logger:   logger,
	}
}

// Registry returns the hook registry applications emit redirects through.
// Callers must invoke Redirect and SafeRedirect on the registry directly,
// not through an intermediate helper: the stack analysis attributes a loop
// to the immediate caller of the dispatch entry points, and a wrapper would
// be blamed in place of the code that actually issued the redirect.
func (g *Guard) Registry() *hook.Registry {
	return g.registry
}

// Middleware wraps next with the guard's request boundary. Its only job is
// recovering the debug reporter's termination sentinel so an aborted
// request ends with the diagnostic document instead of a crash; every
// other panic value is re-raised untouched.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, reporter.ErrRequestTerminated) {
				g.logger.Debug("request terminated by loop diagnostic", "path", r.URL.Path)
				return
			}
			panic(v)
		}()

		next.ServeHTTP(w, r)
	})
}
