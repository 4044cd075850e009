package hook

import (
	"log/slog"
	"net/http"
	"sort"
)

// Filter priorities. Lower values run earlier; ties run in registration
// order.
const (
	// PriorityDefault is the priority used by ordinary filters that rewrite
	// or veto redirect targets.
	PriorityDefault = 10

	// PriorityLast places a filter after all ordinary filters, so it
	// observes the final target value just before emission. The loop
	// detector registers at this priority.
	PriorityLast = 9999
)

// FilterRedirectTarget is the name of the filter chain applied to every
// outgoing redirect target.
const FilterRedirectTarget = "redirect_target"

// FilterFunc transforms or observes a string value flowing through a filter
// chain. Implementations must return the value (possibly modified); pure
// observers return it unchanged. The response writer and request give
// filters access to the surrounding exchange.
type FilterFunc func(w http.ResponseWriter, r *http.Request, value string) string

// filterEntry pairs a filter with its priority and registration sequence.
type filterEntry struct {
	fn       FilterFunc
	priority int
	seq      int
}

// Registry holds named filter chains and dispatches values through them.
// A Registry is built once during pipeline setup and must not be mutated
// concurrently with request handling; dispatch itself is read-only and safe
// for concurrent requests.
type Registry struct {
	filters map[string][]filterEntry
	seq     int
	logger  *slog.Logger

	// allowedHosts resolves the hosts SafeRedirect accepts for a given
	// request. When nil, only the request's own host is accepted.
	allowedHosts func(r *http.Request) []string

	// fallbackURL is where SafeRedirect sends clients when the proposed
	// target fails host validation.
	fallbackURL string
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(reg *Registry) {
		reg.logger = logger
	}
}

// WithAllowedHosts sets the resolver for hosts SafeRedirect accepts.
// The function is called once per SafeRedirect with the current request
// and returns additional acceptable hosts; the request's own host is always
// accepted.
func WithAllowedHosts(fn func(r *http.Request) []string) Option {
	return func(reg *Registry) {
		reg.allowedHosts = fn
	}
}

// WithFallbackURL sets the target SafeRedirect falls back to when the
// proposed target fails host validation. Defaults to "/".
func WithFallbackURL(url string) Option {
	return func(reg *Registry) {
		reg.fallbackURL = url
	}
}

// NewRegistry creates an empty filter registry.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{
		filters:     make(map[string][]filterEntry),
		fallbackURL: "/",
	}

	for _, opt := range opts {
		opt(reg)
	}

	if reg.logger == nil {
		reg.logger = slog.Default()
	}

	return reg
}

// AddFilter registers fn on the named filter chain at the given priority.
func (reg *Registry) AddFilter(name string, fn FilterFunc, priority int) {
	reg.seq++
	entries := append(reg.filters[name], filterEntry{
		fn:       fn,
		priority: priority,
		seq:      reg.seq,
	})

	// Keep the chain sorted at registration time so dispatch is a plain
	// iteration on the hot path.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority < entries[j].priority
		}
		return entries[i].seq < entries[j].seq
	})

	reg.filters[name] = entries
}

// ApplyFilters runs value through the named filter chain and returns the
// final value. An empty or unknown chain returns the value unchanged.
func (reg *Registry) ApplyFilters(name string, w http.ResponseWriter, r *http.Request, value string) string {
	for _, entry := range reg.filters[name] {
		value = entry.fn(w, r, value)
	}
	return value
}

// FilterCount returns the number of filters registered on the named chain.
func (reg *Registry) FilterCount(name string) int {
	return len(reg.filters[name])
}
