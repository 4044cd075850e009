package stacktrace

import (
	"path/filepath"
	"strings"
)

// Probe classifies stack frames against a host framework's redirect
// internals. Implementations answer two questions the analyzer needs:
// which frame is the dispatch boundary that invoked the detector, and
// whether a frame is the plain redirect entry point that the safe wrapper
// routes through.
type Probe interface {
	// IsDispatchPoint reports whether the frame is the host framework's
	// generic filter invocation, called from the redirect dispatch
	// internals.
	IsDispatchPoint(Frame) bool

	// IsPlainRedirect reports whether the frame is the plain redirect
	// entry point called from within the redirect dispatch internals,
	// meaning the real initiator sits one frame further out.
	IsPlainRedirect(Frame) bool
}

// SuffixProbe matches frames by file-path and function-name suffixes.
// It is the production probe: the guard configures it with the hook
// package's dispatch file and entry-point names. Suffix matching keeps it
// independent of the absolute build path.
type SuffixProbe struct {
	// DispatchFile is the path suffix of the redirect dispatch file,
	// e.g. "internal/hook/redirect.go".
	DispatchFile string

	// ApplyFiltersFunc is the name suffix of the generic filter-invocation
	// function.
	ApplyFiltersFunc string

	// PlainRedirectFunc is the name suffix of the plain redirect entry
	// point.
	PlainRedirectFunc string
}

// IsDispatchPoint reports whether the frame records the filter-invocation
// function being called from inside the dispatch file.
func (p SuffixProbe) IsDispatchPoint(f Frame) bool {
	return p.inDispatchFile(f.File) && strings.HasSuffix(f.Function, p.ApplyFiltersFunc)
}

// IsPlainRedirect reports whether the frame records the plain redirect
// entry point being called from inside the dispatch file.
func (p SuffixProbe) IsPlainRedirect(f Frame) bool {
	return p.inDispatchFile(f.File) && strings.HasSuffix(f.Function, p.PlainRedirectFunc)
}

// inDispatchFile matches the call-site path against the dispatch file
// suffix, tolerating platform path separators.
func (p SuffixProbe) inDispatchFile(path string) bool {
	return strings.HasSuffix(filepath.ToSlash(path), p.DispatchFile)
}
