package stacktrace

// Analyzer locates the call frame that most likely issued a redirect, given
// an ordered stack capture.
//
// Design decision: The analyzer never returns an error. A stack it cannot
// interpret (no dispatch boundary, truncated capture) yields a nil
// initiator, which reporters turn into a "cause unknown" notice. Detection
// must not fail a request just because diagnosis did.
type Analyzer struct {
	probe Probe

	// normalizePaths truncates the returned frame's file to a root-relative
	// path using the process-wide prefix table.
	normalizePaths bool
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithPathNormalization enables truncation of the initiator's file path to
// root-relative form in the returned frame.
func WithPathNormalization(enable bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.normalizePaths = enable
	}
}

// NewAnalyzer creates an Analyzer that classifies frames with the given
// probe.
func NewAnalyzer(probe Probe, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{probe: probe}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FindInitiator walks frames (most recent call first) and returns a copy of
// the frame that most likely issued the redirect, or nil when it cannot be
// determined.
//
// The walk looks for the first dispatch-point frame: the host framework's
// filter invocation, called from the redirect dispatch internals. That
// frame invoked the detector itself, so the frame immediately after it is
// the candidate initiator. One disambiguation applies: when the candidate
// is the plain redirect entry point still inside the dispatch internals,
// the redirect was routed through the safe wrapper, and the true initiator
// is one frame further out. The first dispatch match wins; later matches
// are never considered. Any index past the end of the capture yields nil.
func (a *Analyzer) FindInitiator(frames []Frame) *Frame {
	for i, f := range frames {
		if !a.probe.IsDispatchPoint(f) {
			continue
		}

		idx := i + 1
		if idx >= len(frames) {
			return nil
		}
		candidate := frames[idx]

		if a.probe.IsPlainRedirect(candidate) {
			idx++
			if idx >= len(frames) {
				return nil
			}
			candidate = frames[idx]
		}

		if a.normalizePaths {
			candidate.File = NormalizePath(candidate.File)
		}
		return &candidate
	}
	return nil
}
