package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and name the specific
// field that is wrong.
//
// Design decision: Package-level sentinel errors rather than fresh
// instances in Validate(), so callers can branch with errors.Is() while
// users still get a readable message. Plain errors.New() suffices because
// none of the messages need dynamic values.
var (
	// ErrEmptyListenAddr is returned when the serve listen address is empty.
	ErrEmptyListenAddr = errors.New("empty listen address: provide an address like \":8080\"")

	// ErrEmptyFallbackURL is returned when the safe-redirect fallback URL is
	// empty. SafeRedirect must always have somewhere to send a rejected
	// target.
	ErrEmptyFallbackURL = errors.New("empty fallback URL: safe redirects need a fallback target")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidHistoryLimit is returned when the history limit is not
	// positive. A limit of zero would always produce an empty report.
	ErrInvalidHistoryLimit = errors.New("invalid history limit: must be positive")
)
