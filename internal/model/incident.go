package model

import (
	"strconv"
	"time"
)

// Incident records a single detected redirect loop: a redirect whose target
// resolved to the URL of the request that produced it.
//
// An incident is created once per detection, handed to the reporter
// immediately, and optionally persisted for later inspection via the
// history command. It is never mutated after creation.
type Incident struct {
	// ID is the database row identifier. Zero until the incident is saved.
	ID int64 `json:"id,omitempty"`

	// DetectedAt is the time the loop was detected.
	DetectedAt time.Time `json:"detectedAt"`

	// RequestURL is the canonical absolute URL of the in-flight request,
	// as reconstructed by the current-URL resolver.
	RequestURL string `json:"requestUrl"`

	// Target is the redirect target that matched the request URL.
	// It is stored exactly as the application supplied it, before
	// trailing-slash normalization.
	Target string `json:"target"`

	// Host is the HTTP host the request was addressed to.
	Host string `json:"host"`

	// SourceFile is the file of the call site that issued the redirect,
	// relative to a known root prefix when path normalization applies.
	// Empty when the stack analysis could not locate the initiator.
	SourceFile string `json:"sourceFile,omitempty"`

	// SourceLine is the line of the call site that issued the redirect.
	// Zero when the initiator is unknown.
	SourceLine int `json:"sourceLine,omitempty"`

	// Debug records whether the guard was running in debug mode when the
	// loop was detected. Debug-mode incidents aborted the request.
	Debug bool `json:"debug"`
}

// NewIncident creates an Incident for a detected loop.
// The source location is unset; callers that identified the initiator
// should attach it with SetSource.
func NewIncident(requestURL, target, host string) *Incident {
	return &Incident{
		DetectedAt: time.Now(),
		RequestURL: requestURL,
		Target:     target,
		Host:       host,
	}
}

// SetSource records the call site that issued the offending redirect.
func (i *Incident) SetSource(file string, line int) {
	i.SourceFile = file
	i.SourceLine = line
}

// HasSource reports whether the initiator of the loop was identified.
func (i *Incident) HasSource() bool {
	return i.SourceFile != ""
}

// SourceRef returns the initiator as "file:line", or an empty string when
// the initiator is unknown.
func (i *Incident) SourceRef() string {
	if !i.HasSource() {
		return ""
	}
	return i.SourceFile + ":" + strconv.Itoa(i.SourceLine)
}
