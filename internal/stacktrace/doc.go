// Package stacktrace captures and interprets call stacks to locate the
// application call site that issued an offending redirect.
//
// Frames use a call-record convention: each frame names the function that
// was called and the file and line of the call site that invoked it, with
// the most recent call first. This is the natural shape for asking "who
// called the redirect entry point", which is what the analyzer does.
//
// The analyzer does not hardcode the host framework's internals. It asks a
// Probe whether a frame is the redirect-dispatch boundary or the plain
// redirect entry point, so the matching rule is swappable and testable with
// synthetic stacks.
package stacktrace
