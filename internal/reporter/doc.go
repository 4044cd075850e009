// Package reporter renders detected redirect loops to whoever needs to see
// them.
//
// Two implementations of one capability keep presentation out of the
// detector: DebugReporter aborts the request with a human-readable
// diagnostic document, for development; LogReporter emits one structured
// log record and lets the request continue, for production.
package reporter
