// Package guard assembles the redirect-loop detection pipeline: current-URL
// resolution, the hook registry, stack analysis, reporting, and optional
// persistence, wired together behind a single constructor.
//
// Design decision: The guard is the explicit owner of the hook registry and
// performs the detector's one-time filter registration during construction.
// Applications hold a *Guard, mount its Middleware, and emit redirects
// through its registry; there is no hidden global instance.
package guard
