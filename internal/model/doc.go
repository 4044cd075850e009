// Package model defines the core data structures shared across the
// redirect-loop guard: detected loop incidents and the aggregate history
// report built from them.
//
// Design decision: Data structures are kept separate from the packages that
// produce them (detector) and consume them (report, database) so that output
// formats and storage backends can evolve without touching detection logic.
package model
