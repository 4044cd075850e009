// Package database provides SQLite-backed persistence for detected
// redirect-loop incidents.
//
// Incidents are written from the request path, so the store keeps writes
// cheap (one insert, WAL journaling) and pushes all aggregation to the
// history queries. The driver is modernc.org/sqlite, a pure-Go SQLite,
// keeping the binary cgo-free.
package database
