package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/BeAPI/redirect-loop/internal/model"
)

// dbFileName is the SQLite file created inside the store directory.
const dbFileName = "redirectloop.db"

// IncidentDB stores redirect-loop incidents in SQLite.
type IncidentDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures IncidentDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended: incident writes
	// happen on the request path and WAL keeps them from blocking readers.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an IncidentDB in the specified directory.
// With CreateIfNotExists false, a missing database is an error; this is
// what the history command uses so that a typo'd directory doesn't silently
// produce an empty history.
func Open(dbDir string, opts Options) (*IncidentDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("incident database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single pooled connection avoids
	// SQLITE_BUSY churn under concurrent request-path inserts.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	idb := &IncidentDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := idb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return idb, nil
}

// Close closes the database connection.
func (idb *IncidentDB) Close() error {
	return idb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (idb *IncidentDB) createTables() error {
	schema := `
	-- Incidents store one row per detected redirect loop
	CREATE TABLE IF NOT EXISTS incidents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		detected_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		request_url TEXT NOT NULL,
		target TEXT NOT NULL,
		host TEXT NOT NULL,
		source_file TEXT,
		source_line INTEGER DEFAULT 0,
		debug INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_incidents_host ON incidents(host);
	CREATE INDEX IF NOT EXISTS idx_incidents_detected ON incidents(detected_at);
	`

	_, err := idb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveIncident inserts a detected incident and records the assigned row ID
// on the incident.
func (idb *IncidentDB) SaveIncident(ctx context.Context, incident *model.Incident) error {
	query := `
	INSERT INTO incidents (detected_at, request_url, target, host, source_file, source_line, debug)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := idb.db.ExecContext(ctx, query,
		incident.DetectedAt.UTC().Format(time.RFC3339Nano),
		incident.RequestURL,
		incident.Target,
		incident.Host,
		incident.SourceFile,
		incident.SourceLine,
		boolToInt(incident.Debug),
	)
	if err != nil {
		return fmt.Errorf("failed to insert incident: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read incident id: %w", err)
	}
	incident.ID = id
	return nil
}

// LatestIncidents returns up to limit incidents, newest first, optionally
// restricted to one host. An empty host means all hosts.
func (idb *IncidentDB) LatestIncidents(ctx context.Context, host string, limit int) ([]model.Incident, error) {
	query := `
	SELECT id, detected_at, request_url, target, host, source_file, source_line, debug
	FROM incidents
	`
	args := make([]any, 0, 2)

	if host != "" {
		query += " WHERE host = ?"
		args = append(args, host)
	}
	query += " ORDER BY detected_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := idb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query incidents: %w", err)
	}
	defer rows.Close()

	var results []model.Incident
	for rows.Next() {
		var inc model.Incident
		var detectedAt string
		var debug int

		if err := rows.Scan(
			&inc.ID,
			&detectedAt,
			&inc.RequestURL,
			&inc.Target,
			&inc.Host,
			&inc.SourceFile,
			&inc.SourceLine,
			&debug,
		); err != nil {
			return nil, fmt.Errorf("failed to scan incident: %w", err)
		}

		inc.DetectedAt = parseTimestamp(detectedAt)
		inc.Debug = debug != 0
		results = append(results, inc)
	}

	return results, rows.Err()
}

// CountIncidents returns the total number of stored incidents.
func (idb *IncidentDB) CountIncidents(ctx context.Context) (int64, error) {
	var count int64
	err := idb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM incidents").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count incidents: %w", err)
	}
	return count, nil
}

// boolToInt maps a bool onto SQLite's integer booleans.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseTimestamp parses the timestamp formats SQLite hands back depending
// on how the value was written (our RFC 3339 inserts versus
// CURRENT_TIMESTAMP defaults). Unparseable input yields the zero time
// rather than an error; a missing timestamp should not hide the incident.
func parseTimestamp(s string) time.Time {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
