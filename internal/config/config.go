package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultListenAddr is the demo server's listen address. Loopback-free
	// ":8080" keeps the server reachable from containers and proxies that
	// sit in front of it during testing.
	DefaultListenAddr = ":8080"

	// DefaultFallbackURL is where SafeRedirect sends clients when a
	// proposed target fails host validation. "/" keeps the user on the
	// current site, mirroring the safe-redirect convention of the host
	// frameworks this guard is modeled on.
	DefaultFallbackURL = "/"

	// DefaultHistoryLimit caps how many incidents the history command
	// lists by default. Fifty rows fit a terminal while covering enough
	// history to spot a recurring loop.
	DefaultHistoryLimit = 50

	// AppName is the application name used for XDG directory paths.
	AppName = "redirectloop"
)

// Config holds all configuration options for the redirect-loop guard and
// its CLI.
//
// Design decision: A single flat struct instead of nested sub-configs. The
// option count is small, and a flat struct keeps flag plumbing in the cmd
// layer one assignment per option.
type Config struct {
	// ListenAddr is the demo server's listen address in "host:port" form.
	ListenAddr string

	// Debug switches the reporter from "log and continue" to "render a
	// diagnostic page and terminate the request". Never enable in
	// production: a detected loop aborts the request.
	Debug bool

	// UseForwardedHost lets a proxy-supplied X-Forwarded-Host header
	// override the observed host when reconstructing the current URL.
	// Enable only when a trusted proxy terminates client connections.
	UseForwardedHost bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// FallbackURL is the target SafeRedirect substitutes for redirect
	// targets that fail host validation.
	FallbackURL string

	// AllowedHosts lists hosts SafeRedirect accepts in addition to the
	// request's own host, for every virtual host.
	AllowedHosts []string

	// DBDir is the directory holding the SQLite incident store.
	// When empty, incidents are not persisted.
	DBDir string

	// SaveToDB indicates whether detected loops are saved to the store.
	// Set automatically when DBDir is configured.
	SaveToDB bool

	// ConfigFilePath is the explicit path to the configuration file. If
	// empty, .redirectloop is searched in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// HostConfigs holds per-virtual-host overrides loaded from the
	// configuration file.
	HostConfigs *File

	// JSONReport selects JSON output for the history command.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output for the history command.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for history reports. When empty,
	// reports go to stdout.
	ReportFile string

	// HistoryLimit is the maximum number of incidents the history command
	// lists.
	HistoryLimit int

	// HostFilter restricts the history command to incidents for one host.
	HostFilter string
}

// NewConfig creates a Config with default values.
//
// Design decision: A constructor rather than zero values, because several
// defaults are non-zero and the constructor doubles as documentation of
// what they are.
func NewConfig() *Config {
	return &Config{
		ListenAddr:       DefaultListenAddr,
		FallbackURL:      DefaultFallbackURL,
		HistoryLimit:     DefaultHistoryLimit,
		UseForwardedHost: true,
	}
}

// XDGDataDir returns the XDG data directory for the incident store.
// On Linux: ~/.local/share/redirectloop
// On macOS: ~/Library/Application Support/redirectloop
// On Windows: %LOCALAPPDATA%\redirectloop
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid, returning the first
// problem found. Called once after flag parsing, before anything starts.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return ErrEmptyListenAddr
	}
	if c.FallbackURL == "" {
		return ErrEmptyFallbackURL
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.HistoryLimit <= 0 {
		return ErrInvalidHistoryLimit
	}
	return nil
}

// AllowedHostsFor returns the hosts SafeRedirect accepts for requests
// addressed to the given virtual host: the global allow-list plus any
// per-host additions from the configuration file.
func (c *Config) AllowedHostsFor(host string) []string {
	hosts := append([]string(nil), c.AllowedHosts...)
	if c.HostConfigs != nil {
		hosts = append(hosts, c.HostConfigs.GetHostConfig(host).AllowedHosts...)
	}
	return hosts
}
