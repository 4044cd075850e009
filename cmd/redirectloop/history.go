package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/BeAPI/redirect-loop/internal/config"
	"github.com/BeAPI/redirect-loop/internal/database"
	"github.com/BeAPI/redirect-loop/internal/model"
	"github.com/BeAPI/redirect-loop/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded redirect loop incidents",
		Long: `History lists redirect loop incidents recorded by the serve command,
newest first, with the file and line of the call site where the stack
analysis identified one.

Examples:
  # Show the most recent incidents
  redirectloop history

  # Show incidents for a single host
  redirectloop history --host shop.example.com

  # Output JSON for tool integration
  redirectloop history --json

  # Write a Markdown report to a file
  redirectloop history --markdown -o incidents.md`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Selection flags
	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Maximum number of incidents to list")
	cmd.Flags().String("host", "",
		"Restrict the report to incidents for one host")
	cmd.Flags().String("db-dir", "",
		"Directory of the incident database (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildHistoryConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Missing database means nothing was ever recorded; creating one here
	// would just mask a wrong --db-dir.
	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		return fmt.Errorf("no incident history available: %w", err)
	}
	defer db.Close()

	incidents, err := db.LatestIncidents(cmd.Context(), cfg.HostFilter, cfg.HistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to load incidents: %w", err)
	}

	return writeHistoryReport(cfg, model.NewHistoryReport(incidents))
}

// buildHistoryConfig creates a Config from the history command's flags.
func buildHistoryConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if cfg.HistoryLimit, err = cmd.Flags().GetInt("limit"); err != nil {
		return nil, err
	}
	if cfg.HostFilter, err = cmd.Flags().GetString("host"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return nil, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	return cfg, nil
}

// writeHistoryReport renders the report in the configured format, to stdout
// or to the configured file.
func writeHistoryReport(cfg *config.Config, rep *model.HistoryReport) error {
	out := io.Writer(os.Stdout)

	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.Create(cfg.ReportFile) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := newReportWriter(cfg, out)
	if _, err := w.Write(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.ReportFile != "" {
		fmt.Printf("Report written to %s\n", cfg.ReportFile)
	}
	return nil
}

// newReportWriter selects the writer for the configured output format.
func newReportWriter(cfg *config.Config, out io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}
}
