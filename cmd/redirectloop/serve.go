package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/BeAPI/redirect-loop/internal/config"
	"github.com/BeAPI/redirect-loop/internal/database"
	"github.com/BeAPI/redirect-loop/internal/guard"
	"github.com/BeAPI/redirect-loop/internal/log"
	"github.com/BeAPI/redirect-loop/internal/request"
)

// shutdownTimeout bounds graceful shutdown once a signal arrives.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a demo server guarded against redirect loops",
		Long: `Serve starts an HTTP server whose redirects flow through the loop guard.

The server exposes a few endpoints that demonstrate the guard:
  /            index page listing the endpoints
  /loop        issues a redirect back to its own URL (a loop)
  /safe-loop   issues the same loop through the host-validated wrapper
  /go?to=URL   issues a host-validated redirect to the given target
  /away        attempts an off-site redirect, replaced by the fallback

In the default mode a detected loop is logged with the file and line of the
call site that issued it, and the redirect still goes out. With --debug the
request is terminated with a diagnostic page instead.

Examples:
  # Run with loop logging
  redirectloop serve

  # Terminate looping requests with a diagnostic page
  redirectloop serve --debug

  # Run without persisting incidents
  redirectloop serve --no-db

  # Use a custom configuration file
  redirectloop serve -c myconfig.yaml`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	// Server flags
	cmd.Flags().StringP("listen", "l", config.DefaultListenAddr,
		"Listen address in host:port form")
	cmd.Flags().BoolP("debug", "d", false,
		"Terminate looping requests with a diagnostic page")

	// Detection flags
	cmd.Flags().Bool("forwarded-host", true,
		"Trust X-Forwarded-Host when reconstructing the request URL")
	cmd.Flags().String("fallback-url", config.DefaultFallbackURL,
		"Fallback target for redirects that fail host validation")
	cmd.Flags().StringSlice("allowed-hosts", nil,
		"Additional hosts accepted by host-validated redirects")

	// Persistence flags
	cmd.Flags().String("db-dir", "",
		"Directory for the incident database (default: XDG data directory)")
	cmd.Flags().Bool("no-db", false,
		"Disable incident persistence")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .redirectloop in current or home directory)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runServer(ctx, cfg, logger)
}

// buildServeConfig creates a Config from the config file and command flags.
// File values are applied first; flags the user set explicitly win.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := applyConfigFile(cfg); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("listen") {
		if cfg.ListenAddr, err = cmd.Flags().GetString("listen"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("debug") {
		if cfg.Debug, err = cmd.Flags().GetBool("debug"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("forwarded-host") {
		if cfg.UseForwardedHost, err = cmd.Flags().GetBool("forwarded-host"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("fallback-url") {
		if cfg.FallbackURL, err = cmd.Flags().GetString("fallback-url"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("allowed-hosts") {
		if cfg.AllowedHosts, err = cmd.Flags().GetStringSlice("allowed-hosts"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("db-dir") {
		if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
			return nil, err
		}
	}

	// Incidents are persisted by default so the history command has data to
	// show; --no-db opts out.
	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	if noDB {
		cfg.SaveToDB = false
		cfg.DBDir = ""
	} else {
		cfg.SaveToDB = true
		if cfg.DBDir == "" {
			cfg.DBDir = config.XDGDataDir()
		}
	}

	return cfg, nil
}

// applyConfigFile locates and applies the YAML configuration file.
// An explicitly specified file must exist; a missing default file is fine.
func applyConfigFile(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)

	if path == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	cf, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cf.Apply(cfg)
	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runServer runs the guarded demo server until ctx is cancelled.
func runServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var store *database.IncidentDB
	if cfg.SaveToDB {
		var err error
		store, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open incident database: %w", err)
		}
		defer store.Close()
		logger.Info("incident database opened", "dir", cfg.DBDir)
	}

	g := newGuard(cfg, logger, store)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           g.Middleware(demoMux(g, cfg)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("server starting",
		"addr", cfg.ListenAddr,
		"debug", cfg.Debug,
		"saveToDB", cfg.SaveToDB,
	)
	fmt.Printf("Listening on %s (debug: %t)\n", cfg.ListenAddr, cfg.Debug)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// newGuard builds the guard, tolerating a nil store without handing the
// detector a typed-nil interface value.
func newGuard(cfg *config.Config, logger *slog.Logger, store *database.IncidentDB) *guard.Guard {
	if store == nil {
		return guard.New(cfg, logger, nil)
	}
	return guard.New(cfg, logger, store)
}

// demoMux builds the demonstration endpoints.
func demoMux(g *guard.Guard, cfg *config.Config) *http.ServeMux {
	reg := g.Registry()
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintln(w, "redirectloop demo server")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "  /loop        redirect back to this URL (detected loop)")
		fmt.Fprintln(w, "  /safe-loop   the same loop via the host-validated wrapper")
		fmt.Fprintln(w, "  /go?to=URL   host-validated redirect to the given target")
		fmt.Fprintln(w, "  /away        off-site redirect, replaced by the fallback")
	})

	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		target := request.CurrentURL(request.Snapshot(r), cfg.UseForwardedHost)
		_ = reg.Redirect(w, r, target, http.StatusFound)
	})

	mux.HandleFunc("/safe-loop", func(w http.ResponseWriter, r *http.Request) {
		target := request.CurrentURL(request.Snapshot(r), cfg.UseForwardedHost)
		_ = reg.SafeRedirect(w, r, target, http.StatusFound)
	})

	mux.HandleFunc("/go", func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("to")
		if target == "" {
			http.Error(w, "missing to parameter", http.StatusBadRequest)
			return
		}
		_ = reg.SafeRedirect(w, r, target, http.StatusFound)
	})

	mux.HandleFunc("/away", func(w http.ResponseWriter, r *http.Request) {
		_ = reg.SafeRedirect(w, r, "https://elsewhere.invalid/", http.StatusFound)
	})

	return mux
}
