// Package main provides the entry point for the redirectloop CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for redirectloop.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redirectloop",
		Short: "Detect and diagnose HTTP redirect loops",
		Long: `redirectloop guards an HTTP server against redirect loops: redirects whose
target is the URL of the request that issued them.

Every outgoing redirect passes through a filter chain. When the final target
matches the current request URL, the call stack is analyzed to identify the
file and line that issued the redirect, and the incident is logged and
recorded. In debug mode the request is terminated with a diagnostic page
instead of emitting the looping redirect.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
