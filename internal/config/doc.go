// Package config holds runtime configuration for the redirect-loop guard
// and its CLI.
//
// Configuration flows from three sources, later ones winning: built-in
// defaults, the optional .redirectloop YAML file (searched in the current
// directory and then the home directory), and command-line flags. The
// Config struct is populated once at startup and passed through the
// application by dependency injection; nothing reads configuration from
// global state.
package config
