package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestLoadConfigFile verifies YAML configuration loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads a full configuration file", func(t *testing.T) {
		t.Parallel()

		content := `listen: ":9090"
debug: true
useForwardedHost: false
fallbackURL: "/home"
allowedHosts:
  - cdn.example.com
dbDir: /var/lib/redirectloop
hosts:
  shop.example.com:
    allowedHosts:
      - pay.example.com
defaults:
  allowedHosts:
    - static.example.com
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cf.Listen != ":9090" {
			t.Errorf("got Listen %q, expected %q", cf.Listen, ":9090")
		}
		if !cf.Debug {
			t.Error("expected Debug to be true")
		}
		if cf.UseForwardedHost == nil || *cf.UseForwardedHost {
			t.Error("expected UseForwardedHost to be explicitly false")
		}
		if cf.FallbackURL != "/home" {
			t.Errorf("got FallbackURL %q, expected %q", cf.FallbackURL, "/home")
		}
		if len(cf.AllowedHosts) != 1 || cf.AllowedHosts[0] != "cdn.example.com" {
			t.Errorf("got AllowedHosts %v, expected [cdn.example.com]", cf.AllowedHosts)
		}
		if cf.DBDir != "/var/lib/redirectloop" {
			t.Errorf("got DBDir %q, expected %q", cf.DBDir, "/var/lib/redirectloop")
		}

		hc := cf.GetHostConfig("shop.example.com")
		if len(hc.AllowedHosts) != 1 || hc.AllowedHosts[0] != "pay.example.com" {
			t.Errorf("got host config %v, expected [pay.example.com]", hc.AllowedHosts)
		}

		def := cf.GetHostConfig("other.example.com")
		if len(def.AllowedHosts) != 1 || def.AllowedHosts[0] != "static.example.com" {
			t.Errorf("got defaults %v, expected [static.example.com]", def.AllowedHosts)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid YAML returns an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("listen: [unclosed"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected an error for invalid YAML")
		}
	})

	t.Run("empty file yields usable zero values", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Hosts == nil {
			t.Error("expected Hosts to be initialized")
		}
	})
}

// TestFileApply verifies that file values are copied onto the config.
func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("set fields override defaults", func(t *testing.T) {
		t.Parallel()

		useForwarded := false
		cf := &File{
			Listen:           ":9090",
			Debug:            true,
			UseForwardedHost: &useForwarded,
			FallbackURL:      "/home",
			AllowedHosts:     []string{"cdn.example.com"},
			DBDir:            "/var/lib/redirectloop",
		}

		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.ListenAddr != ":9090" {
			t.Errorf("got ListenAddr %q, expected %q", cfg.ListenAddr, ":9090")
		}
		if !cfg.Debug {
			t.Error("expected Debug to be true")
		}
		if cfg.UseForwardedHost {
			t.Error("expected UseForwardedHost to be false")
		}
		if cfg.FallbackURL != "/home" {
			t.Errorf("got FallbackURL %q, expected %q", cfg.FallbackURL, "/home")
		}
		if cfg.DBDir != "/var/lib/redirectloop" {
			t.Errorf("got DBDir %q, expected %q", cfg.DBDir, "/var/lib/redirectloop")
		}
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to follow DBDir")
		}
		if cfg.HostConfigs != cf {
			t.Error("expected HostConfigs to reference the applied file")
		}
	})

	t.Run("unset fields keep defaults", func(t *testing.T) {
		t.Parallel()

		cf := &File{}
		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.ListenAddr != DefaultListenAddr {
			t.Errorf("got ListenAddr %q, expected the default %q", cfg.ListenAddr, DefaultListenAddr)
		}
		if cfg.FallbackURL != DefaultFallbackURL {
			t.Errorf("got FallbackURL %q, expected the default %q", cfg.FallbackURL, DefaultFallbackURL)
		}
		if !cfg.UseForwardedHost {
			t.Error("expected UseForwardedHost to keep its default")
		}
		if cfg.SaveToDB {
			t.Error("expected SaveToDB to stay false without a DBDir")
		}
	})
}

// TestFindConfigFile verifies the configuration file search order.
func TestFindConfigFile(t *testing.T) {
	// Not parallel: the explicit-path branch is exercised with files created
	// in per-test temp dirs, and the search branch depends on process state.

	t.Run("explicit existing path is returned", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("debug: true"), 0600); err != nil {
			t.Fatal(err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("got %q, expected %q", got, path)
		}
	})

	t.Run("explicit missing path yields empty", func(t *testing.T) {
		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope")); got != "" {
			t.Errorf("got %q, expected empty", got)
		}
	})
}
