package config

// HostConfig holds per-virtual-host overrides for the guard.
type HostConfig struct {
	// AllowedHosts are additional hosts SafeRedirect accepts for requests
	// addressed to this virtual host.
	AllowedHosts []string `yaml:"allowedHosts,omitempty"`
}

// File represents the structure of the .redirectloop configuration file.
type File struct {
	// Listen is the demo server's listen address.
	Listen string `yaml:"listen,omitempty"`

	// Debug switches the reporter to render-and-terminate mode.
	Debug bool `yaml:"debug,omitempty"`

	// UseForwardedHost trusts X-Forwarded-Host during URL reconstruction.
	// Defaults to true when omitted; set to false behind untrusted proxies.
	UseForwardedHost *bool `yaml:"useForwardedHost,omitempty"`

	// FallbackURL is the SafeRedirect fallback target.
	FallbackURL string `yaml:"fallbackURL,omitempty"`

	// AllowedHosts are hosts SafeRedirect accepts for every virtual host.
	AllowedHosts []string `yaml:"allowedHosts,omitempty"`

	// DBDir is the incident store directory. Empty means the XDG default.
	DBDir string `yaml:"dbDir,omitempty"`

	// Hosts maps virtual-host names to their overrides.
	Hosts map[string]HostConfig `yaml:"hosts,omitempty"`

	// Defaults contains overrides applied to all virtual hosts unless a
	// host-specific entry replaces them.
	Defaults HostConfig `yaml:"defaults,omitempty"`
}

// GetHostConfig returns the configuration for a virtual host, merging the
// host-specific entry over the defaults.
func (cf *File) GetHostConfig(host string) HostConfig {
	result := cf.Defaults
	if hc, ok := cf.Hosts[host]; ok {
		if len(hc.AllowedHosts) > 0 {
			result.AllowedHosts = hc.AllowedHosts
		}
	}
	return result
}

// Apply copies the file's settings onto cfg. Flag handling in the cmd
// layer runs after Apply, so explicit flags win over file values.
func (cf *File) Apply(cfg *Config) {
	if cf.Listen != "" {
		cfg.ListenAddr = cf.Listen
	}
	if cf.Debug {
		cfg.Debug = true
	}
	if cf.UseForwardedHost != nil {
		cfg.UseForwardedHost = *cf.UseForwardedHost
	}
	if cf.FallbackURL != "" {
		cfg.FallbackURL = cf.FallbackURL
	}
	if len(cf.AllowedHosts) > 0 {
		cfg.AllowedHosts = cf.AllowedHosts
	}
	if cf.DBDir != "" {
		cfg.DBDir = cf.DBDir
		cfg.SaveToDB = true
	}
	cfg.HostConfigs = cf
}
