// Package config handles configuration for the CLI client, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// PlaceholderBaseURL marks an unconfigured backend address. API calls fail
// with a configuration hint until a real URL is set.
const PlaceholderBaseURL = "YOUR_API_SERVER_URL"

// Config holds runtime settings for the lunchpilot CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the reservation backend.
//   - RequestTimeout: per-call HTTP timeout.
//   - DatabasePath: path of the local sqlite session store.
//   - FingerprintWait: how long to wait for the device fingerprint before
//     falling back to the sign-in flow.
type Config struct {
	ServerBaseURL   string
	RequestTimeout  time.Duration
	DatabasePath    string
	FingerprintWait time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = PlaceholderBaseURL
	c.RequestTimeout = 10 * time.Second
	c.DatabasePath = "lunchpilot.db"
	c.FingerprintWait = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
