package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/jaehyuklim/lunchpilot/internal/flagx"
	"github.com/jaehyuklim/lunchpilot/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "10s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerBaseURL   string         `json:"server_base_url"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	DatabasePath    string         `json:"database_path"`
	FingerprintWait timex.Duration `json:"fingerprint_wait"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c or -config command-line flags; if neither is set,
// no JSON is loaded. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	// A partial JSON file keeps the defaults for the fields it omits.
	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.FingerprintWait.Duration != 0 {
		cfg.FingerprintWait = time.Duration(jc.FingerprintWait.Duration)
	}
}
