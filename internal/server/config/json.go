package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/jaehyuklim/lunchpilot/internal/flagx"
	"github.com/jaehyuklim/lunchpilot/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "24h" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	MasterPassword               string         `json:"master_password"`
	SessionTokenValidityDuration timex.Duration `json:"session_token_validity_duration"`
	MaxUsers                     int            `json:"max_users"`
	CafeteriaBaseURL             string         `json:"cafeteria_base_url"`
	HolidayEndpoint              string         `json:"holiday_endpoint"`
	HolidayAPIKey                string         `json:"holiday_api_key"`
	SESSenderEmail               string         `json:"ses_sender_email"`
	SESRegion                    string         `json:"ses_region"`
	ScheduleTime                 string         `json:"schedule_time"`
	Timezone                     string         `json:"timezone"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	// Only overlay fields the JSON actually sets so a partial file keeps
	// the defaults for the rest.
	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.MasterPassword != "" {
		config.MasterPassword = c.MasterPassword
	}
	if c.SessionTokenValidityDuration.Duration != 0 {
		config.SessionTokenValidityDuration = time.Duration(c.SessionTokenValidityDuration.Duration)
	}
	if c.MaxUsers != 0 {
		config.MaxUsers = c.MaxUsers
	}
	if c.CafeteriaBaseURL != "" {
		config.CafeteriaBaseURL = c.CafeteriaBaseURL
	}
	if c.HolidayEndpoint != "" {
		config.HolidayEndpoint = c.HolidayEndpoint
	}
	if c.HolidayAPIKey != "" {
		config.HolidayAPIKey = c.HolidayAPIKey
	}
	if c.SESSenderEmail != "" {
		config.SESSenderEmail = c.SESSenderEmail
	}
	if c.SESRegion != "" {
		config.SESRegion = c.SESRegion
	}
	if c.ScheduleTime != "" {
		config.ScheduleTime = c.ScheduleTime
	}
	if c.Timezone != "" {
		config.Timezone = c.Timezone
	}
}
