package config

import (
	"flag"
	"os"
	"time"

	"github.com/jaehyuklim/lunchpilot/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   session token HMAC secret key
//	-m string   master password for credential encryption
//	-t int      session token validity, hours
//	-n int      registration cap (max users)
//	-u string   cafeteria site base URL
//	-k string   holiday API key
//	-e string   SES sender email (empty disables mail)
//	-z string   IANA timezone for scheduling
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-m", "-t", "-n", "-u", "-k", "-e", "-z"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.MasterPassword, "m", config.MasterPassword, "master password")

	sessionTokenValidity := fs.Int("t", int(config.SessionTokenValidityDuration.Hours()), "session_token_validity_duration (in hours)")

	fs.IntVar(&config.MaxUsers, "n", config.MaxUsers, "registration cap")
	fs.StringVar(&config.CafeteriaBaseURL, "u", config.CafeteriaBaseURL, "cafeteria base URL")
	fs.StringVar(&config.HolidayAPIKey, "k", config.HolidayAPIKey, "holiday API key")
	fs.StringVar(&config.SESSenderEmail, "e", config.SESSenderEmail, "SES sender email")
	fs.StringVar(&config.Timezone, "z", config.Timezone, "IANA timezone")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTokenValidityDuration = time.Duration(*sessionTokenValidity) * time.Hour
}
