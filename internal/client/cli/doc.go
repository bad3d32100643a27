// Package cli provides the interactive LunchPilot command-line client.
//
// It wires configuration, the local session store, the API client, and a
// screen-based loop mirroring the sign-in flow: resolve the device
// fingerprint, check whether this device is already linked to an account,
// and either resume straight to the dashboard or walk the user through
// email verification and first-time setup.
//
// Screens:
//   - email:     request a one-time code
//   - verify:    enter the emailed 6-digit code
//   - setup:     first-time registration (cafeteria credentials, menu
//     preference order, delivery floor)
//   - dashboard: reservations, immediate runs, settings, exclusion dates
//
// The loop is started via App.Run(ctx), which blocks until the user exits.
package cli
