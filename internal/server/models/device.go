package models

import "time"

// Device links a browser/device fingerprint to an account so a returning
// device can skip the emailed-code flow.
type Device struct {
	ID           string
	UserID       string
	Fingerprint  string
	RegisteredAt time.Time
	LastAccessAt time.Time
}
