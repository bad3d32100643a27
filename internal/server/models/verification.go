package models

import "time"

// VerificationCode is a pending emailed one-time code. One active code per
// address; a fresh send replaces the previous one.
type VerificationCode struct {
	Email     string
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the code is past its TTL at the given instant.
func (v *VerificationCode) Expired(now time.Time) bool {
	return v.ExpiresAt.Before(now)
}
