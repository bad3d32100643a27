// Package models contains the server-side domain types persisted by the
// repositories.
package models

import (
	"strings"
	"time"
)

// User is a registered account: contact address, encrypted cafeteria
// credentials and the reservation preferences the scheduler runs with.
type User struct {
	UserID                 string
	Email                  string
	CafeteriaUserID        string
	CafeteriaPasswordEnc   []byte
	CafeteriaPasswordNonce []byte
	Salt                   []byte
	MenuSeq                string
	FloorNm                string
	AutoReservationEnabled bool
	ExclusionDates         []string
	CreatedAt              time.Time
}

// MenuSequence splits the stored comma-joined preference codes,
// dropping empty entries.
func (u *User) MenuSequence() []string {
	var out []string
	for _, code := range strings.Split(u.MenuSeq, ",") {
		if code = strings.TrimSpace(code); code != "" {
			out = append(out, code)
		}
	}
	return out
}

// IsExcluded reports whether the given local date (YYYY-MM-DD) is on the
// user's exclusion list.
func (u *User) IsExcluded(date string) bool {
	for _, d := range u.ExclusionDates {
		if d == date {
			return true
		}
	}
	return false
}
