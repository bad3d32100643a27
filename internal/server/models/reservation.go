package models

import "time"

// Reservation is an externally-sourced record from the cafeteria site.
// The server never stores these; they are fetched per request.
type Reservation struct {
	DispNm  string `json:"dispNm"`
	PrvdDt  string `json:"prvdDt"` // 8-digit date, YYYYMMDD
	ConerNm string `json:"conerNm"`
}

// ReservationAttempt is the outcome of one reservation run for one user.
type ReservationAttempt struct {
	Success        bool
	Message        string
	TargetDate     time.Time
	AttemptedMenus []string
}
