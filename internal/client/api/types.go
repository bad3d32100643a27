package api

// DeviceCheckResult is the body of POST /auth/check-device.
type DeviceCheckResult struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId"`
	Email         string `json:"email"`
	SessionToken  string `json:"sessionToken"`
}

// VerifyCodeResult is the body of POST /auth/verify-code.
type VerifyCodeResult struct {
	HasAccount   bool   `json:"hasAccount"`
	UserID       string `json:"userId"`
	SessionToken string `json:"sessionToken"`
}

// RegistrationStatus is the body of GET /registration-status.
type RegistrationStatus struct {
	Count  int  `json:"count"`
	Limit  int  `json:"limit"`
	IsFull bool `json:"isFull"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	UserID            string `json:"userId"`
	Password          string `json:"password"`
	MenuSeq           string `json:"menuSeq"`
	FloorNm           string `json:"floorNm"`
	Email             string `json:"email"`
	DeviceFingerprint string `json:"deviceFingerprint"`
}

// RegisterResult is the body of a successful POST /register.
type RegisterResult struct {
	UserID       string `json:"userId"`
	SessionToken string `json:"sessionToken"`
}

// Reservation is one active cafeteria reservation.
type Reservation struct {
	DispNm  string `json:"dispNm"`
	PrvdDt  string `json:"prvdDt"`
	ConerNm string `json:"conerNm"`
}

// CheckReservationResult is the body of POST /check-reservation.
type CheckReservationResult struct {
	HasReservation bool          `json:"hasReservation"`
	Reservations   []Reservation `json:"reservations"`
}

// CancelReservationResult is the body of POST /reservation/cancel.
type CancelReservationResult struct {
	Cancelled []Reservation `json:"cancelled"`
}

// Attempt is the body of POST /reservation/make-immediate. Success false
// with a 200 status is a business failure, not a transport error.
type Attempt struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
	TargetDate     string   `json:"targetDate"`
	AttemptedMenus []string `json:"attemptedMenus"`
}

// Settings is the body of GET /user/settings.
type Settings struct {
	UserID                 string   `json:"userId"`
	MenuSeq                []string `json:"menuSeq"`
	FloorNm                string   `json:"floorNm"`
	ExclusionDates         []string `json:"exclusionDates"`
	AutoReservationEnabled bool     `json:"autoReservationEnabled"`
}

// SettingsUpdate is the body of POST /user/settings. Blank fields are left
// unchanged by the server.
type SettingsUpdate struct {
	UserID      string `json:"userId"`
	MenuSeq     string `json:"menuSeq,omitempty"`
	FloorNm     string `json:"floorNm,omitempty"`
	CafeteriaID string `json:"cafeteriaId,omitempty"`
	CafeteriaPw string `json:"cafeteriaPw,omitempty"`
}

type checkDeviceRequest struct {
	DeviceFingerprint string `json:"deviceFingerprint"`
}

type sendCodeRequest struct {
	Email string `json:"email"`
}

type verifyCodeRequest struct {
	Email             string `json:"email"`
	Code              string `json:"code"`
	DeviceFingerprint string `json:"deviceFingerprint"`
}

type logoutRequest struct {
	UserID            string `json:"userId"`
	DeviceFingerprint string `json:"deviceFingerprint"`
}

type logoutResult struct {
	DeviceRemoved bool `json:"deviceRemoved"`
}

type checkReservationRequest struct {
	UserID     string `json:"userId"`
	TargetDate string `json:"targetDate"`
}

type cancelReservationRequest struct {
	UserID     string `json:"userId"`
	TargetDate string `json:"targetDate"`
}

type toggleAutoRequest struct {
	UserID  string `json:"userId"`
	Enabled bool   `json:"enabled"`
}

type makeImmediateRequest struct {
	UserID string `json:"userId"`
}

type exclusionDatesRequest struct {
	UserID         string   `json:"userId"`
	ExclusionDates []string `json:"exclusionDates"`
}

type deleteAccountRequest struct {
	UserID  string `json:"userId"`
	Confirm bool   `json:"confirm"`
}
