// Package common defines shared constants and sentinel errors used across
// client and server layers of lunchpilot. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrCodeExpired         = errors.New("verification code expired")
	ErrCodeMismatch        = errors.New("invalid verification code")
	ErrDeviceNotRegistered = errors.New("device not registered")

	// Registration errors.
	ErrRegistrationFull = errors.New("registration is full")
	ErrUserExists       = errors.New("user already exists")

	// Validation errors.
	ErrorValidation = errors.New("validation error")
)
