// Package handlers implements the HTTP endpoints of the reservation
// backend. Each handler decodes and validates its request, delegates to a
// service and renders a JSON body.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/jaehyuklim/lunchpilot/internal/common"
	"github.com/jaehyuklim/lunchpilot/internal/server/httpapi/response"
	"github.com/jaehyuklim/lunchpilot/internal/server/models"
	"github.com/jaehyuklim/lunchpilot/internal/server/services"
)

// AuthService is the slice of the auth service the handlers call.
type AuthService interface {
	CheckDevice(ctx context.Context, fingerprint string) (*services.DeviceCheck, error)
	SendCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code, fingerprint string) (*services.VerifyResult, error)
	Logout(ctx context.Context, userID, fingerprint string) (bool, error)
}

// UserService is the slice of the user service the handlers call.
type UserService interface {
	RegistrationStatus(ctx context.Context) (*services.RegistrationStatus, error)
	Register(ctx context.Context, params services.RegisterParams) (*models.User, string, error)
	GetSettings(ctx context.Context, userID string) (*services.Settings, error)
	UpdateSettings(ctx context.Context, userID string, update services.SettingsUpdate) error
	ReplaceExclusionDates(ctx context.Context, userID string, dates []string) error
	SetAutoReservation(ctx context.Context, userID string, enabled bool) error
	DeleteAccount(ctx context.Context, userID string) error
}

// ReservationService is the slice of the reservation service the handlers
// call.
type ReservationService interface {
	Run(ctx context.Context, userID string, serviceDate *time.Time) (*models.ReservationAttempt, error)
	CheckReservation(ctx context.Context, userID string, targetDate string) ([]models.Reservation, error)
	Cancel(ctx context.Context, userID string, targetDate string) ([]models.Reservation, error)
}

// writeError maps service errors to HTTP statuses. The message body is
// what the client shows the user, so known errors keep their text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrCodeExpired),
		errors.Is(err, common.ErrCodeMismatch):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Err(err.Error()))
	case errors.Is(err, common.ErrorNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Err("not found"))
	case errors.Is(err, common.ErrUserExists),
		errors.Is(err, common.ErrRegistrationFull):
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Err(err.Error()))
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Err("unauthorized"))
	default:
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Err("internal server error"))
	}
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	w.WriteHeader(http.StatusBadRequest)
	render.JSON(w, r, response.Err(msg))
}
