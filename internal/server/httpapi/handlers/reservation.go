package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/jaehyuklim/lunchpilot/internal/logging"
	"github.com/jaehyuklim/lunchpilot/internal/server/httpapi/response"
	"github.com/jaehyuklim/lunchpilot/internal/server/models"
)

type ReservationHandler struct {
	service  ReservationService
	validate *validator.Validate
	logger   logging.Logger
}

func NewReservationHandler(service ReservationService, logger logging.Logger) *ReservationHandler {
	return &ReservationHandler{service: service, validate: validator.New(), logger: logger}
}

type checkReservationRequest struct {
	UserID     string `json:"userId" validate:"required"`
	TargetDate string `json:"targetDate" validate:"required"`
}

type checkReservationResponse struct {
	HasReservation bool                 `json:"hasReservation"`
	Reservations   []models.Reservation `json:"reservations"`
}

// CheckReservation handles POST /check-reservation.
func (h *ReservationHandler) CheckReservation(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("op", "reservation.check", "request_id", middleware.GetReqID(r.Context()))

	var req checkReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	if _, err := time.Parse("2006-01-02", req.TargetDate); err != nil {
		badRequest(w, r, "targetDate must be a YYYY-MM-DD date")
		return
	}

	reservations, err := h.service.CheckReservation(r.Context(), req.UserID, req.TargetDate)
	if err != nil {
		log.Warn(r.Context(), "reservation check failed", "user", req.UserID, "error", err.Error())
		writeError(w, r, err)
		return
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	render.JSON(w, r, checkReservationResponse{
		HasReservation: len(reservations) > 0,
		Reservations:   reservations,
	})
}

type cancelReservationRequest struct {
	UserID     string `json:"userId" validate:"required"`
	TargetDate string `json:"targetDate" validate:"required"`
}

type cancelReservationResponse struct {
	Cancelled []models.Reservation `json:"cancelled"`
}

// Cancel handles POST /reservation/cancel.
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("op", "reservation.cancel", "request_id", middleware.GetReqID(r.Context()))

	var req cancelReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	if _, err := time.Parse("2006-01-02", req.TargetDate); err != nil {
		badRequest(w, r, "targetDate must be a YYYY-MM-DD date")
		return
	}

	cancelled, err := h.service.Cancel(r.Context(), req.UserID, req.TargetDate)
	if err != nil {
		log.Warn(r.Context(), "reservation cancel failed", "user", req.UserID, "error", err.Error())
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, cancelReservationResponse{Cancelled: cancelled})
}

type makeImmediateRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type attemptResponse struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
	TargetDate     string   `json:"targetDate"`
	AttemptedMenus []string `json:"attemptedMenus"`
}

// MakeImmediate handles POST /reservation/make-immediate. A failed attempt
// is still a 200; success=false carries the business outcome.
func (h *ReservationHandler) MakeImmediate(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("op", "reservation.make-immediate", "request_id", middleware.GetReqID(r.Context()))

	var req makeImmediateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	attempt, err := h.service.Run(r.Context(), req.UserID, nil)
	if err != nil {
		log.Error(r.Context(), "immediate reservation failed", "user", req.UserID, "error", err.Error())
		writeError(w, r, err)
		return
	}

	menus := attempt.AttemptedMenus
	if menus == nil {
		menus = []string{}
	}
	render.JSON(w, r, attemptResponse{
		Success:        attempt.Success,
		Message:        attempt.Message,
		TargetDate:     attempt.TargetDate.Format("2006-01-02"),
		AttemptedMenus: menus,
	})
}
