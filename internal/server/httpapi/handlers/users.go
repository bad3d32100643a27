package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/jaehyuklim/lunchpilot/internal/logging"
	"github.com/jaehyuklim/lunchpilot/internal/server/httpapi/response"
	"github.com/jaehyuklim/lunchpilot/internal/server/services"
)

type UserHandler struct {
	service  UserService
	validate *validator.Validate
	logger   logging.Logger
}

func NewUserHandler(service UserService, logger logging.Logger) *UserHandler {
	return &UserHandler{service: service, validate: validator.New(), logger: logger}
}

// RegistrationStatus handles GET /registration-status.
func (h *UserHandler) RegistrationStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.RegistrationStatus(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "registration status failed", "error", err.Error())
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, status)
}

type registerRequest struct {
	UserID            string `json:"userId" validate:"required"`
	Password          string `json:"password" validate:"required"`
	MenuSeq           string `json:"menuSeq" validate:"required"`
	FloorNm           string `json:"floorNm" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	DeviceFingerprint string `json:"deviceFingerprint"`
}

type registerResponse struct {
	UserID       string `json:"userId"`
	SessionToken string `json:"sessionToken,omitempty"`
}

// Register handles POST /register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("op", "users.register", "request_id", middleware.GetReqID(r.Context()))

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, token, err := h.service.Register(r.Context(), services.RegisterParams{
		UserID:      req.UserID,
		Password:    req.Password,
		MenuSeq:     req.MenuSeq,
		FloorNm:     req.FloorNm,
		Email:       req.Email,
		Fingerprint: req.DeviceFingerprint,
	})
	if err != nil {
		log.Warn(r.Context(), "registration rejected", "user", req.UserID, "error", err.Error())
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, registerResponse{UserID: user.UserID, SessionToken: token})
}

type settingsResponse struct {
	UserID                 string   `json:"userId"`
	MenuSeq                []string `json:"menuSeq"`
	FloorNm                string   `json:"floorNm"`
	ExclusionDates         []string `json:"exclusionDates"`
	AutoReservationEnabled bool     `json:"autoReservationEnabled"`
}

// GetSettings handles GET /user/settings?userId=.
func (h *UserHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		badRequest(w, r, "userId is required")
		return
	}

	settings, err := h.service.GetSettings(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Keep arrays non-null in the JSON body.
	menuSeq := settings.MenuSeq
	if menuSeq == nil {
		menuSeq = []string{}
	}
	exclusions := settings.ExclusionDates
	if exclusions == nil {
		exclusions = []string{}
	}
	render.JSON(w, r, settingsResponse{
		UserID:                 settings.UserID,
		MenuSeq:                menuSeq,
		FloorNm:                settings.FloorNm,
		ExclusionDates:         exclusions,
		AutoReservationEnabled: settings.AutoReservationEnabled,
	})
}

type updateSettingsRequest struct {
	UserID      string `json:"userId" validate:"required"`
	MenuSeq     string `json:"menuSeq"`
	FloorNm     string `json:"floorNm"`
	CafeteriaID string `json:"cafeteriaId"`
	CafeteriaPw string `json:"cafeteriaPw"`
}

// UpdateSettings handles POST /user/settings. Blank fields are left
// unchanged; at least one field must be present.
func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("op", "users.update-settings", "request_id", middleware.GetReqID(r.Context()))

	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	update := services.SettingsUpdate{
		MenuSeq:     optional(req.MenuSeq),
		FloorNm:     optional(req.FloorNm),
		CafeteriaID: optional(req.CafeteriaID),
		CafeteriaPw: optional(req.CafeteriaPw),
	}
	if err := h.service.UpdateSettings(r.Context(), req.UserID, update); err != nil {
		log.Warn(r.Context(), "settings update rejected", "user", req.UserID, "error", err.Error())
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, response.OK("settings updated"))
}

type exclusionDatesRequest struct {
	UserID         string   `json:"userId" validate:"required"`
	ExclusionDates []string `json:"exclusionDates" validate:"required"`
}

// ExclusionDates handles POST /user/exclusion-dates. The submitted list
// replaces the stored one.
func (h *UserHandler) ExclusionDates(w http.ResponseWriter, r *http.Request) {
	var req exclusionDatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.ReplaceExclusionDates(r.Context(), req.UserID, req.ExclusionDates); err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, response.OK("exclusion dates updated"))
}

type toggleAutoRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Enabled *bool  `json:"enabled" validate:"required"`
}

// ToggleAutoReservation handles POST /user/toggle-auto-reservation.
func (h *UserHandler) ToggleAutoReservation(w http.ResponseWriter, r *http.Request) {
	var req toggleAutoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.SetAutoReservation(r.Context(), req.UserID, *req.Enabled); err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, response.OK("auto reservation updated"))
}

type deleteAccountRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Confirm bool   `json:"confirm"`
}

// DeleteAccount handles POST /user/delete-account. It requires an explicit
// confirm flag.
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("op", "users.delete-account", "request_id", middleware.GetReqID(r.Context()))

	var req deleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	if !req.Confirm {
		badRequest(w, r, "confirm flag is required")
		return
	}

	if err := h.service.DeleteAccount(r.Context(), req.UserID); err != nil {
		log.Warn(r.Context(), "account deletion failed", "user", req.UserID, "error", err.Error())
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, response.OK("account deleted"))
}

// optional maps a blank string to nil so the service treats it as "no
// change".
func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
