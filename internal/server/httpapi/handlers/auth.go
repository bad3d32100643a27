package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/jaehyuklim/lunchpilot/internal/logging"
	"github.com/jaehyuklim/lunchpilot/internal/server/httpapi/response"
)

type AuthHandler struct {
	service  AuthService
	validate *validator.Validate
	logger   logging.Logger
}

func NewAuthHandler(service AuthService, logger logging.Logger) *AuthHandler {
	return &AuthHandler{service: service, validate: validator.New(), logger: logger}
}

type checkDeviceRequest struct {
	DeviceFingerprint string `json:"deviceFingerprint" validate:"required"`
}

type checkDeviceResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId,omitempty"`
	Email         string `json:"email,omitempty"`
	SessionToken  string `json:"sessionToken,omitempty"`
}

// CheckDevice handles POST /auth/check-device. An unknown fingerprint is
// still a 200 with authenticated=false.
func (h *AuthHandler) CheckDevice(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("op", "auth.check-device", "request_id", middleware.GetReqID(r.Context()))

	var req checkDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	check, err := h.service.CheckDevice(r.Context(), req.DeviceFingerprint)
	if err != nil {
		log.Error(r.Context(), "device check failed", "error", err.Error())
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, checkDeviceResponse{
		Authenticated: check.Authenticated,
		UserID:        check.UserID,
		Email:         check.Email,
		SessionToken:  check.SessionToken,
	})
}

type sendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SendCode handles POST /auth/send-code.
func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("op", "auth.send-code", "request_id", middleware.GetReqID(r.Context()))

	var req sendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.SendCode(r.Context(), req.Email); err != nil {
		log.Error(r.Context(), "send code failed", "error", err.Error())
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, response.OK("verification code sent"))
}

type verifyCodeRequest struct {
	Email             string `json:"email" validate:"required,email"`
	Code              string `json:"code" validate:"required,len=6"`
	DeviceFingerprint string `json:"deviceFingerprint"`
}

type verifyCodeResponse struct {
	HasAccount   bool   `json:"hasAccount"`
	UserID       string `json:"userId,omitempty"`
	SessionToken string `json:"sessionToken,omitempty"`
}

// VerifyCode handles POST /auth/verify-code.
func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("op", "auth.verify-code", "request_id", middleware.GetReqID(r.Context()))

	var req verifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.VerifyCode(r.Context(), req.Email, req.Code, req.DeviceFingerprint)
	if err != nil {
		log.Warn(r.Context(), "code verification failed", "email", req.Email, "error", err.Error())
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, verifyCodeResponse{
		HasAccount:   result.HasAccount,
		UserID:       result.UserID,
		SessionToken: result.SessionToken,
	})
}

type logoutRequest struct {
	UserID            string `json:"userId" validate:"required"`
	DeviceFingerprint string `json:"deviceFingerprint" validate:"required"`
}

type logoutResponse struct {
	DeviceRemoved bool `json:"deviceRemoved"`
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("op", "auth.logout", "request_id", middleware.GetReqID(r.Context()))

	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	removed, err := h.service.Logout(r.Context(), req.UserID, req.DeviceFingerprint)
	if err != nil {
		log.Error(r.Context(), "logout failed", "error", err.Error())
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, logoutResponse{DeviceRemoved: removed})
}
