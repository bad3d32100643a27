// Package httpapi assembles the chi router for the reservation backend.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/jaehyuklim/lunchpilot/internal/logging"
	"github.com/jaehyuklim/lunchpilot/internal/server/httpapi/handlers"
)

// NewRouter wires all endpoints and the shared middleware stack.
func NewRouter(
	auth handlers.AuthService,
	users handlers.UserService,
	reservations handlers.ReservationService,
	logger logging.Logger,
) http.Handler {
	authHandler := handlers.NewAuthHandler(auth, logger)
	userHandler := handlers.NewUserHandler(users, logger)
	reservationHandler := handlers.NewReservationHandler(reservations, logger)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
	)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/check-device", authHandler.CheckDevice)
		r.Post("/send-code", authHandler.SendCode)
		r.Post("/verify-code", authHandler.VerifyCode)
		r.Post("/logout", authHandler.Logout)
	})

	r.Post("/register", userHandler.Register)
	r.Get("/registration-status", userHandler.RegistrationStatus)

	r.Route("/user", func(r chi.Router) {
		r.Get("/settings", userHandler.GetSettings)
		r.Post("/settings", userHandler.UpdateSettings)
		r.Post("/exclusion-dates", userHandler.ExclusionDates)
		r.Post("/toggle-auto-reservation", userHandler.ToggleAutoReservation)
		r.Post("/delete-account", userHandler.DeleteAccount)
	})

	r.Post("/check-reservation", reservationHandler.CheckReservation)
	r.Post("/reservation/make-immediate", reservationHandler.MakeImmediate)
	r.Post("/reservation/cancel", reservationHandler.Cancel)

	return r
}
