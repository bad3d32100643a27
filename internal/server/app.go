// Package server initializes and runs the reservation backend: database,
// mail, HTTP endpoint and daily scheduler, with graceful shutdown on OS
// signals.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jaehyuklim/lunchpilot/internal/logging"
	"github.com/jaehyuklim/lunchpilot/internal/server/cafeteria"
	"github.com/jaehyuklim/lunchpilot/internal/server/config"
	"github.com/jaehyuklim/lunchpilot/internal/server/holiday"
	"github.com/jaehyuklim/lunchpilot/internal/server/httpapi"
	"github.com/jaehyuklim/lunchpilot/internal/server/models"
	"github.com/jaehyuklim/lunchpilot/internal/server/notify"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/repomanager"
	"github.com/jaehyuklim/lunchpilot/internal/server/scheduler"
	"github.com/jaehyuklim/lunchpilot/internal/server/services"
)

const cafeteriaTimeout = 10 * time.Second

type App struct {
	config             *config.Config
	logger             logging.Logger
	handler            http.Handler
	scheduler          *scheduler.Scheduler
	authService        *services.AuthService
	userService        *services.UserService
	reservationService *services.ReservationService
}

// noopNotifier stands in when no SES sender address is configured. Codes
// are logged instead of mailed, which keeps local development usable.
type noopNotifier struct {
	logger logging.Logger
}

func (n *noopNotifier) SendVerificationCode(ctx context.Context, email string, code string) error {
	n.logger.Warn(ctx, "mail disabled, verification code not sent", "email", email, "code", code)
	return nil
}

func (n *noopNotifier) SendAttemptResult(ctx context.Context, email string, attempt models.ReservationAttempt) error {
	n.logger.Info(ctx, "mail disabled, attempt result not sent",
		"email", email, "success", attempt.Success, "message", attempt.Message)
	return nil
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var codeSender services.CodeSender
	var attemptNotifier services.AttemptNotifier
	if cfg.SESSenderEmail != "" {
		mailer, err := notify.New(ctx, cfg.SESRegion, cfg.SESSenderEmail, logger)
		if err != nil {
			return nil, fmt.Errorf("ses init error: %w", err)
		}
		codeSender = mailer
		attemptNotifier = mailer
	} else {
		noop := &noopNotifier{logger: logger}
		codeSender = noop
		attemptNotifier = noop
	}

	holidayService := holiday.NewService(cfg.HolidayEndpoint, cfg.HolidayAPIKey, rm.Holidays(), logger)

	newClient := func() services.CafeteriaClient {
		return cafeteria.NewClient(cfg.CafeteriaBaseURL, cafeteriaTimeout)
	}

	secret := []byte(cfg.SecretKey)
	authService := services.NewAuthService(rm, codeSender, secret, cfg.SessionTokenValidityDuration, logger)
	userService := services.NewUserService(rm, []byte(cfg.MasterPassword), secret, cfg.SessionTokenValidityDuration, cfg.MaxUsers, logger)
	reservationService := services.NewReservationService(rm, newClient, holidayService, attemptNotifier, []byte(cfg.MasterPassword), location, logger)

	sched, err := scheduler.New(rm, reservationService, holidayService, cfg.ScheduleTime, location, logger)
	if err != nil {
		return nil, fmt.Errorf("scheduler init error: %w", err)
	}

	return &App{
		config:             cfg,
		logger:             logger,
		handler:            httpapi.NewRouter(authService, userService, reservationService, logger),
		scheduler:          sched,
		authService:        authService,
		userService:        userService,
		reservationService: reservationService,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown error", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.scheduler.Run(ctx)
	}()

	wg.Wait()
}
