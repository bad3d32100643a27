package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jaehyuklim/lunchpilot/internal/client/api"
	"github.com/jaehyuklim/lunchpilot/internal/client/config"
	"github.com/jaehyuklim/lunchpilot/internal/client/fingerprint"
	"github.com/jaehyuklim/lunchpilot/internal/client/session"
)

// Screen is the current navigation state.
type Screen string

const (
	ScreenLoading   Screen = "loading"
	ScreenEmail     Screen = "email"
	ScreenVerify    Screen = "verify"
	ScreenSetup     Screen = "setup"
	ScreenDashboard Screen = "dashboard"
)

// errQuit signals a user-requested exit out of the screen loop.
var errQuit = errors.New("quit")

// apiClient is the server surface the screens need. *api.Client satisfies it.
type apiClient interface {
	CheckDevice(ctx context.Context, fingerprint string) (*api.DeviceCheckResult, error)
	SendCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code, fingerprint string) (*api.VerifyCodeResult, error)
	Logout(ctx context.Context, userID, fingerprint string) (bool, error)
	RegistrationStatus(ctx context.Context) (*api.RegistrationStatus, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResult, error)
	CheckReservation(ctx context.Context, userID, targetDate string) (*api.CheckReservationResult, error)
	CancelReservation(ctx context.Context, userID, targetDate string) (*api.CancelReservationResult, error)
	ToggleAutoReservation(ctx context.Context, userID string, enabled bool) error
	MakeImmediateReservation(ctx context.Context, userID string) (*api.Attempt, error)
	GetSettings(ctx context.Context, userID string) (*api.Settings, error)
	UpdateSettings(ctx context.Context, req api.SettingsUpdate) error
	UpdateExclusionDates(ctx context.Context, userID string, dates []string) error
	DeleteAccount(ctx context.Context, userID string) error
}

// fingerprinter resolves the device fingerprint with a bounded wait.
type fingerprinter interface {
	Get(ctx context.Context) (string, error)
}

// sessionStore persists the signed-in session across restarts.
type sessionStore interface {
	Load(ctx context.Context) (*session.Session, error)
	Save(ctx context.Context, sess session.Session) error
	Clear(ctx context.Context) error
}

type App struct {
	config   *config.Config
	api      apiClient
	sessions sessionStore
	fp       fingerprinter
	reader   *bufio.Reader
	out      io.Writer

	screen  Screen
	session *session.Session

	// pendingEmail carries the address between the email and verify screens.
	pendingEmail string
	autoEnabled  bool
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := session.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	return &App{
		config:   cfg,
		api:      api.NewClient(cfg.ServerBaseURL, cfg.RequestTimeout),
		sessions: session.NewStore(session.NewSQLiteRepository(db)),
		fp:       fingerprint.NewProvider(cfg.FingerprintWait),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		screen:   ScreenLoading,
	}, nil
}

// Run drives the screen loop until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "LunchPilot CLI")
	a.initialize(ctx)

	for {
		// the dashboard is never rendered without a session
		if a.screen == ScreenDashboard && a.session == nil {
			a.screen = ScreenEmail
		}

		var err error
		switch a.screen {
		case ScreenEmail:
			err = a.emailScreen(ctx)
		case ScreenVerify:
			err = a.verifyScreen(ctx)
		case ScreenSetup:
			err = a.setupScreen(ctx)
		case ScreenDashboard:
			err = a.dashboardScreen(ctx)
		default:
			a.screen = ScreenEmail
		}
		if err != nil {
			if errors.Is(err, errQuit) {
				fmt.Fprintln(a.out, "Bye!")
			}
			return
		}
	}
}

// initialize resolves the initial screen: a saved session resumes to the
// dashboard, a recognized device signs in silently, anything else lands on
// the email screen with no stale session retained.
func (a *App) initialize(ctx context.Context) {
	if sess, err := a.sessions.Load(ctx); err == nil && sess != nil {
		a.session = sess
		a.screen = ScreenDashboard
		return
	}

	fp, err := a.fp.Get(ctx)
	if err != nil {
		a.toEmail(ctx)
		return
	}

	res, err := a.api.CheckDevice(ctx, fp)
	if err != nil || !res.Authenticated {
		a.toEmail(ctx)
		return
	}

	a.setSession(ctx, session.Session{
		UserID:       res.UserID,
		Email:        res.Email,
		SessionToken: res.SessionToken,
	})
}

// setSession materializes the session and moves to the dashboard.
func (a *App) setSession(ctx context.Context, sess session.Session) {
	a.session = &sess
	if err := a.sessions.Save(ctx, sess); err != nil {
		fmt.Fprintf(a.out, "세션 저장 실패: %s\n", err.Error())
	}
	a.screen = ScreenDashboard
}

// toEmail clears any session state and lands on the email screen.
func (a *App) toEmail(ctx context.Context) {
	a.session = nil
	_ = a.sessions.Clear(ctx)
	a.screen = ScreenEmail
}

// deviceFingerprint returns the fingerprint or empty when unavailable.
func (a *App) deviceFingerprint(ctx context.Context) string {
	fp, err := a.fp.Get(ctx)
	if err != nil {
		return ""
	}
	return fp
}
