package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jaehyuklim/lunchpilot/internal/client/api"
	"github.com/jaehyuklim/lunchpilot/internal/client/config"
	"github.com/jaehyuklim/lunchpilot/internal/client/session"
)

type fakeAPI struct {
	mu sync.Mutex

	checkDevice    *api.DeviceCheckResult
	checkDeviceErr error

	sendCodeErr error
	sentCodes   []string

	verify    *api.VerifyCodeResult
	verifyErr error

	status    *api.RegistrationStatus
	statusErr error

	register     *api.RegisterResult
	registerErr  error
	registerReqs []api.RegisterRequest

	reservations    map[string]*api.CheckReservationResult
	reservationErr  error
	reservationHits []string

	cancelResult *api.CancelReservationResult
	cancelErr    error
	cancelDates  []string

	toggleErr   error
	toggleCalls []bool

	attempt    *api.Attempt
	attemptErr error

	settings    *api.Settings
	settingsErr error

	settingsUpdates []api.SettingsUpdate
	exclusionSaves  [][]string

	loggedOut bool
	deleted   bool
	deleteErr error
}

func (f *fakeAPI) CheckDevice(ctx context.Context, fingerprint string) (*api.DeviceCheckResult, error) {
	if f.checkDeviceErr != nil {
		return nil, f.checkDeviceErr
	}
	if f.checkDevice != nil {
		return f.checkDevice, nil
	}
	return &api.DeviceCheckResult{}, nil
}

func (f *fakeAPI) SendCode(ctx context.Context, email string) error {
	f.sentCodes = append(f.sentCodes, email)
	return f.sendCodeErr
}

func (f *fakeAPI) VerifyCode(ctx context.Context, email, code, fingerprint string) (*api.VerifyCodeResult, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	if f.verify != nil {
		return f.verify, nil
	}
	return &api.VerifyCodeResult{}, nil
}

func (f *fakeAPI) Logout(ctx context.Context, userID, fingerprint string) (bool, error) {
	f.loggedOut = true
	return true, nil
}

func (f *fakeAPI) RegistrationStatus(ctx context.Context) (*api.RegistrationStatus, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if f.status != nil {
		return f.status, nil
	}
	return &api.RegistrationStatus{Count: 1, Limit: 10}, nil
}

func (f *fakeAPI) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResult, error) {
	f.registerReqs = append(f.registerReqs, req)
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	if f.register != nil {
		return f.register, nil
	}
	return &api.RegisterResult{UserID: req.UserID, SessionToken: "tok"}, nil
}

func (f *fakeAPI) CheckReservation(ctx context.Context, userID, targetDate string) (*api.CheckReservationResult, error) {
	f.mu.Lock()
	f.reservationHits = append(f.reservationHits, targetDate)
	f.mu.Unlock()

	if f.reservationErr != nil {
		return nil, f.reservationErr
	}
	if res, ok := f.reservations[targetDate]; ok {
		return res, nil
	}
	return &api.CheckReservationResult{Reservations: []api.Reservation{}}, nil
}

func (f *fakeAPI) CancelReservation(ctx context.Context, userID, targetDate string) (*api.CancelReservationResult, error) {
	f.cancelDates = append(f.cancelDates, targetDate)
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	if f.cancelResult != nil {
		return f.cancelResult, nil
	}
	return &api.CancelReservationResult{Cancelled: []api.Reservation{}}, nil
}

func (f *fakeAPI) ToggleAutoReservation(ctx context.Context, userID string, enabled bool) error {
	f.toggleCalls = append(f.toggleCalls, enabled)
	return f.toggleErr
}

func (f *fakeAPI) MakeImmediateReservation(ctx context.Context, userID string) (*api.Attempt, error) {
	if f.attemptErr != nil {
		return nil, f.attemptErr
	}
	if f.attempt != nil {
		return f.attempt, nil
	}
	return &api.Attempt{Success: true, Message: "ok"}, nil
}

func (f *fakeAPI) GetSettings(ctx context.Context, userID string) (*api.Settings, error) {
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	if f.settings != nil {
		return f.settings, nil
	}
	return &api.Settings{UserID: userID}, nil
}

func (f *fakeAPI) UpdateSettings(ctx context.Context, req api.SettingsUpdate) error {
	f.settingsUpdates = append(f.settingsUpdates, req)
	return nil
}

func (f *fakeAPI) UpdateExclusionDates(ctx context.Context, userID string, dates []string) error {
	f.exclusionSaves = append(f.exclusionSaves, dates)
	return nil
}

func (f *fakeAPI) DeleteAccount(ctx context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = true
	return nil
}

type fakeSessionStore struct {
	saved   *session.Session
	loadErr error
}

func (f *fakeSessionStore) Load(ctx context.Context) (*session.Session, error) {
	return f.saved, f.loadErr
}

func (f *fakeSessionStore) Save(ctx context.Context, sess session.Session) error {
	f.saved = &sess
	return nil
}

func (f *fakeSessionStore) Clear(ctx context.Context) error {
	f.saved = nil
	return nil
}

type fakeFingerprint struct {
	fp  string
	err error
}

func (f *fakeFingerprint) Get(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.fp, nil
}

var errNoFingerprint = errors.New("device fingerprint unavailable")

type fixture struct {
	app   *App
	api   *fakeAPI
	store *fakeSessionStore
	out   *bytes.Buffer
}

func newFixture(t *testing.T, input string) *fixture {
	t.Helper()

	f := &fixture{
		api:   &fakeAPI{},
		store: &fakeSessionStore{},
		out:   &bytes.Buffer{},
	}
	f.app = &App{
		config:   &config.Config{},
		api:      f.api,
		sessions: f.store,
		fp:       &fakeFingerprint{fp: "fp-1"},
		reader:   bufio.NewReader(strings.NewReader(input)),
		out:      f.out,
		screen:   ScreenLoading,
	}
	return f
}

func fixedNow(t *testing.T, at time.Time) {
	t.Helper()
	orig := nowFn
	nowFn = func() time.Time { return at }
	t.Cleanup(func() { nowFn = orig })
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}
