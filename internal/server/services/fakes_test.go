package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jaehyuklim/lunchpilot/internal/common"
	"github.com/jaehyuklim/lunchpilot/internal/logging"
	"github.com/jaehyuklim/lunchpilot/internal/server/cafeteria"
	"github.com/jaehyuklim/lunchpilot/internal/server/models"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/devices"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/holidays"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/repomanager"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/users"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/verifications"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeUsersRepo struct {
	byID map[string]*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: make(map[string]*models.User)}
}

func (f *fakeUsersRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	u := *user
	u.AutoReservationEnabled = true
	u.CreatedAt = time.Now()
	f.byID[u.UserID] = &u
	return &u, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, userID string) (*models.User, error) {
	if u, ok := f.byID[userID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Count(_ context.Context) (int, error) {
	return len(f.byID), nil
}

func (f *fakeUsersRepo) List(_ context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.byID {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeUsersRepo) UpdateSettings(_ context.Context, userID string, menuSeq, floorNm, cafeteriaID *string, passwordEnc, passwordNonce []byte) error {
	u, ok := f.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	if menuSeq != nil {
		u.MenuSeq = *menuSeq
	}
	if floorNm != nil {
		u.FloorNm = *floorNm
	}
	if cafeteriaID != nil {
		u.CafeteriaUserID = *cafeteriaID
	}
	if passwordEnc != nil {
		u.CafeteriaPasswordEnc = passwordEnc
		u.CafeteriaPasswordNonce = passwordNonce
	}
	return nil
}

func (f *fakeUsersRepo) UpdateExclusionDates(_ context.Context, userID string, dates []string) error {
	u, ok := f.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.ExclusionDates = dates
	return nil
}

func (f *fakeUsersRepo) SetAutoReservation(_ context.Context, userID string, enabled bool) error {
	u, ok := f.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.AutoReservationEnabled = enabled
	return nil
}

func (f *fakeUsersRepo) Delete(_ context.Context, userID string) error {
	if _, ok := f.byID[userID]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, userID)
	return nil
}

type fakeDevicesRepo struct {
	byFingerprint map[string]*models.Device
	registerErr   error
}

func newFakeDevicesRepo() *fakeDevicesRepo {
	return &fakeDevicesRepo{byFingerprint: make(map[string]*models.Device)}
}

func (f *fakeDevicesRepo) Register(_ context.Context, userID, fingerprint string) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	now := time.Now()
	if d, ok := f.byFingerprint[fingerprint]; ok {
		d.LastAccessAt = now
		return nil
	}
	f.byFingerprint[fingerprint] = &models.Device{
		ID:           uuid.NewString(),
		UserID:       userID,
		Fingerprint:  fingerprint,
		RegisteredAt: now,
		LastAccessAt: now,
	}
	return nil
}

func (f *fakeDevicesRepo) FindByFingerprint(_ context.Context, fingerprint string) (*models.Device, error) {
	if d, ok := f.byFingerprint[fingerprint]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeDevicesRepo) Touch(_ context.Context, fingerprint string) error {
	if d, ok := f.byFingerprint[fingerprint]; ok {
		d.LastAccessAt = time.Now()
		return nil
	}
	return common.ErrorNotFound
}

func (f *fakeDevicesRepo) Remove(_ context.Context, userID, fingerprint string) (bool, error) {
	d, ok := f.byFingerprint[fingerprint]
	if !ok || d.UserID != userID {
		return false, nil
	}
	delete(f.byFingerprint, fingerprint)
	return true, nil
}

type fakeVerificationsRepo struct {
	byEmail map[string]*models.VerificationCode
}

func newFakeVerificationsRepo() *fakeVerificationsRepo {
	return &fakeVerificationsRepo{byEmail: make(map[string]*models.VerificationCode)}
}

func (f *fakeVerificationsRepo) Upsert(_ context.Context, code *models.VerificationCode) error {
	cp := *code
	f.byEmail[code.Email] = &cp
	return nil
}

func (f *fakeVerificationsRepo) Find(_ context.Context, email string) (*models.VerificationCode, error) {
	if c, ok := f.byEmail[email]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeVerificationsRepo) Delete(_ context.Context, email string) error {
	delete(f.byEmail, email)
	return nil
}

type fakeHolidaysRepo struct {
	byMonth map[string][]string
}

func newFakeHolidaysRepo() *fakeHolidaysRepo {
	return &fakeHolidaysRepo{byMonth: make(map[string][]string)}
}

func (f *fakeHolidaysRepo) Get(_ context.Context, month string) ([]string, bool, error) {
	dates, ok := f.byMonth[month]
	return dates, ok, nil
}

func (f *fakeHolidaysRepo) Save(_ context.Context, month string, dates []string) error {
	f.byMonth[month] = dates
	return nil
}

type fakeRepoManager struct {
	users         *fakeUsersRepo
	devices       *fakeDevicesRepo
	verifications *fakeVerificationsRepo
	holidays      *fakeHolidaysRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:         newFakeUsersRepo(),
		devices:       newFakeDevicesRepo(),
		verifications: newFakeVerificationsRepo(),
		holidays:      newFakeHolidaysRepo(),
	}
}

func (f *fakeRepoManager) Conn() *sql.DB                           { return nil }
func (f *fakeRepoManager) Users() users.Repository                 { return f.users }
func (f *fakeRepoManager) Devices() devices.Repository             { return f.devices }
func (f *fakeRepoManager) Verifications() verifications.Repository { return f.verifications }
func (f *fakeRepoManager) Holidays() holidays.Repository           { return f.holidays }

// WithTx snapshots the user and device maps and restores them when fn
// fails, mimicking a rollback.
func (f *fakeRepoManager) WithTx(_ context.Context, fn func(repomanager.RepositoryManager) error) error {
	userSnap := make(map[string]*models.User, len(f.users.byID))
	for k, v := range f.users.byID {
		userSnap[k] = v
	}
	deviceSnap := make(map[string]*models.Device, len(f.devices.byFingerprint))
	for k, v := range f.devices.byFingerprint {
		deviceSnap[k] = v
	}

	if err := fn(f); err != nil {
		f.users.byID = userSnap
		f.devices.byFingerprint = deviceSnap
		return err
	}
	return nil
}

type fakeCodeSender struct {
	emails []string
	codes  []string
	err    error
}

func (f *fakeCodeSender) SendVerificationCode(_ context.Context, email, code string) error {
	if f.err != nil {
		return f.err
	}
	f.emails = append(f.emails, email)
	f.codes = append(f.codes, code)
	return nil
}

type fakeHolidayChecker struct {
	dates map[string]bool
}

func (f *fakeHolidayChecker) IsHoliday(_ context.Context, target time.Time) (bool, error) {
	return f.dates[target.Format("20060102")], nil
}

type fakeNotifier struct {
	attempts []models.ReservationAttempt
}

func (f *fakeNotifier) SendAttemptResult(_ context.Context, _ string, attempt models.ReservationAttempt) error {
	f.attempts = append(f.attempts, attempt)
	return nil
}

// fakeCafeteria scripts the site's behavior for one run.
type fakeCafeteria struct {
	loginErr     error
	active       []cafeteria.ReserveEntry
	menus        []cafeteria.ReserveEntry
	options      map[string][]cafeteria.DeliveryOption
	orderErr     map[string]error
	placed       []cafeteria.Order
	cancelErr    error
	cancelled    []cafeteria.ReserveEntry
	loggedInAs   string
	loggedInPass string
}

func (f *fakeCafeteria) Login(_ context.Context, userID, password string) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedInAs = userID
	f.loggedInPass = password
	return nil
}

func (f *fakeCafeteria) FetchReserveMenuList(_ context.Context, _, _ string) ([]cafeteria.ReserveEntry, error) {
	return f.menus, nil
}

func (f *fakeCafeteria) FetchDeliveryOptions(_ context.Context, conerDvCd, _, _ string) ([]cafeteria.DeliveryOption, error) {
	return f.options[conerDvCd], nil
}

func (f *fakeCafeteria) ActiveReservations(_ context.Context, _, _ string) ([]cafeteria.ReserveEntry, error) {
	return f.active, nil
}

func (f *fakeCafeteria) PlaceOrder(_ context.Context, order cafeteria.Order) error {
	f.placed = append(f.placed, order)
	if err, ok := f.orderErr[order.ConerDvCd]; ok {
		return err
	}
	return nil
}

func (f *fakeCafeteria) CancelReservation(_ context.Context, entry cafeteria.ReserveEntry) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, entry)
	return nil
}
