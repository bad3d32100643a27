package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jaehyuklim/lunchpilot/internal/common"
	"github.com/jaehyuklim/lunchpilot/internal/logging"
	"github.com/jaehyuklim/lunchpilot/internal/server/cafeteria"
	"github.com/jaehyuklim/lunchpilot/internal/server/cryptox"
	"github.com/jaehyuklim/lunchpilot/internal/server/models"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/repomanager"
)

// CafeteriaClient is the slice of the site client the reservation flow
// uses. A fresh client is created per run so session cookies do not leak
// between users.
type CafeteriaClient interface {
	Login(ctx context.Context, userID, password string) error
	FetchReserveMenuList(ctx context.Context, prvdDt, bizplcCd string) ([]cafeteria.ReserveEntry, error)
	FetchDeliveryOptions(ctx context.Context, conerDvCd, prvdDt, bizplcCd string) ([]cafeteria.DeliveryOption, error)
	ActiveReservations(ctx context.Context, prvdDt, bizplcCd string) ([]cafeteria.ReserveEntry, error)
	PlaceOrder(ctx context.Context, order cafeteria.Order) error
	CancelReservation(ctx context.Context, entry cafeteria.ReserveEntry) error
}

// HolidayChecker reports whether a date is a public holiday.
type HolidayChecker interface {
	IsHoliday(ctx context.Context, target time.Time) (bool, error)
}

// AttemptNotifier delivers reservation outcomes to the user.
type AttemptNotifier interface {
	SendAttemptResult(ctx context.Context, email string, attempt models.ReservationAttempt) error
}

type ReservationService struct {
	repo           repomanager.RepositoryManager
	newClient      func() CafeteriaClient
	holidays       HolidayChecker
	notifier       AttemptNotifier
	masterPassword []byte
	location       *time.Location
	logger         logging.Logger
}

func NewReservationService(
	repo repomanager.RepositoryManager,
	newClient func() CafeteriaClient,
	holidays HolidayChecker,
	notifier AttemptNotifier,
	masterPassword []byte,
	location *time.Location,
	logger logging.Logger,
) *ReservationService {
	return &ReservationService{
		repo:           repo,
		newClient:      newClient,
		holidays:       holidays,
		notifier:       notifier,
		masterPassword: masterPassword,
		location:       location,
		logger:         logger,
	}
}

// Run executes one reservation attempt for the user. With a nil
// serviceDate the next service date is computed: the next weekday that is
// neither a public holiday nor on the user's exclusion list. The returned
// attempt carries business outcomes; the error return is reserved for
// infrastructure failures (the user cannot be loaded, credentials cannot
// be decrypted).
func (s *ReservationService) Run(ctx context.Context, userID string, serviceDate *time.Time) (*models.ReservationAttempt, error) {
	user, err := s.repo.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	password, err := s.decryptPassword(user)
	if err != nil {
		return nil, fmt.Errorf("decrypt credentials: %w", err)
	}

	var target time.Time
	if serviceDate != nil {
		target = *serviceDate
	} else {
		target, err = s.NextServiceDate(ctx, user, time.Now().In(s.location))
		if err != nil {
			return nil, err
		}
	}

	attempt := s.attempt(ctx, user, password, target)
	s.notify(ctx, user, attempt)
	return attempt, nil
}

func (s *ReservationService) attempt(ctx context.Context, user *models.User, password string, target time.Time) *models.ReservationAttempt {
	fail := func(msg string) *models.ReservationAttempt {
		return &models.ReservationAttempt{Success: false, Message: msg, TargetDate: target}
	}

	if user.IsExcluded(target.Format("2006-01-02")) {
		return fail("Skipped due to exclusion date")
	}
	if holiday, err := s.holidays.IsHoliday(ctx, target); err != nil {
		s.logger.Warn(ctx, "holiday check failed", "error", err.Error())
	} else if holiday {
		return fail("Skipped due to public holiday")
	}

	client := s.newClient()
	if err := client.Login(ctx, user.CafeteriaUserID, password); err != nil {
		return fail(fmt.Sprintf("Login failed: %s", siteMessage(err)))
	}

	prvdDt := target.Format("20060102")

	existing, err := client.ActiveReservations(ctx, prvdDt, "")
	if err != nil {
		s.logger.Warn(ctx, "reservation check failed", "user", user.UserID, "error", err.Error())
	} else if len(existing) > 0 {
		return &models.ReservationAttempt{
			Success:    true,
			Message:    fmt.Sprintf("Reservation already exists: %s", existing[0].DispNm),
			TargetDate: target,
		}
	}

	available, err := client.FetchReserveMenuList(ctx, prvdDt, "")
	if err != nil {
		return fail(fmt.Sprintf("Menu list unavailable: %s", siteMessage(err)))
	}

	var attempted []string
	var lastErr error
	for _, initial := range user.MenuSequence() {
		code, ok := cafeteria.MenuCodeFor(initial)
		if !ok {
			continue
		}
		menu := findMenu(available, code)
		if menu == nil {
			continue
		}

		options, err := client.FetchDeliveryOptions(ctx, code, prvdDt, menu.BizplcCd)
		if err != nil {
			s.logger.Warn(ctx, "delivery info fetch failed", "menu", initial, "error", err.Error())
			continue
		}
		option := findFloor(options, user.FloorNm)
		if option == nil {
			s.logger.Warn(ctx, "floor not offered for menu", "menu", initial, "floor", user.FloorNm)
			continue
		}

		attempted = append(attempted, initial)
		order := buildOrder(*menu, *option, code, prvdDt)
		err = client.PlaceOrder(ctx, order)
		if err == nil {
			return &models.ReservationAttempt{
				Success:        true,
				Message:        fmt.Sprintf("Reserved menu %s", menu.DispNm),
				TargetDate:     target,
				AttemptedMenus: attempted,
			}
		}
		if errors.Is(err, cafeteria.ErrAlreadyReserved) {
			return &models.ReservationAttempt{
				Success:        true,
				Message:        "Reservation already exists",
				TargetDate:     target,
				AttemptedMenus: attempted,
			}
		}
		lastErr = err
	}

	msg := "Reservation attempt failed"
	if lastErr != nil {
		msg = siteMessage(lastErr)
	}
	return &models.ReservationAttempt{
		Success:        false,
		Message:        msg,
		TargetDate:     target,
		AttemptedMenus: attempted,
	}
}

// CheckReservation lists the user's active reservations for a date
// (YYYY-MM-DD) straight from the cafeteria site.
func (s *ReservationService) CheckReservation(ctx context.Context, userID string, targetDate string) ([]models.Reservation, error) {
	user, err := s.repo.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	password, err := s.decryptPassword(user)
	if err != nil {
		return nil, fmt.Errorf("decrypt credentials: %w", err)
	}

	day, err := time.ParseInLocation("2006-01-02", targetDate, s.location)
	if err != nil {
		return nil, fmt.Errorf("invalid target date %q: %w", targetDate, err)
	}

	client := s.newClient()
	if err := client.Login(ctx, user.CafeteriaUserID, password); err != nil {
		return nil, fmt.Errorf("cafeteria login: %w", err)
	}

	entries, err := client.ActiveReservations(ctx, day.Format("20060102"), "")
	if err != nil {
		return nil, err
	}

	result := make([]models.Reservation, 0, len(entries))
	for _, e := range entries {
		result = append(result, models.Reservation{
			DispNm:  e.DispNm,
			PrvdDt:  e.PrvdDt,
			ConerNm: e.ConerNm,
		})
	}
	return result, nil
}

// Cancel revokes the user's active reservations for a date (YYYY-MM-DD)
// on the cafeteria site and returns the entries it cancelled.
func (s *ReservationService) Cancel(ctx context.Context, userID string, targetDate string) ([]models.Reservation, error) {
	user, err := s.repo.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	password, err := s.decryptPassword(user)
	if err != nil {
		return nil, fmt.Errorf("decrypt credentials: %w", err)
	}

	day, err := time.ParseInLocation("2006-01-02", targetDate, s.location)
	if err != nil {
		return nil, fmt.Errorf("invalid target date %q: %w", targetDate, err)
	}

	client := s.newClient()
	if err := client.Login(ctx, user.CafeteriaUserID, password); err != nil {
		return nil, fmt.Errorf("cafeteria login: %w", err)
	}

	entries, err := client.ActiveReservations(ctx, day.Format("20060102"), "")
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no active reservation for %s: %w", targetDate, common.ErrorNotFound)
	}

	cancelled := make([]models.Reservation, 0, len(entries))
	for _, e := range entries {
		if err := client.CancelReservation(ctx, e); err != nil {
			return nil, err
		}
		cancelled = append(cancelled, models.Reservation{
			DispNm:  e.DispNm,
			PrvdDt:  e.PrvdDt,
			ConerNm: e.ConerNm,
		})
	}
	return cancelled, nil
}

// NextServiceDate returns the first day after now that is a weekday, not a
// public holiday and not excluded by the user.
func (s *ReservationService) NextServiceDate(ctx context.Context, user *models.User, now time.Time) (time.Time, error) {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	for i := 0; i < 60; i++ {
		if isWeekday(candidate) && !user.IsExcluded(candidate.Format("2006-01-02")) {
			holiday, err := s.holidays.IsHoliday(ctx, candidate)
			if err != nil {
				return time.Time{}, err
			}
			if !holiday {
				return candidate, nil
			}
		}
		candidate = candidate.AddDate(0, 0, 1)
	}
	return time.Time{}, errors.New("no service date within 60 days")
}

func (s *ReservationService) decryptPassword(user *models.User) (string, error) {
	key := cryptox.DeriveKey(s.masterPassword, user.Salt)
	plain, err := cryptox.DecryptSecret(user.CafeteriaPasswordEnc, user.CafeteriaPasswordNonce, key)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func (s *ReservationService) notify(ctx context.Context, user *models.User, attempt *models.ReservationAttempt) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendAttemptResult(ctx, user.Email, *attempt); err != nil {
		s.logger.Warn(ctx, "attempt notification failed", "user", user.UserID, "error", err.Error())
	}
}

func isWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func findMenu(menus []cafeteria.ReserveEntry, conerDvCd string) *cafeteria.ReserveEntry {
	for i := range menus {
		if menus[i].ConerDvCd == conerDvCd {
			return &menus[i]
		}
	}
	return nil
}

func findFloor(options []cafeteria.DeliveryOption, floorNm string) *cafeteria.DeliveryOption {
	for i := range options {
		if options[i].FloorNm == floorNm {
			return &options[i]
		}
	}
	if floorNm == "" && len(options) > 0 {
		return &options[0]
	}
	return nil
}

func buildOrder(menu cafeteria.ReserveEntry, option cafeteria.DeliveryOption, conerDvCd, prvdDt string) cafeteria.Order {
	mealDvCd := menu.MealDvCd
	if mealDvCd == "" {
		mealDvCd = "0002"
	}
	return cafeteria.Order{
		BizplcCd:        menu.BizplcCd,
		ConerDvCd:       conerDvCd,
		MealDvCd:        mealDvCd,
		PrvdDt:          prvdDt,
		Rownum:          option.Rownum,
		DlvrPlcFloorNo:  option.DlvrPlcFloorNo,
		AlphabetSeq:     option.AlphabetSeq,
		DlvrPlcFloorSeq: option.DlvrPlcFloorSeq,
		RemainDeliQty:   option.RemainDeliQty,
		DlvrPlcNm:       option.DlvrPlcNm,
		OrdQty:          1,
		TotalCount:      option.TotalCount,
		FloorNm:         option.FloorNm,
		MaxDelvQty:      option.MaxDelvQty,
		DlvrPlcSeq:      option.DlvrPlcSeq,
		DlvrRsvDvCd:     1,
		DsppUseYn:       "Y",
	}
}

// siteMessage prefers the site's own message text when the error is a
// cafeteria api error.
func siteMessage(err error) string {
	var siteErr *cafeteria.SiteError
	if errors.As(err, &siteErr) && siteErr.Message != "" {
		return siteErr.Message
	}
	return err.Error()
}
