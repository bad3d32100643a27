// Package scheduler triggers the daily reservation run for every account
// with auto-reservation enabled.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jaehyuklim/lunchpilot/internal/logging"
	"github.com/jaehyuklim/lunchpilot/internal/server/models"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/repomanager"
	"github.com/jaehyuklim/lunchpilot/internal/server/services"
)

// ReservationRunner runs one reservation attempt for one user.
type ReservationRunner interface {
	Run(ctx context.Context, userID string, serviceDate *time.Time) (*models.ReservationAttempt, error)
}

type Scheduler struct {
	repo     repomanager.RepositoryManager
	runner   ReservationRunner
	holidays services.HolidayChecker
	hour     int
	minute   int
	location *time.Location
	logger   logging.Logger
}

// New builds a scheduler firing daily at the given local wall time
// ("HH:MM").
func New(repo repomanager.RepositoryManager, runner ReservationRunner, holidays services.HolidayChecker, at string, location *time.Location, logger logging.Logger) (*Scheduler, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(at, "%d:%d", &hour, &minute); err != nil {
		return nil, fmt.Errorf("invalid schedule time %q: %w", at, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("invalid schedule time %q", at)
	}
	return &Scheduler{
		repo:     repo,
		runner:   runner,
		holidays: holidays,
		hour:     hour,
		minute:   minute,
		location: location,
		logger:   logger,
	}, nil
}

// Run blocks until the context is cancelled, firing RunAll at the
// configured wall time every day.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info(ctx, "scheduler started",
		"at", fmt.Sprintf("%02d:%02d", s.hour, s.minute), "tz", s.location.String())

	for {
		wait := time.Until(s.nextFire(time.Now().In(s.location)))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info(ctx, "scheduler stopped")
			return
		case <-timer.C:
			s.RunAll(ctx)
		}
	}
}

// RunAll executes one reservation attempt per enabled user. The whole run
// is skipped on weekends and public holidays; individual failures are
// logged and do not stop the run.
func (s *Scheduler) RunAll(ctx context.Context) {
	now := time.Now().In(s.location)
	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		s.logger.Info(ctx, "skipping run on weekend")
		return
	}
	if holiday, err := s.holidays.IsHoliday(ctx, now); err != nil {
		s.logger.Warn(ctx, "holiday check failed, continuing run", "error", err.Error())
	} else if holiday {
		s.logger.Info(ctx, "skipping run on public holiday")
		return
	}

	users, err := s.repo.Users().List(ctx)
	if err != nil {
		s.logger.Error(ctx, "user listing failed", "error", err.Error())
		return
	}

	for _, user := range users {
		if !user.AutoReservationEnabled {
			continue
		}
		attempt, err := s.runner.Run(ctx, user.UserID, nil)
		if err != nil {
			s.logger.Error(ctx, "reservation run failed", "user", user.UserID, "error", err.Error())
			continue
		}
		s.logger.Info(ctx, "reservation run finished",
			"user", user.UserID,
			"success", attempt.Success,
			"date", attempt.TargetDate.Format("2006-01-02"),
			"message", attempt.Message)
	}
}

// nextFire returns the next occurrence of the configured wall time after
// now.
func (s *Scheduler) nextFire(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
