// Package jobs runs the storefront's background work.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Harikrish-25/period-care/internal/cache"
	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/shop"
)

// lockTTL outlives one day so a replica that restarts after the scan still
// sees the day as taken.
const lockTTL = 26 * time.Hour

type ReminderRunner interface {
	Scan(ctx context.Context) (shop.ScanResult, error)
	Cleanup(ctx context.Context, retentionDays int) (int, error)
}

type Options struct {
	Hour, Minute  int
	Location      *time.Location
	RetentionDays int
}

// Scheduler runs the reminder scan once a day at a fixed local time, then
// prunes old completed reminders.
type Scheduler struct {
	runner ReminderRunner
	locker cache.Locker
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

func NewScheduler(runner ReminderRunner, locker cache.Locker, opts Options, logger *slog.Logger) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if locker == nil {
		locker = cache.NewMemory()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{runner: runner, locker: locker, opts: opts, logger: logger, now: time.Now}
}

// NextRun returns the first hour:minute in loc strictly after now.
func NextRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	t := now.In(loc)
	next := time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, loc)
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("Reminder scheduler started", "at", fmt.Sprintf("%02d:%02d", s.opts.Hour, s.opts.Minute), "tz", s.opts.Location.String())
	for {
		next := NextRun(s.now(), s.opts.Hour, s.opts.Minute, s.opts.Location)
		s.logger.Debug("Next reminder scan scheduled", "at", next)
		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Reminder scheduler stopped")
			return nil
		case <-timer.C:
		}
		if _, err := s.RunOnce(ctx, next); err != nil {
			s.logger.Error("Reminder scan failed", "error", err)
		}
	}
}

// RunOnce runs the scan for the day of at unless that day is already taken
// by another run. It reports whether the scan ran.
func (s *Scheduler) RunOnce(ctx context.Context, at time.Time) (bool, error) {
	day := models.DateOf(at.In(s.opts.Location))
	ok, err := s.locker.Acquire(ctx, "reminders:"+day.String(), lockTTL)
	if err != nil {
		return false, fmt.Errorf("acquire reminder lock: %w", err)
	}
	if !ok {
		s.logger.Info("Reminder scan already ran today", "day", day)
		return false, nil
	}

	res, err := s.runner.Scan(ctx)
	if err != nil {
		return true, err
	}
	s.logger.Info("Daily reminder scan complete", "day", day, "users_found", res.UsersFound, "reminders_sent", res.RemindersSent)

	if s.opts.RetentionDays > 0 {
		if _, err := s.runner.Cleanup(ctx, s.opts.RetentionDays); err != nil {
			s.logger.Error("Reminder cleanup failed", "error", err)
		}
	}
	return true, nil
}
