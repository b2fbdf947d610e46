package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/wordrecall/internal/clock"
	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const notifyTimeout = 30 * time.Second

//go:generate mockgen -source=scheduler.go -destination=mock/notifier_mock.go

// Notifier delivers a reminder to the user
type Notifier interface {
	Notify(ctx context.Context, userProfileID string, date clock.Date, count int) error
}

// Scheduler keeps one tagged one-shot gocron job per reminder handle
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	hour      int
	now       func() time.Time
	log       *zap.Logger
}

// New creates a reminder scheduler that fires at hour:00 of each schedule
// date in loc
func New(notifier Notifier, loc *time.Location, hour int, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	s := gocron.NewScheduler(loc)
	s.TagsUnique()
	return &Scheduler{
		scheduler: s,
		notifier:  notifier,
		hour:      hour,
		now:       time.Now,
		log:       log,
	}
}

// Start begins running scheduled reminders
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled reminders
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Every registers a recurring maintenance job, e.g. re-arming reminders
func (s *Scheduler) Every(interval time.Duration, job func()) error {
	_, err := s.scheduler.Every(interval).WaitForSchedule().Do(job)
	return err
}

// Schedule replaces the reminder behind handle, or allocates a handle when
// it is empty. Reminders whose fire time has already passed are dropped
// rather than sent late.
func (s *Scheduler) Schedule(ctx context.Context, handle, userProfileID string, date clock.Date, count int) (string, error) {
	if handle == "" {
		handle = uuid.NewString()
	}
	if err := s.remove(handle); err != nil {
		return handle, err
	}

	fireAt := date.In(s.scheduler.Location(), s.hour)
	if !fireAt.After(s.now()) {
		s.log.Debug("reminder time passed, not scheduling",
			zap.String("handle", handle), zap.Time("fire_at", fireAt))
		return handle, nil
	}

	_, err := s.scheduler.Every(1).Day().StartAt(fireAt).LimitRunsTo(1).Tag(handle).
		Do(s.fire, handle, userProfileID, date, count)
	if err != nil {
		return handle, fmt.Errorf("failed to schedule reminder %s: %w", handle, err)
	}
	return handle, nil
}

// Cancel removes the reminder behind handle. Unknown handles are ignored.
func (s *Scheduler) Cancel(_ context.Context, handle string) error {
	return s.remove(handle)
}

// Pending reports whether a reminder is queued under handle
func (s *Scheduler) Pending(handle string) bool {
	jobs, err := s.scheduler.FindJobsByTag(handle)
	return err == nil && len(jobs) > 0
}

func (s *Scheduler) remove(handle string) error {
	err := s.scheduler.RemoveByTag(handle)
	if err != nil && !errors.Is(err, gocron.ErrJobNotFoundWithTag) {
		return fmt.Errorf("failed to remove reminder %s: %w", handle, err)
	}
	return nil
}

func (s *Scheduler) fire(handle, userProfileID string, date clock.Date, count int) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := s.notifier.Notify(ctx, userProfileID, date, count); err != nil {
		s.log.Error("failed to send reminder",
			zap.String("handle", handle),
			zap.String("user_profile_id", userProfileID),
			zap.Error(err))
		return
	}
	s.log.Info("reminder sent",
		zap.String("handle", handle),
		zap.Stringer("date", date),
		zap.Int("count", count))
}

// Deferred hands out handles without arming anything. Short-lived processes
// use it; the long-running process re-arms the stored handles.
type Deferred struct{}

func (Deferred) Schedule(_ context.Context, handle, _ string, _ clock.Date, _ int) (string, error) {
	if handle == "" {
		handle = uuid.NewString()
	}
	return handle, nil
}

func (Deferred) Cancel(context.Context, string) error { return nil }
