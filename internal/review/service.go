package review

import (
	"context"
	"errors"
	"strings"

	"github.com/example/wordrecall/internal/clock"
	"github.com/example/wordrecall/internal/spaced_repetition"
	"github.com/example/wordrecall/pkg/models"
	"go.uber.org/zap"
)

// Service runs the schedule and word lifecycle on top of a Store
type Service struct {
	store    Store
	reminder Reminder
	clock    clock.Clock
	log      *zap.Logger
}

// NewService wires the collaborators. A nil logger discards output.
func NewService(store Store, reminder Reminder, clk clock.Clock, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		reminder: reminder,
		clock:    clk,
		log:      log,
	}
}

// NewWord is a word the user wants to collect
type NewWord struct {
	UserProfileID string
	Word          string
	Definition    string
}

// CollectWord saves a new word with default spacing and schedules it for today
func (s *Service) CollectWord(ctx context.Context, in NewWord) (*models.Word, *models.ScheduleWord, error) {
	const op = "collect word"

	text := strings.TrimSpace(in.Word)
	if in.UserProfileID == "" {
		return nil, nil, invalid("user profile id is required")
	}
	if text == "" {
		return nil, nil, invalid("word is required")
	}

	existing, err := s.store.FindWord(ctx, in.UserProfileID, text)
	switch {
	case err == nil:
		return s.reenrol(ctx, op, existing)
	case !errors.Is(err, models.ErrNotFound):
		return nil, nil, stepErr(op, StepLoadWord, err)
	}

	word := &models.Word{
		UserProfileID:  in.UserProfileID,
		Word:           text,
		Definition:     in.Definition,
		ReviewInterval: spaced_repetition.DefaultInterval,
		EaseFactor:     spaced_repetition.DefaultEaseFactor,
		Status:         models.WordCollected,
	}
	if err := s.store.CreateWord(ctx, word); err != nil {
		return nil, nil, stepErr(op, StepCreateWord, err)
	}

	sw, err := s.ScheduleWord(ctx, word.UserProfileID, word.ID, s.clock.Today())
	if err != nil {
		return word, nil, err
	}

	s.log.Info("word collected",
		zap.String("user_profile_id", word.UserProfileID),
		zap.String("word_id", word.ID),
		zap.String("word", word.Word))
	return word, sw, nil
}

// reenrol handles a word that is already collected. A word with a pending
// schedule word is a duplicate; one without lost its enrolment to an earlier
// failure and is scheduled for today again.
func (s *Service) reenrol(ctx context.Context, op string, word *models.Word) (*models.Word, *models.ScheduleWord, error) {
	_, err := s.store.GetPendingScheduleWord(ctx, word.ID)
	switch {
	case err == nil:
		return nil, nil, stepErr(op, StepCreateWord, models.ErrDuplicate)
	case !errors.Is(err, models.ErrNotFound):
		return nil, nil, stepErr(op, StepLoadScheduleWord, err)
	}

	sw, err := s.ScheduleWord(ctx, word.UserProfileID, word.ID, s.clock.Today())
	if err != nil {
		return word, nil, err
	}
	s.log.Warn("word re-enrolled",
		zap.String("user_profile_id", word.UserProfileID),
		zap.String("word_id", word.ID),
		zap.String("word", word.Word))
	return word, sw, nil
}

// ScheduleWord puts a word on the user's schedule for date, creating the
// schedule if needed, and sizes the schedule's reminder to its pending count.
func (s *Service) ScheduleWord(ctx context.Context, userProfileID, wordID string, date clock.Date) (*models.ScheduleWord, error) {
	const op = "schedule word"

	if userProfileID == "" || wordID == "" {
		return nil, invalid("user profile id and word id are required")
	}
	if date.IsZero() {
		return nil, invalid("schedule date is required")
	}
	if !date.Valid() {
		return nil, invalid("schedule date %s out of range", date)
	}

	schedule, created, err := s.resolveSchedule(ctx, userProfileID, date)
	if err != nil {
		return nil, stepErr(op, StepResolveSchedule, err)
	}

	sw := &models.ScheduleWord{
		ReviewScheduleID: schedule.ID,
		WordID:           wordID,
		Status:           models.ToReview,
	}
	if err := s.store.CreateScheduleWord(ctx, sw); err != nil {
		if created {
			s.dropEmptySchedule(ctx, schedule)
		}
		return nil, stepErr(op, StepCreateScheduleWord, err)
	}

	if err := s.store.AddPendingWord(ctx, schedule.ID); err != nil {
		return sw, stepErr(op, StepCountSchedule, err)
	}

	s.refreshReminder(ctx, schedule.ID)
	return sw, nil
}

// resolveSchedule returns the user's schedule for date, creating it when
// missing. A concurrent creator wins through the unique key and we re-read.
func (s *Service) resolveSchedule(ctx context.Context, userProfileID string, date clock.Date) (*models.ReviewSchedule, bool, error) {
	schedule, err := s.store.GetScheduleByDate(ctx, userProfileID, date)
	if err == nil {
		return schedule, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, err
	}

	schedule = &models.ReviewSchedule{
		UserProfileID: userProfileID,
		ScheduleDate:  date,
	}
	err = s.store.CreateSchedule(ctx, schedule)
	if errors.Is(err, models.ErrDuplicate) {
		existing, err := s.store.GetScheduleByDate(ctx, userProfileID, date)
		return existing, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return schedule, true, nil
}

func (s *Service) dropEmptySchedule(ctx context.Context, schedule *models.ReviewSchedule) {
	if err := s.store.DeleteSchedule(ctx, schedule.ID); err != nil {
		s.log.Warn("failed to drop empty schedule",
			zap.String("schedule_id", schedule.ID), zap.Error(err))
	}
}

// refreshReminder re-reads the schedule and brings its reminder in line.
// Failures are logged only: bookkeeping never depends on reminder delivery.
func (s *Service) refreshReminder(ctx context.Context, scheduleID string) {
	schedule, err := s.store.GetSchedule(ctx, scheduleID)
	if err != nil {
		s.log.Warn("failed to reload schedule for reminder",
			zap.String("schedule_id", scheduleID), zap.Error(err))
		return
	}
	s.syncReminder(ctx, schedule)
}

func (s *Service) syncReminder(ctx context.Context, schedule *models.ReviewSchedule) {
	log := s.log.With(
		zap.String("schedule_id", schedule.ID),
		zap.Stringer("schedule_date", schedule.ScheduleDate))

	var handle string
	if schedule.HasNotification() {
		handle = *schedule.NotificationID
	}

	if schedule.ToBeReviewedCount == 0 {
		if handle == "" {
			return
		}
		if err := s.reminder.Cancel(ctx, handle); err != nil {
			log.Warn("failed to cancel reminder", zap.Error(err))
			return
		}
		if err := s.store.SetNotificationID(ctx, schedule.ID, nil); err != nil {
			log.Warn("failed to clear reminder handle", zap.Error(err))
		}
		return
	}

	next, err := s.reminder.Schedule(ctx, handle, schedule.UserProfileID, schedule.ScheduleDate, schedule.ToBeReviewedCount)
	if err != nil {
		log.Warn("failed to schedule reminder", zap.Error(err))
		return
	}
	if next == handle {
		return
	}
	if err := s.store.SetNotificationID(ctx, schedule.ID, &next); err != nil {
		log.Warn("failed to store reminder handle", zap.String("handle", next), zap.Error(err))
	}
}
