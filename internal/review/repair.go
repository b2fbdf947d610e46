package review

import (
	"context"
	"errors"

	"github.com/example/wordrecall/pkg/models"
	"go.uber.org/zap"
)

// RepairSchedule recomputes a schedule's counters from its schedule word
// rows. It is idempotent and reports whether anything had to change.
func (s *Service) RepairSchedule(ctx context.Context, scheduleID string) (*models.ReviewSchedule, bool, error) {
	const op = "repair schedule"

	schedule, err := s.store.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, false, stepErr(op, StepResolveSchedule, err)
	}
	counts, err := s.store.CountScheduleWords(ctx, scheduleID)
	if err != nil {
		return nil, false, stepErr(op, StepListScheduleWords, err)
	}

	if schedule.TotalWords == counts.Total() &&
		schedule.ToBeReviewedCount == counts.ToReview &&
		schedule.ReviewedCount == counts.Reviewed {
		return schedule, false, nil
	}

	s.log.Warn("schedule counters out of balance",
		zap.String("schedule_id", schedule.ID),
		zap.Int("total_words", schedule.TotalWords),
		zap.Int("to_be_reviewed_count", schedule.ToBeReviewedCount),
		zap.Int("reviewed_count", schedule.ReviewedCount),
		zap.Int("actual_to_review", counts.ToReview),
		zap.Int("actual_reviewed", counts.Reviewed))

	if err := s.store.SetScheduleCounts(ctx, scheduleID, counts.Total(), counts.ToReview, counts.Reviewed); err != nil {
		return nil, false, stepErr(op, StepRepair, err)
	}
	schedule.TotalWords = counts.Total()
	schedule.ToBeReviewedCount = counts.ToReview
	schedule.ReviewedCount = counts.Reviewed

	s.syncReminder(ctx, schedule)
	return schedule, true, nil
}

// RepairUser repairs every schedule of the user, then puts words that lost
// their pending schedule word back on today's schedule. It returns the
// number of schedules and words it had to change.
func (s *Service) RepairUser(ctx context.Context, userProfileID string) (int, error) {
	const op = "repair user"

	if userProfileID == "" {
		return 0, invalid("user profile id is required")
	}

	schedules, err := s.store.ListSchedules(ctx, userProfileID)
	if err != nil {
		return 0, stepErr(op, StepListSchedules, err)
	}

	repaired := 0
	for _, sch := range schedules {
		_, changed, err := s.RepairSchedule(ctx, sch.ID)
		if err != nil {
			return repaired, err
		}
		if changed {
			repaired++
		}
	}

	words, err := s.store.ListWords(ctx, userProfileID)
	if err != nil {
		return repaired, stepErr(op, StepListWords, err)
	}
	today := s.clock.Today()
	for _, w := range words {
		_, err := s.store.GetPendingScheduleWord(ctx, w.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrNotFound) {
			return repaired, stepErr(op, StepLoadScheduleWord, err)
		}
		if _, err := s.ScheduleWord(ctx, userProfileID, w.ID, today); err != nil {
			return repaired, err
		}
		s.log.Warn("word re-enrolled",
			zap.String("user_profile_id", userProfileID),
			zap.String("word_id", w.ID))
		repaired++
	}
	return repaired, nil
}

// RearmReminders re-issues the reminders of every schedule from today on
// that still has pending words. In-process timers do not survive a restart,
// so the long-running process calls this on start and periodically after.
func (s *Service) RearmReminders(ctx context.Context) (int, error) {
	schedules, err := s.store.ListPendingSchedulesFrom(ctx, s.clock.Today())
	if err != nil {
		return 0, stepErr("rearm reminders", StepListSchedules, err)
	}

	for i := range schedules {
		s.syncReminder(ctx, &schedules[i])
	}
	s.log.Debug("reminders rearmed", zap.Int("schedules", len(schedules)))
	return len(schedules), nil
}
