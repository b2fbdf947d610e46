package review

import (
	"context"
	"errors"
	"math"

	"github.com/example/wordrecall/internal/spaced_repetition"
	"github.com/example/wordrecall/pkg/models"
	"go.uber.org/zap"
)

// Answer is the user's response to one scheduled word
type Answer struct {
	ScheduleWordID string
	Recall         spaced_repetition.Recall
	// Score is an optional 0-100 result shown to the user
	Score *float64
}

func (a Answer) validate() error {
	if a.ScheduleWordID == "" {
		return invalid("schedule word id is required")
	}
	if !a.Recall.IsValid() {
		return invalid("unknown recall %d", int(a.Recall))
	}
	if a.Score != nil && (math.IsNaN(*a.Score) || *a.Score < 0 || *a.Score > 100) {
		return invalid("score %v outside 0-100", *a.Score)
	}
	return nil
}

// AnswerResult is the word's new spacing and its next scheduled review
type AnswerResult struct {
	Word   *models.Word
	Review spaced_repetition.Review
	Next   *models.ScheduleWord
}

// AnswerReview records the answer and re-enrols the word on its next due
// date. The steps run in order: schedule word status, schedule counters,
// word spacing, next schedule word.
func (s *Service) AnswerReview(ctx context.Context, a Answer) (*AnswerResult, error) {
	const op = "answer review"

	if err := a.validate(); err != nil {
		return nil, err
	}

	sw, err := s.store.GetScheduleWord(ctx, a.ScheduleWordID)
	if err != nil {
		return nil, stepErr(op, StepLoadScheduleWord, err)
	}
	switch sw.Status {
	case models.ToReview:
	case models.Reviewed:
		return nil, stepErr(op, StepAnswer, models.ErrAlreadyReviewed)
	}

	word, err := s.store.GetWord(ctx, sw.WordID)
	if err != nil {
		return nil, stepErr(op, StepLoadWord, err)
	}

	today := s.clock.Today()
	next, err := spaced_repetition.NextReview(spaced_repetition.ReviewInput{
		ReviewInterval: word.ReviewInterval,
		EaseFactor:     word.EaseFactor,
		Recall:         a.Recall,
	}, today)
	if err != nil {
		return nil, invalid("stored spacing of word %s: %v", word.ID, err)
	}

	if err := s.store.MarkScheduleWordReviewed(ctx, sw.ID, a.Score, s.clock.Now(), today); err != nil {
		return nil, stepErr(op, StepAnswer, err)
	}
	if err := s.store.MarkPendingReviewed(ctx, sw.ReviewScheduleID); err != nil {
		return nil, stepErr(op, StepCountSchedule, err)
	}
	if err := s.store.UpdateWordProgress(ctx, word.ID, next.ReviewInterval, next.EaseFactor); err != nil {
		return nil, stepErr(op, StepUpdateWord, err)
	}
	word.ReviewInterval, word.EaseFactor = next.ReviewInterval, next.EaseFactor

	s.refreshReminder(ctx, sw.ReviewScheduleID)

	nextSW, err := s.ScheduleWord(ctx, word.UserProfileID, word.ID, next.NextDue)
	if err != nil {
		return nil, stepErr(op, StepReschedule, err)
	}

	s.log.Info("review answered",
		zap.String("schedule_word_id", sw.ID),
		zap.String("word_id", word.ID),
		zap.Stringer("recall", a.Recall),
		zap.Int("interval", next.ReviewInterval),
		zap.Float64("ease_factor", next.EaseFactor),
		zap.Stringer("next_due", next.NextDue))

	return &AnswerResult{Word: word, Review: next, Next: nextSW}, nil
}

// UncollectWord removes a word from the user's collection together with its
// pending schedule word. The last word on a schedule takes the schedule and
// its reminder with it. Missing bookkeeping aborts before anything is deleted.
func (s *Service) UncollectWord(ctx context.Context, wordID string) error {
	const op = "uncollect word"

	if wordID == "" {
		return invalid("word id is required")
	}

	if _, err := s.store.GetWord(ctx, wordID); err != nil {
		return stepErr(op, StepLoadWord, err)
	}
	sw, err := s.store.GetPendingScheduleWord(ctx, wordID)
	if err != nil {
		return stepErr(op, StepLoadScheduleWord, err)
	}
	schedule, err := s.store.GetSchedule(ctx, sw.ReviewScheduleID)
	if err != nil {
		return stepErr(op, StepResolveSchedule, err)
	}

	if schedule.TotalWords == 1 {
		if schedule.HasNotification() {
			if err := s.reminder.Cancel(ctx, *schedule.NotificationID); err != nil {
				s.log.Warn("failed to cancel reminder",
					zap.String("schedule_id", schedule.ID), zap.Error(err))
			}
		}
		if err := s.store.DeleteScheduleWord(ctx, sw.ID); err != nil {
			return stepErr(op, StepDeleteScheduleWord, err)
		}
		if err := s.store.DeleteSchedule(ctx, schedule.ID); err != nil {
			return stepErr(op, StepDeleteSchedule, err)
		}
	} else {
		if err := s.store.DeleteScheduleWord(ctx, sw.ID); err != nil {
			return stepErr(op, StepDeleteScheduleWord, err)
		}
		if err := s.store.RemovePendingWord(ctx, schedule.ID); err != nil {
			return stepErr(op, StepCountSchedule, err)
		}
		if schedule.HasNotification() {
			s.refreshReminder(ctx, schedule.ID)
		}
	}

	if err := s.store.DeleteWord(ctx, wordID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return stepErr(op, StepDeleteWord, err)
	}

	s.log.Info("word uncollected",
		zap.String("word_id", wordID),
		zap.String("schedule_id", schedule.ID))
	return nil
}
