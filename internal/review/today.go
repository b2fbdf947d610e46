package review

import (
	"context"
	"errors"

	"github.com/example/wordrecall/internal/clock"
	"github.com/example/wordrecall/internal/spaced_repetition"
	"github.com/example/wordrecall/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TodayActiveSet returns the words to review now: pending words from days
// before today (past due) followed by today's pending words. Today's
// schedule is only read here, never created.
func (s *Service) TodayActiveSet(ctx context.Context, userProfileID string) ([]models.ActiveScheduleWord, error) {
	const op = "today active set"

	if userProfileID == "" {
		return nil, invalid("user profile id is required")
	}
	today := s.clock.Today()

	var pastDue, current []models.ActiveScheduleWord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		schedules, err := s.store.ListSchedulesBefore(gctx, userProfileID, today)
		if err != nil {
			return stepErr(op, StepListSchedules, err)
		}
		pastDue, err = s.pendingWords(gctx, schedules, true)
		if err != nil {
			return stepErr(op, StepListScheduleWords, err)
		}
		return nil
	})
	g.Go(func() error {
		schedule, err := s.store.GetScheduleByDate(gctx, userProfileID, today)
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		if err != nil {
			return stepErr(op, StepListSchedules, err)
		}
		current, err = s.pendingWords(gctx, []models.ReviewSchedule{*schedule}, false)
		if err != nil {
			return stepErr(op, StepListScheduleWords, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return append(pastDue, current...), nil
}

func (s *Service) pendingWords(ctx context.Context, schedules []models.ReviewSchedule, pastDue bool) ([]models.ActiveScheduleWord, error) {
	if len(schedules) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(schedules))
	dates := make(map[string]clock.Date, len(schedules))
	for _, sch := range schedules {
		ids = append(ids, sch.ID)
		dates[sch.ID] = sch.ScheduleDate
	}

	words, err := s.store.ListScheduleWords(ctx, ids, models.ToReview)
	if err != nil {
		return nil, err
	}

	active := make([]models.ActiveScheduleWord, 0, len(words))
	for _, w := range words {
		active = append(active, models.ActiveScheduleWord{
			ScheduleWord: w,
			ScheduleDate: dates[w.ReviewScheduleID],
			IfPastDue:    pastDue,
		})
	}
	return active, nil
}

// HomeState is the call to action shown on the home screen
type HomeState string

const (
	ReviewBegin      HomeState = "review_begin"
	ReviewInProgress HomeState = "review_in_progress"
	ViewProgress     HomeState = "view_progress"
)

// HomeStatus summarises today's review queue
type HomeStatus struct {
	State         HomeState
	Remaining     int
	PastDue       int
	AnsweredToday int
}

// HomeStatus derives the home-screen state. Answered reviews are counted
// from their answer date, since the active set only holds pending words.
func (s *Service) HomeStatus(ctx context.Context, userProfileID string) (HomeStatus, error) {
	active, err := s.TodayActiveSet(ctx, userProfileID)
	if err != nil {
		return HomeStatus{}, err
	}
	answered, err := s.store.CountAnsweredOn(ctx, userProfileID, s.clock.Today())
	if err != nil {
		return HomeStatus{}, stepErr("home status", StepListScheduleWords, err)
	}

	status := HomeStatus{Remaining: len(active), AnsweredToday: answered}
	for _, w := range active {
		if w.IfPastDue {
			status.PastDue++
		}
	}

	switch {
	case status.Remaining > 0 && answered == 0:
		status.State = ReviewBegin
	case status.Remaining > 0:
		status.State = ReviewInProgress
	default:
		status.State = ViewProgress
	}
	return status, nil
}

// Streak returns the user's run of fully reviewed days ending today
func (s *Service) Streak(ctx context.Context, userProfileID string) (int, error) {
	if userProfileID == "" {
		return 0, invalid("user profile id is required")
	}
	today := s.clock.Today()

	schedules, err := s.store.ListSchedulesThrough(ctx, userProfileID, today)
	if err != nil {
		return 0, stepErr("streak", StepListSchedules, err)
	}

	summaries := make([]spaced_repetition.ScheduleSummary, 0, len(schedules))
	for _, sch := range schedules {
		summaries = append(summaries, spaced_repetition.ScheduleSummary{
			ScheduleDate:  sch.ScheduleDate,
			TotalWords:    sch.TotalWords,
			ReviewedCount: sch.ReviewedCount,
		})
	}
	return spaced_repetition.CalculateStreak(summaries, today), nil
}

// DailyReport is one day's progress
type DailyReport struct {
	Date          clock.Date
	TotalWords    int
	ReviewedCount int
	CompletionPct float64
	AccuracyPct   float64
	Score         int
}

// DailyReport combines completion and answer accuracy for a date into a score
func (s *Service) DailyReport(ctx context.Context, userProfileID string, date clock.Date) (DailyReport, error) {
	const op = "daily report"

	if userProfileID == "" {
		return DailyReport{}, invalid("user profile id is required")
	}
	report := DailyReport{Date: date}

	schedule, err := s.store.GetScheduleByDate(ctx, userProfileID, date)
	if errors.Is(err, models.ErrNotFound) {
		return report, nil
	}
	if err != nil {
		return DailyReport{}, stepErr(op, StepListSchedules, err)
	}

	if err := schedule.CheckCounts(); err != nil {
		s.log.Warn("report on unbalanced schedule, run repair", zap.Error(err))
	}

	scores, err := s.store.ListScores(ctx, schedule.ID)
	if err != nil {
		return DailyReport{}, stepErr(op, StepListScheduleWords, err)
	}

	report.TotalWords = schedule.TotalWords
	report.ReviewedCount = schedule.ReviewedCount
	if schedule.TotalWords > 0 {
		report.CompletionPct = 100 * float64(schedule.ReviewedCount) / float64(schedule.TotalWords)
	}
	report.AccuracyPct = spaced_repetition.Accuracy(scores)
	report.Score = spaced_repetition.ScoreGeo(report.CompletionPct, report.AccuracyPct, spaced_repetition.DefaultAccuracyWeight)
	return report, nil
}
