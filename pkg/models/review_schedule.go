package models

import (
	"fmt"
	"time"

	"github.com/example/wordrecall/internal/clock"
)

// ReviewSchedule aggregates the words due for one user on one local date
type ReviewSchedule struct {
	ID                string     `json:"id" db:"id"`
	UserProfileID     string     `json:"user_profile_id" db:"user_profile_id"`
	ScheduleDate      clock.Date `json:"schedule_date" db:"schedule_date"`
	TotalWords        int        `json:"total_words" db:"total_words"`
	ToBeReviewedCount int        `json:"to_be_reviewed_count" db:"to_be_reviewed_count"`
	ReviewedCount     int        `json:"reviewed_count" db:"reviewed_count"`
	NotificationID    *string    `json:"notification_id,omitempty" db:"notification_id"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// CheckCounts verifies that the pending and reviewed counters add up to the total
func (s *ReviewSchedule) CheckCounts() error {
	if s.TotalWords < 0 || s.ToBeReviewedCount < 0 || s.ReviewedCount < 0 {
		return fmt.Errorf("%w: schedule %s has negative counters (%d/%d/%d)",
			ErrCountMismatch, s.ID, s.TotalWords, s.ToBeReviewedCount, s.ReviewedCount)
	}
	if s.ToBeReviewedCount+s.ReviewedCount != s.TotalWords {
		return fmt.Errorf("%w: schedule %s has %d pending + %d reviewed != %d total",
			ErrCountMismatch, s.ID, s.ToBeReviewedCount, s.ReviewedCount, s.TotalWords)
	}
	return nil
}

// HasNotification reports whether a reminder handle is attached
func (s *ReviewSchedule) HasNotification() bool {
	return s.NotificationID != nil && *s.NotificationID != ""
}
