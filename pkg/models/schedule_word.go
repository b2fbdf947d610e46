package models

import (
	"fmt"
	"time"

	"github.com/example/wordrecall/internal/clock"
)

// ScheduleWordStatus is the review state of one scheduled word
type ScheduleWordStatus string

const (
	ToReview ScheduleWordStatus = "TO_REVIEW"
	Reviewed ScheduleWordStatus = "REVIEWED"
)

// IsValid reports whether s is a known schedule word status
func (s ScheduleWordStatus) IsValid() bool {
	switch s {
	case ToReview, Reviewed:
		return true
	}
	return false
}

// Scan implements sql.Scanner and rejects unknown statuses
func (s *ScheduleWordStatus) Scan(src interface{}) error {
	v, err := scanString(src)
	if err != nil {
		return err
	}
	status := ScheduleWordStatus(v)
	if !status.IsValid() {
		return fmt.Errorf("unknown schedule word status %q", v)
	}
	*s = status
	return nil
}

// ScheduleWord places one word on one ReviewSchedule
type ScheduleWord struct {
	ID               string             `json:"id" db:"id"`
	ReviewScheduleID string             `json:"review_schedule_id" db:"review_schedule_id"`
	WordID           string             `json:"word_id" db:"word_id"`
	Status           ScheduleWordStatus `json:"status" db:"status"`
	Score            *float64           `json:"score,omitempty" db:"score"`
	AnsweredAt       *time.Time         `json:"answered_at,omitempty" db:"answered_at"`
	AnsweredOn       *clock.Date        `json:"answered_on,omitempty" db:"answered_on"` // local date of AnsweredAt
	CreatedAt        time.Time          `json:"created_at" db:"created_at"`
}

// ActiveScheduleWord is a pending word in today's review queue
type ActiveScheduleWord struct {
	ScheduleWord
	ScheduleDate clock.Date `json:"schedule_date" db:"schedule_date"`
	IfPastDue    bool       `json:"if_past_due"`
}
