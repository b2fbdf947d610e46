package review

import (
	"context"
	"time"

	"github.com/example/wordrecall/internal/clock"
	"github.com/example/wordrecall/internal/database"
	"github.com/example/wordrecall/pkg/models"
)

// WordStore persists words
type WordStore interface {
	CreateWord(ctx context.Context, word *models.Word) error
	GetWord(ctx context.Context, id string) (*models.Word, error)
	FindWord(ctx context.Context, userProfileID, text string) (*models.Word, error)
	ListWords(ctx context.Context, userProfileID string) ([]models.Word, error)
	UpdateWordProgress(ctx context.Context, id string, interval int, easeFactor float64) error
	UpdateWordStatus(ctx context.Context, id string, status models.WordStatus) error
	DeleteWord(ctx context.Context, id string) error
}

// ScheduleStore persists review schedules. Counter methods must be atomic
// on the store side and fail with models.ErrCounterConflict when a guard misses.
type ScheduleStore interface {
	CreateSchedule(ctx context.Context, s *models.ReviewSchedule) error
	GetSchedule(ctx context.Context, id string) (*models.ReviewSchedule, error)
	GetScheduleByDate(ctx context.Context, userProfileID string, date clock.Date) (*models.ReviewSchedule, error)
	ListSchedulesBefore(ctx context.Context, userProfileID string, date clock.Date) ([]models.ReviewSchedule, error)
	ListSchedulesThrough(ctx context.Context, userProfileID string, date clock.Date) ([]models.ReviewSchedule, error)
	ListSchedules(ctx context.Context, userProfileID string) ([]models.ReviewSchedule, error)
	ListPendingSchedulesFrom(ctx context.Context, date clock.Date) ([]models.ReviewSchedule, error)
	AddPendingWord(ctx context.Context, id string) error
	MarkPendingReviewed(ctx context.Context, id string) error
	RemovePendingWord(ctx context.Context, id string) error
	SetScheduleCounts(ctx context.Context, id string, total, toReview, reviewed int) error
	SetNotificationID(ctx context.Context, id string, notificationID *string) error
	DeleteSchedule(ctx context.Context, id string) error
}

// ScheduleWordStore persists schedule words
type ScheduleWordStore interface {
	CreateScheduleWord(ctx context.Context, sw *models.ScheduleWord) error
	GetScheduleWord(ctx context.Context, id string) (*models.ScheduleWord, error)
	GetPendingScheduleWord(ctx context.Context, wordID string) (*models.ScheduleWord, error)
	ListScheduleWords(ctx context.Context, scheduleIDs []string, status models.ScheduleWordStatus) ([]models.ScheduleWord, error)
	MarkScheduleWordReviewed(ctx context.Context, id string, score *float64, answeredAt time.Time, answeredOn clock.Date) error
	DeleteScheduleWord(ctx context.Context, id string) error
	CountScheduleWords(ctx context.Context, scheduleID string) (database.StatusCounts, error)
	CountAnsweredOn(ctx context.Context, userProfileID string, date clock.Date) (int, error)
	ListScores(ctx context.Context, scheduleID string) ([]float64, error)
}

// Store is everything the service persists
type Store interface {
	WordStore
	ScheduleStore
	ScheduleWordStore
}

var _ Store = (*database.Repository)(nil)

// Reminder arranges one outstanding reminder per schedule. Scheduling with
// an existing handle replaces that reminder; an empty handle asks for a new one.
type Reminder interface {
	Schedule(ctx context.Context, handle, userProfileID string, date clock.Date, count int) (string, error)
	Cancel(ctx context.Context, handle string) error
}
