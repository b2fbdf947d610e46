package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/wordrecall/internal/clock"
	"github.com/example/wordrecall/pkg/models"
	"github.com/google/uuid"
)

const scheduleColumns = `id, user_profile_id, schedule_date, total_words, to_be_reviewed_count,
	reviewed_count, notification_id, created_at, updated_at`

// ScheduleRepository handles database operations for review schedules.
// Counter changes are single UPDATE statements so concurrent writers never
// lose increments; guards in the WHERE clause keep counters from going negative.
type ScheduleRepository struct {
	db Queryer
}

// NewScheduleRepository creates a new repository instance
func NewScheduleRepository(db Queryer) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// CreateSchedule inserts a new schedule. A schedule for the same user and
// date that already exists yields models.ErrDuplicate.
func (r *ScheduleRepository) CreateSchedule(ctx context.Context, s *models.ReviewSchedule) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now

	query := `
		INSERT INTO review_schedules (` + scheduleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		s.ID,
		s.UserProfileID,
		s.ScheduleDate,
		s.TotalWords,
		s.ToBeReviewedCount,
		s.ReviewedCount,
		s.NotificationID,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("schedule %s for %s: %w", s.ScheduleDate, s.UserProfileID, models.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

// GetSchedule returns a schedule by id
func (r *ScheduleRepository) GetSchedule(ctx context.Context, id string) (*models.ReviewSchedule, error) {
	var s models.ReviewSchedule
	err := getOne(ctx, r.db, &s, "schedule "+id,
		`SELECT `+scheduleColumns+` FROM review_schedules WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetScheduleByDate returns the user's schedule for a date
func (r *ScheduleRepository) GetScheduleByDate(ctx context.Context, userProfileID string, date clock.Date) (*models.ReviewSchedule, error) {
	var s models.ReviewSchedule
	err := getOne(ctx, r.db, &s, "schedule "+date.String(),
		`SELECT `+scheduleColumns+` FROM review_schedules WHERE user_profile_id = ? AND schedule_date = ?`,
		userProfileID, date)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleRepository) selectSchedules(ctx context.Context, where, order string, args ...interface{}) ([]models.ReviewSchedule, error) {
	var schedules []models.ReviewSchedule
	query := `SELECT ` + scheduleColumns + ` FROM review_schedules WHERE ` + where + ` ORDER BY ` + order
	if err := r.db.SelectContext(ctx, &schedules, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// ListSchedulesBefore returns the user's schedules dated strictly before date
func (r *ScheduleRepository) ListSchedulesBefore(ctx context.Context, userProfileID string, date clock.Date) ([]models.ReviewSchedule, error) {
	return r.selectSchedules(ctx, `user_profile_id = ? AND schedule_date < ?`, `schedule_date`, userProfileID, date)
}

// ListSchedulesThrough returns the user's schedules up to and including date, newest first
func (r *ScheduleRepository) ListSchedulesThrough(ctx context.Context, userProfileID string, date clock.Date) ([]models.ReviewSchedule, error) {
	return r.selectSchedules(ctx, `user_profile_id = ? AND schedule_date <= ?`, `schedule_date DESC`, userProfileID, date)
}

// ListSchedules returns all of the user's schedules, oldest first
func (r *ScheduleRepository) ListSchedules(ctx context.Context, userProfileID string) ([]models.ReviewSchedule, error) {
	return r.selectSchedules(ctx, `user_profile_id = ?`, `schedule_date`, userProfileID)
}

// ListPendingSchedulesFrom returns every user's schedules dated on or after
// date that still have words to review
func (r *ScheduleRepository) ListPendingSchedulesFrom(ctx context.Context, date clock.Date) ([]models.ReviewSchedule, error) {
	return r.selectSchedules(ctx, `schedule_date >= ? AND to_be_reviewed_count > 0`, `schedule_date, user_profile_id`, date)
}

// AddPendingWord counts one more word to review on the schedule
func (r *ScheduleRepository) AddPendingWord(ctx context.Context, id string) error {
	return execOne(ctx, r.db, models.ErrNotFound, "add word to schedule "+id, `
		UPDATE review_schedules SET
			total_words = total_words + 1,
			to_be_reviewed_count = to_be_reviewed_count + 1,
			updated_at = ?
		WHERE id = ?
	`, time.Now().UTC(), id)
}

// MarkPendingReviewed moves one word from pending to reviewed
func (r *ScheduleRepository) MarkPendingReviewed(ctx context.Context, id string) error {
	return execOne(ctx, r.db, models.ErrCounterConflict, "mark schedule word reviewed on "+id, `
		UPDATE review_schedules SET
			to_be_reviewed_count = to_be_reviewed_count - 1,
			reviewed_count = reviewed_count + 1,
			updated_at = ?
		WHERE id = ? AND to_be_reviewed_count > 0
	`, time.Now().UTC(), id)
}

// RemovePendingWord drops one pending word from the schedule
func (r *ScheduleRepository) RemovePendingWord(ctx context.Context, id string) error {
	return execOne(ctx, r.db, models.ErrCounterConflict, "remove word from schedule "+id, `
		UPDATE review_schedules SET
			total_words = total_words - 1,
			to_be_reviewed_count = to_be_reviewed_count - 1,
			updated_at = ?
		WHERE id = ? AND to_be_reviewed_count > 0 AND total_words > 0
	`, time.Now().UTC(), id)
}

// SetScheduleCounts overwrites the counters, used when repairing a schedule
func (r *ScheduleRepository) SetScheduleCounts(ctx context.Context, id string, total, toReview, reviewed int) error {
	return execOne(ctx, r.db, models.ErrNotFound, "set counts on schedule "+id, `
		UPDATE review_schedules SET
			total_words = ?,
			to_be_reviewed_count = ?,
			reviewed_count = ?,
			updated_at = ?
		WHERE id = ?
	`, total, toReview, reviewed, time.Now().UTC(), id)
}

// SetNotificationID attaches (or with nil, clears) the reminder handle
func (r *ScheduleRepository) SetNotificationID(ctx context.Context, id string, notificationID *string) error {
	return execOne(ctx, r.db, models.ErrNotFound, "set notification on schedule "+id,
		`UPDATE review_schedules SET notification_id = ?, updated_at = ? WHERE id = ?`,
		notificationID, time.Now().UTC(), id)
}

// DeleteSchedule removes a schedule
func (r *ScheduleRepository) DeleteSchedule(ctx context.Context, id string) error {
	return execOne(ctx, r.db, models.ErrNotFound, "delete schedule "+id,
		`DELETE FROM review_schedules WHERE id = ?`, id)
}
