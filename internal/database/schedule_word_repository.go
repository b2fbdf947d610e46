package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/wordrecall/internal/clock"
	"github.com/example/wordrecall/pkg/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const scheduleWordColumns = `id, review_schedule_id, word_id, status, score, answered_at, answered_on, created_at`

// ScheduleWordRepository handles database operations for schedule words
type ScheduleWordRepository struct {
	db Queryer
}

// NewScheduleWordRepository creates a new repository instance
func NewScheduleWordRepository(db Queryer) *ScheduleWordRepository {
	return &ScheduleWordRepository{db: db}
}

// CreateScheduleWord inserts a schedule word. A second pending row for the
// same word violates the partial unique index and yields models.ErrAlreadyScheduled.
func (r *ScheduleWordRepository) CreateScheduleWord(ctx context.Context, sw *models.ScheduleWord) error {
	if sw.ID == "" {
		sw.ID = uuid.NewString()
	}
	if sw.Status == "" {
		sw.Status = models.ToReview
	}
	sw.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO schedule_words (` + scheduleWordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		sw.ID,
		sw.ReviewScheduleID,
		sw.WordID,
		sw.Status,
		sw.Score,
		sw.AnsweredAt,
		sw.AnsweredOn,
		sw.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("word %s: %w", sw.WordID, models.ErrAlreadyScheduled)
	}
	if err != nil {
		return fmt.Errorf("failed to create schedule word: %w", err)
	}
	return nil
}

// GetScheduleWord returns a schedule word by id
func (r *ScheduleWordRepository) GetScheduleWord(ctx context.Context, id string) (*models.ScheduleWord, error) {
	var sw models.ScheduleWord
	err := getOne(ctx, r.db, &sw, "schedule word "+id,
		`SELECT `+scheduleWordColumns+` FROM schedule_words WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &sw, nil
}

// GetPendingScheduleWord returns the word's TO_REVIEW schedule word
func (r *ScheduleWordRepository) GetPendingScheduleWord(ctx context.Context, wordID string) (*models.ScheduleWord, error) {
	var sw models.ScheduleWord
	err := getOne(ctx, r.db, &sw, "pending schedule word for "+wordID,
		`SELECT `+scheduleWordColumns+` FROM schedule_words WHERE word_id = ? AND status = ?`,
		wordID, models.ToReview)
	if err != nil {
		return nil, err
	}
	return &sw, nil
}

// ListScheduleWords returns the schedule words with the given status on any of the schedules
func (r *ScheduleWordRepository) ListScheduleWords(ctx context.Context, scheduleIDs []string, status models.ScheduleWordStatus) ([]models.ScheduleWord, error) {
	if len(scheduleIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		`SELECT `+scheduleWordColumns+` FROM schedule_words
		WHERE review_schedule_id IN (?) AND status = ?
		ORDER BY created_at, id`,
		scheduleIDs, status)
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule word query: %w", err)
	}

	var words []models.ScheduleWord
	if err := r.db.SelectContext(ctx, &words, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list schedule words: %w", err)
	}
	return words, nil
}

// MarkScheduleWordReviewed records the answer. Only a TO_REVIEW row can be
// answered; a second answer yields models.ErrAlreadyReviewed.
func (r *ScheduleWordRepository) MarkScheduleWordReviewed(ctx context.Context, id string, score *float64, answeredAt time.Time, answeredOn clock.Date) error {
	return execOne(ctx, r.db, models.ErrAlreadyReviewed, "answer schedule word "+id, `
		UPDATE schedule_words SET
			status = ?,
			score = ?,
			answered_at = ?,
			answered_on = ?
		WHERE id = ? AND status = ?
	`, models.Reviewed, score, answeredAt.UTC(), answeredOn, id, models.ToReview)
}

// DeleteScheduleWord removes a schedule word
func (r *ScheduleWordRepository) DeleteScheduleWord(ctx context.Context, id string) error {
	return execOne(ctx, r.db, models.ErrNotFound, "delete schedule word "+id,
		`DELETE FROM schedule_words WHERE id = ?`, id)
}

// CountScheduleWords counts the rows on a schedule per status
func (r *ScheduleWordRepository) CountScheduleWords(ctx context.Context, scheduleID string) (StatusCounts, error) {
	var counts StatusCounts
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'TO_REVIEW' THEN 1 ELSE 0 END), 0) AS to_review,
			COALESCE(SUM(CASE WHEN status = 'REVIEWED' THEN 1 ELSE 0 END), 0) AS reviewed
		FROM schedule_words
		WHERE review_schedule_id = ?
	`
	if err := r.db.GetContext(ctx, &counts, r.db.Rebind(query), scheduleID); err != nil {
		return StatusCounts{}, fmt.Errorf("failed to count schedule words: %w", err)
	}
	return counts, nil
}

// CountAnsweredOn counts the user's reviews answered on a local date,
// whatever date the words were originally scheduled for
func (r *ScheduleWordRepository) CountAnsweredOn(ctx context.Context, userProfileID string, date clock.Date) (int, error) {
	var n int
	query := `
		SELECT COUNT(*)
		FROM schedule_words sw
		JOIN review_schedules rs ON rs.id = sw.review_schedule_id
		WHERE rs.user_profile_id = ? AND sw.status = ? AND sw.answered_on = ?
	`
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(query), userProfileID, models.Reviewed, date); err != nil {
		return 0, fmt.Errorf("failed to count answered words: %w", err)
	}
	return n, nil
}

// ListScores returns the recorded scores of the reviewed words on a schedule
func (r *ScheduleWordRepository) ListScores(ctx context.Context, scheduleID string) ([]float64, error) {
	var scores []float64
	query := `
		SELECT score FROM schedule_words
		WHERE review_schedule_id = ? AND status = ? AND score IS NOT NULL
	`
	if err := r.db.SelectContext(ctx, &scores, r.db.Rebind(query), scheduleID, models.Reviewed); err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	return scores, nil
}
