package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/wordrecall/pkg/models"
	"github.com/google/uuid"
)

const wordColumns = `id, user_profile_id, word, definition, review_interval, ease_factor, status, created_at, updated_at`

// WordRepository handles database operations for words
type WordRepository struct {
	db Queryer
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db Queryer) *WordRepository {
	return &WordRepository{db: db}
}

// CreateWord inserts a new word, assigning an id when it has none
func (r *WordRepository) CreateWord(ctx context.Context, word *models.Word) error {
	if word.ID == "" {
		word.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	word.CreatedAt, word.UpdatedAt = now, now

	query := `
		INSERT INTO words (` + wordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		word.ID,
		word.UserProfileID,
		word.Word,
		word.Definition,
		word.ReviewInterval,
		word.EaseFactor,
		word.Status,
		word.CreatedAt,
		word.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("word %s: %w", word.ID, models.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create word: %w", err)
	}
	return nil
}

// GetWord returns a word by id
func (r *WordRepository) GetWord(ctx context.Context, id string) (*models.Word, error) {
	var word models.Word
	err := getOne(ctx, r.db, &word, "word "+id,
		`SELECT `+wordColumns+` FROM words WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &word, nil
}

// FindWord returns the user's word with the given headword
func (r *WordRepository) FindWord(ctx context.Context, userProfileID, text string) (*models.Word, error) {
	var word models.Word
	err := getOne(ctx, r.db, &word, "word "+text,
		`SELECT `+wordColumns+` FROM words WHERE user_profile_id = ? AND word = ? LIMIT 1`, userProfileID, text)
	if err != nil {
		return nil, err
	}
	return &word, nil
}

// ListWords returns the user's words in alphabetical order
func (r *WordRepository) ListWords(ctx context.Context, userProfileID string) ([]models.Word, error) {
	var words []models.Word
	query := `SELECT ` + wordColumns + ` FROM words WHERE user_profile_id = ? ORDER BY word`
	if err := r.db.SelectContext(ctx, &words, r.db.Rebind(query), userProfileID); err != nil {
		return nil, fmt.Errorf("failed to list words: %w", err)
	}
	return words, nil
}

// UpdateWordProgress stores the spacing computed by the last review
func (r *WordRepository) UpdateWordProgress(ctx context.Context, id string, interval int, easeFactor float64) error {
	return execOne(ctx, r.db, models.ErrNotFound, "update word "+id, `
		UPDATE words SET
			review_interval = ?,
			ease_factor = ?,
			updated_at = ?
		WHERE id = ?
	`, interval, easeFactor, time.Now().UTC(), id)
}

// UpdateWordStatus marks a word as collected or learned
func (r *WordRepository) UpdateWordStatus(ctx context.Context, id string, status models.WordStatus) error {
	return execOne(ctx, r.db, models.ErrNotFound, "update word "+id,
		`UPDATE words SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now().UTC(), id)
}

// DeleteWord removes a word
func (r *WordRepository) DeleteWord(ctx context.Context, id string) error {
	return execOne(ctx, r.db, models.ErrNotFound, "delete word "+id,
		`DELETE FROM words WHERE id = ?`, id)
}
