package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/wordrecall/pkg/models"
)

// Repository bundles every table repository over one connection or transaction
type Repository struct {
	*UserRepository
	*WordRepository
	*ScheduleRepository
	*ScheduleWordRepository
}

// NewRepository creates the repositories over db
func NewRepository(db Queryer) *Repository {
	return &Repository{
		UserRepository:         NewUserRepository(db),
		WordRepository:         NewWordRepository(db),
		ScheduleRepository:     NewScheduleRepository(db),
		ScheduleWordRepository: NewScheduleWordRepository(db),
	}
}

// StatusCounts is the number of schedule words per status on one schedule
type StatusCounts struct {
	ToReview int `db:"to_review"`
	Reviewed int `db:"reviewed"`
}

// Total is the number of schedule words on the schedule
func (c StatusCounts) Total() int {
	return c.ToReview + c.Reviewed
}

func getOne(ctx context.Context, db Queryer, dest interface{}, what, query string, args ...interface{}) error {
	err := db.GetContext(ctx, dest, db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", what, err)
	}
	return nil
}

// execOne runs a statement that must touch exactly one row; a miss returns missErr
func execOne(ctx context.Context, db Queryer, missErr error, what, query string, args ...interface{}) error {
	result, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", what, missErr)
	}
	return nil
}
