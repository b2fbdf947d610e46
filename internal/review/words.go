package review

import (
	"context"

	"github.com/example/wordrecall/pkg/models"
	"go.uber.org/zap"
)

// ListWords returns the user's collection in alphabetical order
func (s *Service) ListWords(ctx context.Context, userProfileID string) ([]models.Word, error) {
	if userProfileID == "" {
		return nil, invalid("user profile id is required")
	}
	words, err := s.store.ListWords(ctx, userProfileID)
	if err != nil {
		return nil, stepErr("list words", StepListWords, err)
	}
	return words, nil
}

// SetWordStatus marks a word as collected or learned. The status is a label
// for the user; scheduling ignores it.
func (s *Service) SetWordStatus(ctx context.Context, wordID string, status models.WordStatus) error {
	const op = "set word status"

	if wordID == "" {
		return invalid("word id is required")
	}
	if !status.IsValid() {
		return invalid("unknown word status %q", status)
	}
	if err := s.store.UpdateWordStatus(ctx, wordID, status); err != nil {
		return stepErr(op, StepUpdateWord, err)
	}

	s.log.Info("word status changed",
		zap.String("word_id", wordID),
		zap.String("status", string(status)))
	return nil
}
