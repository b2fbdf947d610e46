package models

import (
	"fmt"
	"time"
)

// WordStatus marks whether the user still studies a word
type WordStatus string

const (
	WordCollected WordStatus = "COLLECTED"
	WordLearned   WordStatus = "LEARNED"
)

// IsValid reports whether s is a known word status
func (s WordStatus) IsValid() bool {
	switch s {
	case WordCollected, WordLearned:
		return true
	}
	return false
}

// Scan implements sql.Scanner and rejects unknown statuses
func (s *WordStatus) Scan(src interface{}) error {
	v, err := scanString(src)
	if err != nil {
		return err
	}
	status := WordStatus(v)
	if !status.IsValid() {
		return fmt.Errorf("unknown word status %q", v)
	}
	*s = status
	return nil
}

// Word is a vocabulary item collected by a user
type Word struct {
	ID             string     `json:"id" db:"id"`
	UserProfileID  string     `json:"user_profile_id" db:"user_profile_id"`
	Word           string     `json:"word" db:"word"`
	Definition     string     `json:"definition" db:"definition"` // opaque payload
	ReviewInterval int        `json:"review_interval" db:"review_interval"`
	EaseFactor     float64    `json:"ease_factor" db:"ease_factor"`
	Status         WordStatus `json:"status" db:"status"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

func scanString(src interface{}) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("cannot scan %T into a string enum", src)
	}
}
