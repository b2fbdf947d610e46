package models

import "errors"

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken
	ErrDuplicate = errors.New("record already exists")
	// ErrAlreadyScheduled is returned when a word already has a pending schedule word
	ErrAlreadyScheduled = errors.New("word already has a pending review")
	// ErrAlreadyReviewed is returned when a schedule word was answered before
	ErrAlreadyReviewed = errors.New("schedule word already reviewed")
	// ErrCounterConflict is returned when a guarded counter or status update
	// matched no row because another writer got there first. It is retryable.
	ErrCounterConflict = errors.New("schedule counters changed concurrently")
	// ErrCountMismatch is returned when schedule counters do not add up
	ErrCountMismatch = errors.New("schedule counters out of balance")
)
