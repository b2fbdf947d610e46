package spaced_repetition

import (
	"errors"
	"fmt"
	"math"

	"github.com/example/wordrecall/internal/clock"
)

const (
	// DefaultInterval is the interval of a freshly collected word
	DefaultInterval = 1
	// DefaultEaseFactor is the ease factor of a freshly collected word
	DefaultEaseFactor = 2.5
	// MinEaseFactor is the floor the ease factor is clamped to
	MinEaseFactor = 1.3
	// MaxInterval caps the interval at roughly a century of days
	MaxInterval = 36500

	poorEasePenalty    = 0.2
	fairEasePenalty    = 0.15
	excellentEaseBonus = 0.15
	excellentBoost     = 1.3
)

var (
	ErrInvalidRecall     = errors.New("spaced_repetition: invalid recall")
	ErrInvalidInterval   = errors.New("spaced_repetition: review interval must be a positive number of days")
	ErrInvalidEaseFactor = errors.New("spaced_repetition: ease factor below minimum")
)

// ReviewInput is the word's current spacing plus the outcome of the review
type ReviewInput struct {
	ReviewInterval int
	EaseFactor     float64
	Recall         Recall
}

// Validate checks the input before any arithmetic is done
func (in ReviewInput) Validate() error {
	if in.ReviewInterval < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, in.ReviewInterval)
	}
	// NaN fails every comparison, so test for the valid range instead
	if !(in.EaseFactor >= MinEaseFactor) {
		return fmt.Errorf("%w: %v", ErrInvalidEaseFactor, in.EaseFactor)
	}
	if !in.Recall.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidRecall, int(in.Recall))
	}
	return nil
}

// Review is the word's spacing after a review
type Review struct {
	NextDue        clock.Date
	ReviewInterval int
	EaseFactor     float64
}

// NextReview computes the next due date, interval and ease factor.
// The due date is today plus the new interval in calendar days; growth
// stops at MaxInterval.
func NextReview(in ReviewInput, today clock.Date) (Review, error) {
	if err := in.Validate(); err != nil {
		return Review{}, err
	}

	interval, ease := in.ReviewInterval, in.EaseFactor
	switch in.Recall {
	case Poor:
		interval = 1
		ease = math.Max(MinEaseFactor, ease-poorEasePenalty)
	case Fair:
		ease = math.Max(MinEaseFactor, ease-fairEasePenalty)
	case Good:
		interval = grow(interval, ease, 1)
	case Excellent:
		interval = grow(interval, ease, excellentBoost)
		ease += excellentEaseBonus
	}

	return Review{
		NextDue:        today.AddDays(interval),
		ReviewInterval: interval,
		EaseFactor:     ease,
	}, nil
}

func grow(interval int, ease, boost float64) int {
	next := math.Round(float64(interval) * ease * boost)
	switch {
	case next < 1:
		return 1
	case next > MaxInterval:
		return MaxInterval
	}
	return int(next)
}
