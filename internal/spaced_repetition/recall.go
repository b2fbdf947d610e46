package spaced_repetition

import (
	"fmt"
	"strings"
)

// Recall is how well the user remembered a word during a review
type Recall int

const (
	// Poor means the word was not recalled; the interval resets
	Poor Recall = iota + 1
	// Fair means the word was recalled with difficulty; the interval holds
	Fair
	// Good means a normal recall; the interval grows by the ease factor
	Good
	// Excellent means an effortless recall; the interval grows faster
	Excellent
)

var recallNames = [...]string{Poor: "poor", Fair: "fair", Good: "good", Excellent: "excellent"}

// ParseRecall accepts the lower-case names used by clients ("poor", "fair", "good", "excellent")
func ParseRecall(s string) (Recall, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for r := Poor; r <= Excellent; r++ {
		if recallNames[r] == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRecall, s)
}

// IsValid reports whether r is one of the four recall levels
func (r Recall) IsValid() bool {
	return r >= Poor && r <= Excellent
}

func (r Recall) String() string {
	if r.IsValid() {
		return recallNames[r]
	}
	return fmt.Sprintf("Recall(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler
func (r Recall) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRecall, int(r))
	}
	return []byte(recallNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Recall) UnmarshalText(b []byte) error {
	parsed, err := ParseRecall(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
