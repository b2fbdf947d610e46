package bot

import (
	"time"
)

// Config holds the tunables of the Telegram front end
type Config struct {
	// Long-poll timeout in seconds for getUpdates
	UpdateTimeout int
	// Deadline for a single update's service calls
	HandlerTimeout time.Duration
	// Log raw Bot API traffic
	Debug bool
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() Config {
	return Config{
		UpdateTimeout:  60,
		HandlerTimeout: 10 * time.Second,
	}
}
