package models

import "time"

// UserProfile is the owner of words and schedules. ChatID is where reminders go.
type UserProfile struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ChatID    int64     `json:"chat_id" db:"chat_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
