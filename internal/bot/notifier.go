package bot

import (
	"context"
	"fmt"

	"github.com/example/wordrecall/internal/clock"
	"github.com/example/wordrecall/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// UserLookup resolves a profile id to its chat
type UserLookup interface {
	GetUserProfile(ctx context.Context, id string) (*models.UserProfile, error)
}

// Notifier delivers review reminders to the profile's Telegram chat
type Notifier struct {
	api   Sender
	users UserLookup
}

func NewNotifier(api Sender, users UserLookup) *Notifier {
	return &Notifier{api: api, users: users}
}

// Notify sends a review reminder to the profile's chat
func (n *Notifier) Notify(ctx context.Context, userProfileID string, date clock.Date, count int) error {
	user, err := n.users.GetUserProfile(ctx, userProfileID)
	if err != nil {
		return err
	}
	if user.ChatID == 0 {
		return fmt.Errorf("user profile %s has no chat", userProfileID)
	}

	msg := tgbotapi.NewMessage(user.ChatID, reminderText(date, count))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder to chat %d: %w", user.ChatID, err)
	}
	return nil
}

func reminderSummary(date clock.Date, count int) string {
	noun := "words are"
	if count == 1 {
		noun = "word is"
	}
	return fmt.Sprintf("%d %s waiting for review on %s.", count, noun, date)
}

func reminderText(date clock.Date, count int) string {
	return reminderSummary(date, count) + " Send /today to start."
}

// LogNotifier stands in for Telegram when no token is configured
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) Notify(_ context.Context, userProfileID string, date clock.Date, count int) error {
	n.Log.Info("review reminder",
		zap.String("user_profile_id", userProfileID),
		zap.String("text", reminderSummary(date, count)))
	return nil
}
