package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/wordrecall/internal/review"
	"github.com/example/wordrecall/internal/spaced_repetition"
	"github.com/example/wordrecall/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Callback data for recall buttons is "a:<schedule word id>:<recall>"
const callbackAnswer = "a"

const helpText = `Commands:
/add word - definition  collect a word
/today  review the next word due
/status  today's progress
/streak  days in a row fully reviewed`

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	if message.Command() == "start" {
		b.handleStart(ctx, message)
		return
	}

	user, err := b.store.GetUserProfileByChatID(ctx, message.Chat.ID)
	if errors.Is(err, models.ErrNotFound) {
		b.reply(message.Chat.ID, "Send /start first.")
		return
	}
	if err != nil {
		b.log.Error("failed to resolve chat", zap.Int64("chat_id", message.Chat.ID), zap.Error(err))
		b.reply(message.Chat.ID, "Something went wrong. Please try again.")
		return
	}

	switch message.Command() {
	case "help":
		b.reply(message.Chat.ID, helpText)
	case "add":
		b.handleAdd(ctx, message, user)
	case "today":
		b.showNextWord(ctx, message.Chat.ID, user)
	case "status":
		b.handleStatus(ctx, message, user)
	case "streak":
		b.handleStreak(ctx, message, user)
	default:
		b.reply(message.Chat.ID, "Unknown command. Use /help to see the commands.")
	}
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	_, err := b.store.GetUserProfileByChatID(ctx, chatID)
	switch {
	case err == nil:
		b.reply(chatID, "Welcome back!\n\n"+helpText)
		return
	case !errors.Is(err, models.ErrNotFound):
		b.log.Error("failed to resolve chat", zap.Int64("chat_id", chatID), zap.Error(err))
		b.reply(chatID, "Something went wrong. Please try again.")
		return
	}

	user := &models.UserProfile{ChatID: chatID}
	if message.From != nil {
		user.Name = message.From.UserName
		if user.Name == "" {
			user.Name = message.From.FirstName
		}
	}
	if err := b.store.CreateUserProfile(ctx, user); err != nil {
		b.log.Error("failed to create user profile", zap.Int64("chat_id", chatID), zap.Error(err))
		b.reply(chatID, "Could not register you. Please try again.")
		return
	}

	b.log.Info("user registered", zap.String("user_profile_id", user.ID), zap.Int64("chat_id", chatID))
	b.reply(chatID, "Welcome! Collect words and review them when they are due.\n\n"+helpText)
}

// parseWordLine splits "word - definition"; the definition is optional
func parseWordLine(line string) (word, definition string) {
	word, definition, _ = strings.Cut(line, " - ")
	return strings.TrimSpace(word), strings.TrimSpace(definition)
}

func (b *Bot) handleAdd(ctx context.Context, message *tgbotapi.Message, user *models.UserProfile) {
	word, definition := parseWordLine(message.CommandArguments())
	if word == "" {
		b.reply(message.Chat.ID, "Usage: /add word - definition")
		return
	}

	_, _, err := b.service.CollectWord(ctx, review.NewWord{
		UserProfileID: user.ID,
		Word:          word,
		Definition:    definition,
	})
	switch {
	case err == nil:
		b.reply(message.Chat.ID, fmt.Sprintf("✅ %q added, first review today.", word))
	case errors.Is(err, models.ErrDuplicate):
		b.reply(message.Chat.ID, fmt.Sprintf("%q is already in your collection.", word))
	default:
		b.log.Error("failed to collect word", zap.String("user_profile_id", user.ID), zap.Error(err))
		b.reply(message.Chat.ID, "❌ Could not add the word. Please try again.")
	}
}

func (b *Bot) showNextWord(ctx context.Context, chatID int64, user *models.UserProfile) {
	active, err := b.service.TodayActiveSet(ctx, user.ID)
	if err != nil {
		b.log.Error("failed to load active set", zap.String("user_profile_id", user.ID), zap.Error(err))
		b.reply(chatID, "❌ Could not load your reviews. Please try again.")
		return
	}
	if len(active) == 0 {
		b.reply(chatID, "🎉 Nothing left to review today.")
		return
	}

	next := active[0]
	word, err := b.store.GetWord(ctx, next.WordID)
	if err != nil {
		b.log.Error("failed to load word", zap.String("word_id", next.WordID), zap.Error(err))
		b.reply(chatID, "❌ Could not load your reviews. Please try again.")
		return
	}

	var text strings.Builder
	fmt.Fprintf(&text, "*%s*", tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, word.Word))
	if word.Definition != "" {
		fmt.Fprintf(&text, "\n||%s||", tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, word.Definition))
	}
	if next.IfPastDue {
		fmt.Fprintf(&text, "\n_due %s_", tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, next.ScheduleDate.String()))
	}
	fmt.Fprintf(&text, "\n%d left", len(active))

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.ReplyMarkup = recallKeyboard(next.ID)
	b.send(msg)
}

func recallKeyboard(scheduleWordID string) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, 4)
	for r := spaced_repetition.Poor; r <= spaced_repetition.Excellent; r++ {
		data := strings.Join([]string{callbackAnswer, scheduleWordID, r.String()}, ":")
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(buttonLabel(r), data))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func buttonLabel(r spaced_repetition.Recall) string {
	name := r.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	parts := strings.Split(callback.Data, ":")
	if len(parts) != 3 || parts[0] != callbackAnswer {
		b.log.Warn("unknown callback", zap.String("data", callback.Data))
		b.answerCallback(callback.ID, "Unknown button")
		return
	}
	recall, err := spaced_repetition.ParseRecall(parts[2])
	if err != nil {
		b.log.Warn("bad recall in callback", zap.String("data", callback.Data))
		b.answerCallback(callback.ID, "Unknown button")
		return
	}

	user, err := b.store.GetUserProfileByChatID(ctx, chatID)
	if errors.Is(err, models.ErrNotFound) {
		b.answerCallback(callback.ID, "Send /start first")
		return
	}
	if err != nil {
		b.log.Error("failed to resolve chat", zap.Int64("chat_id", chatID), zap.Error(err))
		b.answerCallback(callback.ID, "Could not save the answer")
		return
	}
	if !b.owns(ctx, user, parts[1]) {
		b.log.Warn("answer for foreign schedule word",
			zap.String("user_profile_id", user.ID), zap.String("schedule_word_id", parts[1]))
		b.answerCallback(callback.ID, "This word is not in your reviews")
		return
	}

	result, err := b.service.AnswerReview(ctx, review.Answer{ScheduleWordID: parts[1], Recall: recall})
	switch {
	case err == nil:
		b.answerCallback(callback.ID, fmt.Sprintf("Next review on %s", result.Review.NextDue))
	case errors.Is(err, models.ErrAlreadyReviewed):
		b.answerCallback(callback.ID, "Already answered")
	default:
		b.log.Error("failed to answer review", zap.String("schedule_word_id", parts[1]), zap.Error(err))
		b.answerCallback(callback.ID, "Could not save the answer")
		return
	}

	b.showNextWord(ctx, chatID, user)
}

func (b *Bot) owns(ctx context.Context, user *models.UserProfile, scheduleWordID string) bool {
	sw, err := b.store.GetScheduleWord(ctx, scheduleWordID)
	if err != nil {
		return false
	}
	word, err := b.store.GetWord(ctx, sw.WordID)
	if err != nil {
		return false
	}
	return word.UserProfileID == user.ID
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.log.Debug("failed to answer callback", zap.Error(err))
	}
}

func (b *Bot) handleStatus(ctx context.Context, message *tgbotapi.Message, user *models.UserProfile) {
	status, err := b.service.HomeStatus(ctx, user.ID)
	if err != nil {
		b.log.Error("failed to load status", zap.String("user_profile_id", user.ID), zap.Error(err))
		b.reply(message.Chat.ID, "❌ Could not load your progress.")
		return
	}

	var text string
	switch status.State {
	case review.ReviewBegin:
		text = fmt.Sprintf("📚 %d words to review today. Send /today to begin.", status.Remaining)
	case review.ReviewInProgress:
		text = fmt.Sprintf("⏳ %d reviewed, %d to go. Send /today to continue.", status.AnsweredToday, status.Remaining)
	default:
		text = fmt.Sprintf("✅ All done: %d reviewed today.", status.AnsweredToday)
	}
	if status.PastDue > 0 {
		text += fmt.Sprintf("\n%d carried over from earlier days.", status.PastDue)
	}
	b.reply(message.Chat.ID, text)
}

func (b *Bot) handleStreak(ctx context.Context, message *tgbotapi.Message, user *models.UserProfile) {
	streak, err := b.service.Streak(ctx, user.ID)
	if err != nil {
		b.log.Error("failed to load streak", zap.String("user_profile_id", user.ID), zap.Error(err))
		b.reply(message.Chat.ID, "❌ Could not load your streak.")
		return
	}
	b.reply(message.Chat.ID, fmt.Sprintf("🔥 Streak: %d days", streak))
}
