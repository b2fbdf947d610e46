package bot

import (
	"context"
	"fmt"

	"github.com/example/wordrecall/internal/review"
	"github.com/example/wordrecall/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

//go:generate mockgen -source=bot.go -destination=mock/bot_mock.go -exclude_interfaces=Sender

// Sender is the part of the Telegram API the bot writes through
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// ReviewService is the review engine as seen from chat
type ReviewService interface {
	CollectWord(ctx context.Context, in review.NewWord) (*models.Word, *models.ScheduleWord, error)
	TodayActiveSet(ctx context.Context, userProfileID string) ([]models.ActiveScheduleWord, error)
	AnswerReview(ctx context.Context, a review.Answer) (*review.AnswerResult, error)
	HomeStatus(ctx context.Context, userProfileID string) (review.HomeStatus, error)
	Streak(ctx context.Context, userProfileID string) (int, error)
}

// Store resolves chats to profiles and ids to words
type Store interface {
	CreateUserProfile(ctx context.Context, user *models.UserProfile) error
	GetUserProfile(ctx context.Context, id string) (*models.UserProfile, error)
	GetUserProfileByChatID(ctx context.Context, chatID int64) (*models.UserProfile, error)
	GetWord(ctx context.Context, id string) (*models.Word, error)
	GetScheduleWord(ctx context.Context, id string) (*models.ScheduleWord, error)
}

// Bot is the Telegram front end
type Bot struct {
	api     Sender
	service ReviewService
	store   Store
	cfg     Config
	log     *zap.Logger
}

// New builds a bot around an existing sender
func New(api Sender, service ReviewService, store Store, cfg Config, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		api:     api,
		service: service,
		store:   store,
		cfg:     cfg,
		log:     log,
	}
}

// NewAPI authorises against the Bot API with token
func NewAPI(token string, debug bool) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	api.Debug = debug
	return api, nil
}

// Run consumes updates until ctx is done
func (b *Bot) Run(ctx context.Context, api *tgbotapi.BotAPI) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	updates := api.GetUpdatesChan(u)
	defer api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches one update
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.HandlerTimeout)
	defer cancel()

	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		b.reply(update.Message.Chat.ID, "I don't understand. Use /help to see the commands.")
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	sent, err := b.api.Send(msg)
	if err != nil {
		b.log.Warn("failed to send message", zap.Error(err))
		return
	}
	if sent.Chat != nil {
		b.log.Debug("sent message", zap.Int64("chat_id", sent.Chat.ID))
	}
}
