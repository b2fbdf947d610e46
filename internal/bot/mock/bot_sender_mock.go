package mock_bot

import (
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type MockBot struct {
	SentMessages []tgbotapi.Chattable
	Requests     []tgbotapi.Chattable
	// SendErr, when set, fails every Send
	SendErr error
}

func (m *MockBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m.SendErr != nil {
		return tgbotapi.Message{}, m.SendErr
	}
	m.SentMessages = append(m.SentMessages, c)
	return tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 123}}, nil
}

func (m *MockBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	m.Requests = append(m.Requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// LastText returns the text of the last sent message
func (m *MockBot) LastText() (string, error) {
	if len(m.SentMessages) == 0 {
		return "", errors.New("no messages sent")
	}
	msg, ok := m.SentMessages[len(m.SentMessages)-1].(tgbotapi.MessageConfig)
	if !ok {
		return "", errors.New("last message is not a text message")
	}
	return msg.Text, nil
}

func ClearSentMessages(bot *MockBot) {
	bot.SentMessages = nil
	bot.Requests = nil
}
