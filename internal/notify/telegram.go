package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// telegramAPIBase is the Telegram Bot API endpoint template.
const telegramAPIBase = "https://api.telegram.org/bot%s/sendMessage"

// Sender delivers one message to one notification address.
type Sender interface {
	Send(ctx context.Context, address, message string) error
}

// TelegramSender sends messages through the Telegram Bot API.
type TelegramSender struct {
	token  string
	client *HTTPClient
}

// NewTelegramSender creates a sender using the given bot token.
func NewTelegramSender(token string, client *HTTPClient) *TelegramSender {
	if client == nil {
		client = NewHTTPClient(30*time.Second, 3, []time.Duration{0, 5 * time.Second, 30 * time.Second})
	}
	return &TelegramSender{token: token, client: client}
}

// telegramPayload is the sendMessage request body.
type telegramPayload struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Send posts a sendMessage call for the given chat ID.
func (s *TelegramSender) Send(ctx context.Context, chatID, message string) error {
	if s.token == "" {
		return fmt.Errorf("telegram bot token not configured")
	}

	body, err := json.Marshal(telegramPayload{ChatID: chatID, Text: message})
	if err != nil {
		return err
	}

	url := fmt.Sprintf(telegramAPIBase, s.token)
	result := s.client.Post(ctx, url, "application/json", body)
	if result.Error != nil {
		return fmt.Errorf("telegram send failed: %w", result.Error)
	}
	return nil
}
