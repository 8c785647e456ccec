package events

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ukydev/ac-service-backend/internal/models"
)

// TelegramSink notifies the admin chat about new bookings, inquiries and reviews
type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramSink authenticates the bot. client may be nil.
func NewTelegramSink(token string, chatID int64, client *http.Client) (*TelegramSink, error) {
	if client == nil {
		client = &http.Client{}
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramSink{bot: bot, chatID: chatID}, nil
}

func (s *TelegramSink) Name() string { return "telegram" }

func (s *TelegramSink) Deliver(_ context.Context, event Event) error {
	text, ok := formatTelegram(event)
	if !ok {
		return nil
	}

	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// formatTelegram renders the events worth a chat message; status updates are
// made by admins themselves and are skipped.
func formatTelegram(event Event) (string, bool) {
	switch event.Type {
	case NewBooking:
		b, ok := event.Payload.(*models.Booking)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("New booking: %s\n%s, %s\n%s (%s)\n%s",
			b.Service, b.Date.Format("02 Jan 2006"), b.Time, b.Name, b.Phone, b.Area), true
	case NewCorporateInquiry:
		inq, ok := event.Payload.(*models.CorporateInquiry)
		if !ok {
			return "", false
		}
		lines := make([]string, 0, len(inq.Requirements))
		for _, r := range inq.Requirements {
			lines = append(lines, fmt.Sprintf("- %s x%d", r.Type, r.Units))
		}
		return fmt.Sprintf("New corporate inquiry: %s\nContact: %s (%s)\n%s",
			inq.CompanyName, inq.ContactPerson, inq.Phone, strings.Join(lines, "\n")), true
	case NewReview:
		r, ok := event.Payload.(*models.Review)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("New review %s from %s\n%s",
			strings.Repeat("★", r.Rating), r.CustomerName, r.Comment), true
	default:
		return "", false
	}
}
