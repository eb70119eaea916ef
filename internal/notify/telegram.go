// Package notify tells the site owner about new reservations.
package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/homepage/internal/models"
)

// sender is the subset of the bot API the notifier needs
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts a message to a fixed chat for every reservation
type Telegram struct {
	api    sender
	chatID int64
	logger *logrus.Logger
}

// NewTelegram authorizes the bot token and returns a notifier for chatID
func NewTelegram(token string, chatID int64, logger *logrus.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Infof("Authorized on account %s", api.Self.UserName)

	return newTelegram(api, chatID, logger), nil
}

func newTelegram(api sender, chatID int64, logger *logrus.Logger) *Telegram {
	return &Telegram{api: api, chatID: chatID, logger: logger}
}

// NotifyReserved sends the reservation details
func (t *Telegram) NotifyReserved(ctx context.Context, item *models.WishItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, reservationText(item))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reservation message: %w", err)
	}

	t.logger.WithField("item_id", item.ID).Debug("Reservation notification sent")
	return nil
}

func reservationText(item *models.WishItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎁 *%s* was reserved", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, item.Title))
	if item.ReservedBy != nil {
		fmt.Fprintf(&b, " by %s", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, *item.ReservedBy))
	}
	if item.ReservedContact != nil && *item.ReservedContact != "" {
		fmt.Fprintf(&b, "\nContact: %s", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, *item.ReservedContact))
	}
	if item.ReservedNote != nil && *item.ReservedNote != "" {
		fmt.Fprintf(&b, "\nNote: %s", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, *item.ReservedNote))
	}
	return b.String()
}
