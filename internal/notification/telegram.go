package notification

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const ChannelTelegram = "telegram"

// Sender часть API бота, нужная для уведомлений
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
}

// TelegramNotifier отправляет уведомления о бронированиях в чат пользователя
type TelegramNotifier struct {
	sender Sender
	logger *zap.Logger
}

// NewTelegramNotifier sender может быть nil, тогда уведомления только логируются
func NewTelegramNotifier(sender Sender, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, logger: logger}
}

func (n *TelegramNotifier) Channel() string {
	return ChannelTelegram
}

// NotifyBookingConfirmed сообщение о подтверждении и документы
func (n *TelegramNotifier) NotifyBookingConfirmed(ctx context.Context, user *model.User, booking *model.Booking, docs []model.Document) error {
	if err := n.check(user, booking); err != nil {
		return err
	}

	_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    user.TelegramID,
		Text:      ConfirmedText(booking),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}

	for _, doc := range docs {
		_, err := n.sender.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:  user.TelegramID,
			Photo:   &models.InputFileUpload{Filename: doc.Filename, Data: bytes.NewReader(doc.Data)},
			Caption: doc.Caption,
		})
		if err != nil {
			return fmt.Errorf("send %s: %w", doc.Filename, err)
		}
	}

	n.logger.Info("Confirmation sent",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("telegram_id", user.TelegramID),
		zap.Int("documents", len(docs)),
	)
	return nil
}

// NotifyBookingCancelled сообщение об отмене
func (n *TelegramNotifier) NotifyBookingCancelled(ctx context.Context, user *model.User, booking *model.Booking, reason string) error {
	if err := n.check(user, booking); err != nil {
		return err
	}

	_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    user.TelegramID,
		Text:      CancelledText(booking, reason),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send cancellation: %w", err)
	}

	n.logger.Info("Cancellation sent",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("telegram_id", user.TelegramID),
	)
	return nil
}

func (n *TelegramNotifier) check(user *model.User, booking *model.Booking) error {
	if n.sender == nil {
		n.logger.Debug("Telegram disabled, notification skipped", zap.Int64("booking_id", booking.ID))
		return model.ErrNotificationSkipped
	}
	if user == nil || user.TelegramID == 0 {
		return model.ErrNotificationSkipped
	}
	return nil
}

// ConfirmedText текст уведомления о подтверждении
func ConfirmedText(booking *model.Booking) string {
	var sb strings.Builder
	sb.WriteString("✅ <b>Booking confirmed</b>\n\n")
	fmt.Fprintf(&sb, "PNR: <code>%s</code>\n", html.EscapeString(booking.PNR))
	fmt.Fprintf(&sb, "🚆 %s → %s, %s\n",
		html.EscapeString(booking.FromStation),
		html.EscapeString(booking.ToStation),
		booking.JourneyDate.Format(time.DateOnly),
	)
	fmt.Fprintf(&sb, "Class: %s\n", booking.Class)
	for _, p := range booking.Passengers {
		fmt.Fprintf(&sb, "• %s, %d, seat %s\n", html.EscapeString(p.Name), p.Age, p.SeatNumber)
	}
	fmt.Fprintf(&sb, "\n💰 Paid: %s", model.FormatRupees(booking.TotalAmount))
	return sb.String()
}

// CancelledText текст уведомления об отмене
func CancelledText(booking *model.Booking, reason string) string {
	return fmt.Sprintf("❌ <b>Booking %s cancelled</b>\n\n%s → %s, %s\nReason: %s",
		html.EscapeString(booking.PNR),
		html.EscapeString(booking.FromStation),
		html.EscapeString(booking.ToStation),
		booking.JourneyDate.Format(time.DateOnly),
		html.EscapeString(reason),
	)
}
