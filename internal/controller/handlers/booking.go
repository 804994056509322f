package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/controller/formatting"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/controller/keyboard"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleBook обрабатывает команду /book
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	req, err := parseBookArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	result, err := h.bookingService.CreateBookingWithPayment(ctx, session, req)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.stateManager.SetLastBooking(session.TelegramID, result.Booking.ID)

	text := fmt.Sprintf("%s\n\n%s\n\n💳 Order: %s\nAfter paying send:\n/pay %d PAYMENT_ID SIGNATURE\nor /cancel %d to drop it.",
		result.Message,
		formatting.FormatBooking(result.Booking),
		result.Order.ID,
		result.Booking.ID,
		result.Booking.ID,
	)
	if markup := keyboard.BookingActions(result.Booking); markup != nil {
		h.sendMessage(ctx, b, chatID, text, markup)
		return
	}
	h.sendMessage(ctx, b, chatID, text)
}

// HandlePay обрабатывает команду /pay BOOKING_ID PAYMENT_ID SIGNATURE
func (h *Handlers) HandlePay(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	bookingID, paymentID, signature, err := parsePayArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	// Проверяем что бронирование принадлежит пользователю
	booking, err := h.bookingService.GetBooking(ctx, session, bookingID)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	result, err := h.bookingService.HandleSuccessfulPayment(ctx, service.PaymentConfirmation{
		BookingID: booking.ID,
		OrderID:   booking.OrderID,
		PaymentID: paymentID,
		Signature: signature,
		Method:    "telegram",
	})
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, "🎉 "+result.Message+"\nYour ticket will arrive in this chat shortly.")
}

// HandleCancel обрабатывает команду /cancel [BOOKING_ID], отказ от оплаты
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	var bookingID int64
	switch len(args) {
	case 0:
		last, ok := h.stateManager.LastBooking(session.TelegramID)
		if !ok {
			h.sendError(ctx, b, chatID, "❌ Usage: "+usageCancel)
			return
		}
		bookingID = last
	case 1:
		id, err := parseID(args[0], "booking id")
		if err != nil {
			h.replyError(ctx, b, chatID, err)
			return
		}
		bookingID = id
	default:
		h.replyError(ctx, b, chatID, usageError(usageCancel))
		return
	}

	if _, err := h.bookingService.GetBooking(ctx, session, bookingID); err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	result, err := h.bookingService.HandlePaymentFailure(ctx, bookingID, "", "cancelled by user")
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, "✅ "+result.Message)
}

// HandleMyBookings обрабатывает команду /mybookings
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	bookings, err := h.bookingService.ListUserBookings(ctx, session)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	if len(bookings) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 You have no bookings yet.\n\nFind a train with /trains")
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Your bookings:\n\n")
	for i, booking := range bookings {
		if i == myBookingsLimit {
			fmt.Fprintf(&sb, "\n…and %d more", len(bookings)-myBookingsLimit)
			break
		}
		sb.WriteString(formatting.FormatBookingShort(booking))
		sb.WriteString("\n")
	}
	sb.WriteString("\nTicket: " + usageTicket)

	h.sendMessage(ctx, b, chatID, sb.String())
}

// HandleTicket обрабатывает команду /ticket PNR
func (h *Handlers) HandleTicket(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.replyError(ctx, b, chatID, usageError(usageTicket))
		return
	}

	if err := h.SendTicket(ctx, b, session, chatID, args[0]); err != nil {
		h.replyError(ctx, b, chatID, err)
	}
}

// SendTicket отправляет изображение билета в чат
func (h *Handlers) SendTicket(ctx context.Context, b *bot.Bot, session model.Session, chatID int64, pnr string) error {
	booking, doc, err := h.bookingService.TicketFor(ctx, session, pnr)
	if err != nil {
		return err
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: doc.Filename, Data: bytes.NewReader(doc.Data)},
		Caption: formatting.FormatBooking(booking),
	})
	if err != nil {
		h.logger.Error("Failed to send ticket", zap.String("pnr", booking.PNR), zap.Error(err))
	}
	return nil
}
