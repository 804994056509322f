package callbacks

import (
	"context"
	"strings"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/controller/formatting"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/controller/keyboard"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/controller/state"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// TicketSender отправляет билет в чат
type TicketSender func(ctx context.Context, b *bot.Bot, session model.Session, chatID int64, pnr string) error

// Handler обрабатывает нажатия на inline кнопки
type Handler struct {
	userService    *service.UserService
	bookingService *service.BookingService
	stateManager   *state.Manager
	sendTicket     TicketSender
	logger         *zap.Logger
}

func NewHandler(
	userService *service.UserService,
	bookingService *service.BookingService,
	stateManager *state.Manager,
	sendTicket TicketSender,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userService:    userService,
		bookingService: bookingService,
		stateManager:   stateManager,
		sendTicket:     sendTicket,
		logger:         logger,
	}
}

// HandleCallbackQuery распределяет callback query по обработчикам
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	data := callback.Data
	h.logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
	)

	switch {
	case strings.HasPrefix(data, keyboard.CancelBooking):
		h.handleCancelBooking(ctx, b, callback)
	case strings.HasPrefix(data, keyboard.ConfirmCancel):
		h.handleConfirmCancel(ctx, b, callback)
	case strings.HasPrefix(data, keyboard.KeepBooking):
		h.handleKeepBooking(ctx, b, callback)
	case strings.HasPrefix(data, keyboard.ShowTicket):
		h.handleShowTicket(ctx, b, callback)
	default:
		h.logger.Warn("Unknown callback", zap.String("data", data))
		answer(ctx, b, callback.ID, "")
	}
}

// session возвращает сессию нажавшего кнопку
func (h *Handler) session(ctx context.Context, telegramID int64) (model.Session, error) {
	if session, ok := h.stateManager.GetSession(telegramID); ok {
		return session, nil
	}

	user, err := h.userService.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return model.Session{}, err
	}

	session := model.SessionFor(user)
	h.stateManager.SetSession(session)
	return session, nil
}

func (h *Handler) handleCancelBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	bookingID, err := keyboard.ParseID(callback.Data)
	if err != nil {
		answerAlert(ctx, b, callback.ID, "❌ Invalid button")
		return
	}

	msg := messageOf(callback)
	if msg == nil {
		answer(ctx, b, callback.ID, "")
		return
	}

	_, err = b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		ReplyMarkup: keyboard.ConfirmCancelKeyboard(bookingID),
	})
	if err != nil {
		h.logger.Error("Failed to show cancel confirmation", zap.Int64("booking_id", bookingID), zap.Error(err))
	}
	answer(ctx, b, callback.ID, "")
}

func (h *Handler) handleKeepBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	bookingID, err := keyboard.ParseID(callback.Data)
	if err != nil {
		answerAlert(ctx, b, callback.ID, "❌ Invalid button")
		return
	}

	if msg := messageOf(callback); msg != nil {
		_, err = b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
			ChatID:    msg.Chat.ID,
			MessageID: msg.ID,
			ReplyMarkup: keyboard.NewBuilder().
				Row(keyboard.Button("❌ Cancel booking", keyboard.CancelBooking+strings.TrimPrefix(callback.Data, keyboard.KeepBooking))).
				Build(),
		})
		if err != nil {
			h.logger.Error("Failed to restore booking keyboard", zap.Int64("booking_id", bookingID), zap.Error(err))
		}
	}
	answer(ctx, b, callback.ID, "👍")
}

func (h *Handler) handleConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	bookingID, err := keyboard.ParseID(callback.Data)
	if err != nil {
		answerAlert(ctx, b, callback.ID, "❌ Invalid button")
		return
	}

	session, err := h.session(ctx, callback.From.ID)
	if err != nil {
		h.answerError(ctx, b, callback.ID, err)
		return
	}

	// Проверяем владельца перед отменой
	if _, err := h.bookingService.GetBooking(ctx, session, bookingID); err != nil {
		h.answerError(ctx, b, callback.ID, err)
		return
	}

	result, err := h.bookingService.HandlePaymentFailure(ctx, bookingID, "", "cancelled by user")
	if err != nil {
		h.answerError(ctx, b, callback.ID, err)
		return
	}

	if msg := messageOf(callback); msg != nil && result.Booking != nil {
		_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      msg.Chat.ID,
			MessageID:   msg.ID,
			Text:        "✅ " + result.Message + "\n\n" + formatting.FormatBooking(result.Booking),
			ReplyMarkup: keyboard.Empty(),
		})
		if err != nil {
			h.logger.Error("Failed to update cancelled booking message", zap.Int64("booking_id", bookingID), zap.Error(err))
		}
	}
	answer(ctx, b, callback.ID, "Booking cancelled")
}

func (h *Handler) handleShowTicket(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	pnr, ok := keyboard.ParseValue(callback.Data, keyboard.ShowTicket)
	if !ok {
		answerAlert(ctx, b, callback.ID, "❌ Invalid button")
		return
	}

	msg := messageOf(callback)
	if msg == nil {
		answer(ctx, b, callback.ID, "")
		return
	}

	session, err := h.session(ctx, callback.From.ID)
	if err != nil {
		h.answerError(ctx, b, callback.ID, err)
		return
	}

	if err := h.sendTicket(ctx, b, session, msg.Chat.ID, pnr); err != nil {
		h.answerError(ctx, b, callback.ID, err)
		return
	}
	answer(ctx, b, callback.ID, "")
}

// answerError показывает ошибку сервиса во всплывающем окне
func (h *Handler) answerError(ctx context.Context, b *bot.Bot, callbackID string, err error) {
	text, internal := formatting.ErrorText(err)
	if internal {
		h.logger.Error("Callback failed", zap.Error(err))
	}
	answerAlert(ctx, b, callbackID, text)
}
