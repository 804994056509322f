package handlers

import (
	"context"
	"errors"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireSession возвращает сессию зарегистрированного пользователя
func (h *Handlers) requireSession(ctx context.Context, b *bot.Bot, update *models.Update) (model.Session, bool) {
	if update.Message == nil || update.Message.From == nil {
		return model.Session{}, false
	}

	telegramID := update.Message.From.ID
	if session, ok := h.stateManager.GetSession(telegramID); ok {
		return session, true
	}

	user, err := h.userService.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			h.sendError(ctx, b, update.Message.Chat.ID, "❌ You are not registered yet. Send /start first.")
			return model.Session{}, false
		}
		h.logger.Error("Failed to get user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Something went wrong. Please try again later.")
		return model.Session{}, false
	}

	session := model.SessionFor(user)
	h.stateManager.SetSession(session)
	return session, true
}

// requireAdmin проверяет что пользователь администратор
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) (model.Session, bool) {
	session, ok := h.requireSession(ctx, b, update)
	if !ok {
		return model.Session{}, false
	}

	if !session.IsAdmin {
		h.sendError(ctx, b, update.Message.Chat.ID, "⛔ This command is available to administrators only.")
		return model.Session{}, false
	}

	return session, true
}
