package handlers

import (
	"context"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/controller/formatting"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение, клавиатура необязательна
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, markup ...models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if len(markup) > 0 {
		params.ReplyMarkup = markup[0]
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// replyError переводит ошибку сервиса в текст для пользователя
func (h *Handlers) replyError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	text, internal := formatting.ErrorText(err)
	if internal {
		h.logger.Error("Command failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	h.sendError(ctx, b, chatID, text)
}
