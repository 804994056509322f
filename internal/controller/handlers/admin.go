package handlers

import (
	"context"
	"fmt"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/controller/formatting"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleAddFare обрабатывает команду /addfare CLASS KM PRICE
func (h *Handlers) HandleAddFare(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, ok := h.requireAdmin(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	class, km, price, err := parseAddFareArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	if err := h.fareService.AddFare(ctx, session, class, km, price); err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Fare for %s at %.0f km set to %s (%d entries in %s)",
		class, km, formatting.FormatFare(price), len(h.fareService.Entries(class)), class))
}

// HandleRelease обрабатывает команду /release TRAIN_ID DATE CLASS N
func (h *Handlers) HandleRelease(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, ok := h.requireAdmin(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args, err := parseReleaseArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	if err := h.inventoryService.Release(ctx, args.trainID, args.date, args.class, args.count); err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.logger.Info("Seats released by admin",
		zap.Int64("user_id", session.UserID),
		zap.Int64("train_id", args.trainID),
		zap.String("class", string(args.class)),
		zap.Int("count", args.count),
	)

	seats, err := h.inventoryService.GetAvailability(ctx, args.trainID, args.date)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}
	h.sendMessage(ctx, b, chatID, "✅ Released.\n\n"+formatting.FormatAvailability(args.trainID, args.date, seats))
}
