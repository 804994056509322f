package handlers

import (
	"context"
	"fmt"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/controller/formatting"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	user := update.Message.From

	// Регистрируем пользователя
	registeredUser, err := h.userService.RegisterUser(
		ctx,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
	)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Registration failed. Please try again later.")
		return
	}

	h.stateManager.SetSession(model.SessionFor(registeredUser))

	welcomeText := fmt.Sprintf(
		"👋 Hello, %s!\n\n"+
			"I can find trains, quote fares and book tickets.\n\n"+
			"/trains FROM TO - trains between stations\n"+
			"/fare CLASS KM - fare quote\n"+
			"/seats TRAIN_ID DATE - seat availability\n"+
			"/book ... - book tickets (see /help)\n"+
			"/mybookings - my bookings\n"+
			"/help - full help",
		registeredUser.FirstName,
	)
	if registeredUser.IsAdmin {
		welcomeText += "\n\n🛠 Admin: /addfare, /release"
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Commands:\n\n" +
		usageTrains + "\n" +
		usageFare + "\n" +
		usageSeats + "\n\n" +
		usageBook + "\n\n" +
		usagePay + "\n" +
		usageCancel + "\n" +
		"/mybookings\n" +
		usageTicket + "\n\n" +
		"Classes: SL, 3A, 2A, 1A\n\n" +
		"Admin:\n" +
		usageAddFare + "\n" +
		usageRelease

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleTrains обрабатывает команду /trains FROM TO
func (h *Handlers) HandleTrains(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	from, to, err := parseTrainsArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	routes, err := h.trainService.Search(ctx, from, to)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatRoutes(from, to, routes))
}

// HandleFare обрабатывает команду /fare CLASS KM
func (h *Handlers) HandleFare(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	class, km, err := parseFareArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	quote, err := h.fareService.Quote(class, km)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatQuote(quote))
}

// HandleSeats обрабатывает команду /seats TRAIN_ID DATE
func (h *Handlers) HandleSeats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	trainID, date, err := parseSeatsArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	seats, err := h.inventoryService.GetAvailability(ctx, trainID, date)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatAvailability(trainID, date, seats))
}
