package controller

import (
	"context"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/controller/callbacks"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/controller/handlers"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/controller/state"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Services сервисы, которые использует бот
type Services struct {
	Users     *service.UserService
	Trains    *service.TrainService
	Fares     *service.FareService
	Inventory *service.InventoryService
	Bookings  *service.BookingService
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	services Services,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager(sessionTTL)

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		services.Users,
		services.Trains,
		services.Fares,
		services.Inventory,
		services.Bookings,
		stateManager,
		logger,
	)

	callbackHandler := callbacks.NewHandler(
		services.Users,
		services.Bookings,
		stateManager,
		cmdHandlers.SendTicket,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)

	// Команды с аргументами
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/trains", bot.MatchTypePrefix, c.handlers.HandleTrains)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/fare", bot.MatchTypePrefix, c.handlers.HandleFare)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/seats", bot.MatchTypePrefix, c.handlers.HandleSeats)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypePrefix, c.handlers.HandleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/pay", bot.MatchTypePrefix, c.handlers.HandlePay)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypePrefix, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/ticket", bot.MatchTypePrefix, c.handlers.HandleTicket)

	// Команды администратора
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addfare", bot.MatchTypePrefix, c.handlers.HandleAddFare)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/release", bot.MatchTypePrefix, c.handlers.HandleRelease)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Start"},
		{Command: "help", Description: "❓ Help"},
		{Command: "trains", Description: "🚆 Trains between stations"},
		{Command: "fare", Description: "💰 Fare quote"},
		{Command: "seats", Description: "💺 Seat availability"},
		{Command: "book", Description: "🎟 Book tickets"},
		{Command: "mybookings", Description: "📋 My bookings"},
		{Command: "ticket", Description: "🎫 Ticket by PNR"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
