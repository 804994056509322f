package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/config"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/controller"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/document"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/httpapi"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/notification"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/payment"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/repository"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// offlineSecret подпись локального шлюза, только вне production
const offlineSecret = "offline-dev-secret"

// App собирает все компоненты сервиса
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	pool       *pgxpool.Pool
	httpServer *http.Server
	scheduler  *Scheduler
	bot        *controller.BotController
	bookings   *service.BookingService
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	if err := a.initDB(ctx); err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	if err := a.runMigrations(ctx); err != nil {
		a.pool.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	if err := a.initServices(ctx); err != nil {
		a.pool.Close()
		return nil, fmt.Errorf("init services: %w", err)
	}

	return a, nil
}

func (a *App) initDB(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, a.cfg.GetDBDSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	a.pool = pool
	a.logger.Info("Database connected")
	return nil
}

func (a *App) runMigrations(ctx context.Context) error {
	migrator, err := NewMigrator(a.pool, a.cfg.MigrationsDir, a.logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Run(ctx)
}

func (a *App) initServices(ctx context.Context) error {
	userRepo := repository.NewUserRepository(a.pool)
	trainRepo := repository.NewTrainRepository(a.pool)
	journeyRepo := repository.NewJourneyRepository(a.pool)
	fareRepo := repository.NewFareRepository(a.pool)
	bookingRepo := repository.NewBookingRepository(a.pool)
	paymentRepo := repository.NewPaymentRepository(a.pool)
	notificationRepo := repository.NewNotificationRepository(a.pool)

	gateway, err := a.paymentGateway()
	if err != nil {
		return err
	}

	// Бот необязателен: без токена работает только HTTP API
	var (
		botInstance *bot.Bot
		sender      notification.Sender
	)
	if a.cfg.TelegramToken != "" {
		botInstance, err = bot.New(a.cfg.TelegramToken)
		if err != nil {
			return fmt.Errorf("create telegram bot: %w", err)
		}
		sender = botInstance
	} else {
		a.logger.Warn("TELEGRAM_TOKEN is not set, bot and notifications are disabled")
	}

	userService := service.NewUserService(userRepo, a.cfg.IsAdmin, a.logger)
	trainService := service.NewTrainService(trainRepo, a.logger)
	inventoryService := service.NewInventoryService(journeyRepo, trainRepo, a.logger)

	fareService := service.NewFareService(fareRepo, a.logger)
	if err := fareService.Load(ctx); err != nil {
		return fmt.Errorf("load fares: %w", err)
	}

	bookingService := service.NewBookingService(service.BookingServiceDeps{
		Bookings:      bookingRepo,
		Payments:      paymentRepo,
		Notifications: notificationRepo,
		Users:         userRepo,
		Trains:        trainRepo,
		Inventory:     inventoryService,
		Fares:         fareService,
		Gateway:       gateway,
		Renderer:      document.NewRenderer(),
		Notifier:      notification.NewTelegramNotifier(sender, a.logger),
		FareCheck: service.FareCheck{
			Strict:    a.cfg.Fare.Strict,
			Tolerance: a.cfg.Fare.Tolerance,
		},
		Logger: a.logger,
	})

	a.bookings = bookingService
	a.scheduler = NewScheduler(bookingService, a.cfg.Booking.SchedulerInterval, a.cfg.Booking.TTL, a.logger)

	if botInstance != nil {
		a.bot = controller.NewBotController(botInstance, controller.Services{
			Users:     userService,
			Trains:    trainService,
			Fares:     fareService,
			Inventory: inventoryService,
			Bookings:  bookingService,
		}, a.cfg.SessionTTL, a.logger)
	}

	if a.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(httpapi.Deps{
		Fares:     fareService,
		Inventory: inventoryService,
		Bookings:  bookingService,
		Users:     userService,
		APIToken:  a.cfg.APIToken,
		Logger:    a.logger,
	})

	a.httpServer = &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return nil
}

// paymentGateway Razorpay если заданы ключи, иначе локальный шлюз
func (a *App) paymentGateway() (service.PaymentGateway, error) {
	rp := a.cfg.Razorpay
	if rp.KeyID != "" && rp.KeySecret != "" {
		a.logger.Info("Using Razorpay payment gateway", zap.String("base_url", rp.BaseURL))
		return payment.NewRazorpayClient(payment.RazorpayConfig{
			KeyID:     rp.KeyID,
			KeySecret: rp.KeySecret,
			BaseURL:   rp.BaseURL,
			Timeout:   rp.Timeout,
		}, a.logger), nil
	}

	if a.cfg.Environment == "production" {
		return nil, errors.New("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required in production")
	}

	a.logger.Warn("Razorpay keys are not set, using offline payment gateway")
	return payment.NewOfflineGateway(offlineSecret, a.logger), nil
}

// Run запускает бота, HTTP сервер и планировщик до сигнала остановки
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.scheduler.Start(ctx)

	if a.bot != nil {
		if err := a.bot.RegisterHandlers(ctx); err != nil {
			// Меню команд не критично, бот работает и без него
			a.logger.Warn("Failed to register bot commands menu", zap.Error(err))
		}
		go func() {
			_ = a.bot.Start(ctx)
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		stop()
	}

	if err := a.shutdown(); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

func (a *App) shutdown() error {
	a.logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.httpServer.Shutdown(shutdownCtx)
	if err != nil {
		err = fmt.Errorf("http server shutdown: %w", err)
	} else {
		a.logger.Info("HTTP server stopped")
	}

	a.scheduler.Stop()

	// Фоновые уведомления пишут в БД, пул закрывается после них
	drained := make(chan struct{})
	go func() {
		a.bookings.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		a.logger.Info("Background booking work finished")
	case <-shutdownCtx.Done():
		a.logger.Warn("Background booking work did not finish before timeout")
	}

	a.pool.Close()
	a.logger.Info("Database connection closed")

	a.logger.Info("App stopped")
	return err
}
