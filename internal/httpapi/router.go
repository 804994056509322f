package httpapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/fare"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fareQuoter interface {
	PriceFor(class model.FareClass, distanceKm float64) (float64, error)
	Quote(class model.FareClass, distanceKm float64) (fare.Quote, error)
}

type seatLookup interface {
	GetAvailability(ctx context.Context, trainID int64, date time.Time) (model.SeatAvailability, error)
}

type bookingFlow interface {
	CreateBookingWithPayment(ctx context.Context, session model.Session, req service.CreateBookingRequest) (service.BookingResult, error)
	HandleSuccessfulPayment(ctx context.Context, conf service.PaymentConfirmation) (service.BookingResult, error)
	HandleGatewayFailure(ctx context.Context, bookingID int64, orderID, paymentID, reason string) (service.BookingResult, error)
}

type userLookup interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Deps зависимости HTTP API
type Deps struct {
	Fares     fareQuoter
	Inventory seatLookup
	Bookings  bookingFlow
	Users     userLookup
	APIToken  string
	Logger    *zap.Logger
}

type api struct {
	fares     fareQuoter
	inventory seatLookup
	bookings  bookingFlow
	users     userLookup
	logger    *zap.Logger
}

// NewRouter собирает gin роутер
func NewRouter(deps Deps) *gin.Engine {
	a := &api{
		fares:     deps.Fares,
		inventory: deps.Inventory,
		bookings:  deps.Bookings,
		users:     deps.Users,
		logger:    deps.Logger,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(deps.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := r.Group("/api")
	{
		public.GET("/fares/quote", a.quote)
		public.GET("/journeys/:trainID/:date/availability", a.availability)
		public.POST("/payments/razorpay/callback", a.paymentCallback)
	}

	// Бронирование от имени пользователя только для доверенных клиентов
	protected := r.Group("/api").Use(requireToken(deps.APIToken))
	{
		protected.POST("/bookings", a.createBooking)
	}

	return r
}

// requestLogger пишет одну строку на запрос
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("HTTP request", fields...)
			return
		}
		logger.Info("HTTP request", fields...)
	}
}

// requireToken проверяет Bearer токен. Пустой токен в конфигурации закрывает маршрут.
func requireToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" || !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
