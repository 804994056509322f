package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/service"
	"github.com/gin-gonic/gin"
)

// GET /api/fares/quote?class=3A&km=450
func (a *api) quote(c *gin.Context) {
	class, err := model.ParseFareClass(c.Query("class"))
	if err != nil {
		a.abortWithError(c, err, nil)
		return
	}

	km, err := strconv.ParseFloat(c.Query("km"), 64)
	if err != nil {
		a.abortWithError(c, fmt.Errorf("%w: km must be a number", model.ErrValidation), nil)
		return
	}

	base, err := a.fares.PriceFor(class, km)
	if err != nil {
		a.abortWithError(c, err, nil)
		return
	}

	quote, err := a.fares.Quote(class, km)
	if err != nil {
		a.abortWithError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"class":       class,
		"distance_km": km,
		"base_price":  base,
		"quote":       quote,
	})
}

// GET /api/journeys/:trainID/:date/availability
func (a *api) availability(c *gin.Context) {
	trainID, err := strconv.ParseInt(c.Param("trainID"), 10, 64)
	if err != nil || trainID <= 0 {
		a.abortWithError(c, fmt.Errorf("%w: train id must be a positive number", model.ErrValidation), nil)
		return
	}

	date, err := time.Parse(time.DateOnly, c.Param("date"))
	if err != nil {
		a.abortWithError(c, fmt.Errorf("%w: date must be YYYY-MM-DD", model.ErrValidation), nil)
		return
	}

	seats, err := a.inventory.GetAvailability(c.Request.Context(), trainID, date)
	if err != nil {
		a.abortWithError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"train_id": trainID,
		"date":     date.Format(time.DateOnly),
		"seats":    seats,
	})
}

type createBookingBody struct {
	UserID      int64                    `json:"user_id" binding:"required"`
	TrainID     int64                    `json:"train_id" binding:"required"`
	JourneyDate string                   `json:"journey_date" binding:"required"`
	FromStation string                   `json:"from_station" binding:"required"`
	ToStation   string                   `json:"to_station" binding:"required"`
	Class       string                   `json:"class" binding:"required"`
	Passengers  []service.PassengerInput `json:"passengers" binding:"required"`
	TotalAmount float64                  `json:"total_amount" binding:"required"`
}

// POST /api/bookings
func (a *api) createBooking(c *gin.Context) {
	var body createBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		a.abortWithError(c, fmt.Errorf("%w: %v", model.ErrValidation, err), nil)
		return
	}

	date, err := time.Parse(time.DateOnly, body.JourneyDate)
	if err != nil {
		a.abortWithError(c, fmt.Errorf("%w: journey_date must be YYYY-MM-DD", model.ErrValidation), nil)
		return
	}

	user, err := a.users.GetByID(c.Request.Context(), body.UserID)
	if err != nil {
		a.abortWithError(c, err, nil)
		return
	}

	result, err := a.bookings.CreateBookingWithPayment(c.Request.Context(), model.SessionFor(user), service.CreateBookingRequest{
		TrainID:     body.TrainID,
		JourneyDate: date,
		FromStation: body.FromStation,
		ToStation:   body.ToStation,
		Class:       body.Class,
		Passengers:  body.Passengers,
		TotalAmount: body.TotalAmount,
	})
	if err != nil {
		a.abortWithError(c, err, gin.H{"message": result.Message, "booking": result.Booking})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// gatewayError ошибка оплаты в формате checkout Razorpay
type gatewayError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
	Metadata    struct {
		OrderID   string `json:"order_id"`
		PaymentID string `json:"payment_id"`
	} `json:"metadata"`
}

type paymentCallbackBody struct {
	service.PaymentConfirmation
	Error *gatewayError `json:"error"`
}

// POST /api/payments/razorpay/callback
func (a *api) paymentCallback(c *gin.Context) {
	var body paymentCallbackBody
	if err := c.ShouldBindJSON(&body); err != nil {
		a.abortWithError(c, fmt.Errorf("%w: %v", model.ErrValidation, err), nil)
		return
	}
	if body.BookingID <= 0 {
		a.abortWithError(c, fmt.Errorf("%w: booking_id is required", model.ErrValidation), nil)
		return
	}

	if body.Error != nil {
		a.paymentFailed(c, body.BookingID, body.Error)
		return
	}

	result, err := a.bookings.HandleSuccessfulPayment(c.Request.Context(), body.PaymentConfirmation)
	if err != nil {
		a.abortWithError(c, err, gin.H{"message": result.Message})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (a *api) paymentFailed(c *gin.Context, bookingID int64, gwErr *gatewayError) {
	reason := gwErr.Description
	if reason == "" {
		reason = gwErr.Code
	}

	result, err := a.bookings.HandleGatewayFailure(c.Request.Context(), bookingID, gwErr.Metadata.OrderID, gwErr.Metadata.PaymentID, reason)
	if err != nil {
		a.abortWithError(c, err, gin.H{"message": result.Message})
		return
	}

	c.JSON(http.StatusOK, result)
}
