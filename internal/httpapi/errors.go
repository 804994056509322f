package httpapi

import (
	"errors"
	"net/http"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor HTTP статус для ошибки сервиса
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrUnknownClass),
		errors.Is(err, model.ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrTrainNotFound),
		errors.Is(err, model.ErrJourneyNotFound),
		errors.Is(err, model.ErrBookingNotFound),
		errors.Is(err, model.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInsufficientSeats),
		errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, model.ErrFareMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrPaymentGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError отвечает ошибкой, внутренние детали не отдаются клиенту
func (a *api) abortWithError(c *gin.Context, err error, body gin.H) {
	status := statusFor(err)
	if body == nil {
		body = gin.H{}
	}

	if status >= http.StatusInternalServerError {
		a.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		body["error"] = http.StatusText(status)
	} else {
		body["error"] = err.Error()
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}
