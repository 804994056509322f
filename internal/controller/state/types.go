package state

import (
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
)

// UserData кэш сессии пользователя бота
type UserData struct {
	Session       model.Session
	LastBookingID int64 // последнее созданное бронирование, для /pay без id
	SeenAt        time.Time
}
