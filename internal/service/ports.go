package service

import (
	"context"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/fare"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
)

type JourneyStore interface {
	Get(ctx context.Context, trainID int64, date time.Time) (*model.Journey, error)
	Create(ctx context.Context, journey *model.Journey) (*model.Journey, error)
	CompareAndSwapSeats(ctx context.Context, id int64, seats model.SeatAvailability, version int64) (bool, error)
}

type TrainStore interface {
	GetByID(ctx context.Context, id int64) (*model.Train, error)
	List(ctx context.Context) ([]*model.Train, error)
	Search(ctx context.Context, from, to string) ([]*model.TrainRoute, error)
	GetRoute(ctx context.Context, trainID int64, from, to string) (*model.TrainRoute, error)
	GetStops(ctx context.Context, trainID int64) ([]model.TrainStop, error)
}

type FareStore interface {
	LoadTable(ctx context.Context) (*fare.Table, error)
	Upsert(ctx context.Context, class model.FareClass, distanceKm, price float64) error
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type BookingStore interface {
	CreateWithPassengers(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	GetByPNR(ctx context.Context, pnr string) (*model.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Booking, error)
	SetOrderID(ctx context.Context, id int64, orderID string) error
	TransitionStatus(ctx context.Context, id int64, from, to model.BookingStatus) (bool, error)
	CancelWaitingBefore(ctx context.Context, cutoff time.Time) ([]*model.Booking, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	GetLatestByBookingID(ctx context.Context, bookingID int64) (*model.Payment, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
}

// PaymentGateway платёжный шлюз (Razorpay)
type PaymentGateway interface {
	Name() string
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*model.PaymentOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// DocumentRenderer формирует билет и счёт
type DocumentRenderer interface {
	Ticket(booking *model.Booking, train *model.Train) ([]byte, error)
	Invoice(booking *model.Booking, payment *model.Payment, train *model.Train) ([]byte, error)
}

// Notifier доставляет уведомления пользователю
type Notifier interface {
	Channel() string
	NotifyBookingConfirmed(ctx context.Context, user *model.User, booking *model.Booking, docs []model.Document) error
	NotifyBookingCancelled(ctx context.Context, user *model.User, booking *model.Booking, reason string) error
}
