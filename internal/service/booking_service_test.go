package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/fare"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bookingFixture struct {
	svc           *BookingService
	bookings      *memBookings
	payments      *memPayments
	notifications *memNotifications
	users         *memUsers
	journeys      *memJourneys
	gateway       *mockGateway
	renderer      *mockRenderer
	notifier      *mockNotifier
	session       model.Session
	now           time.Time
}

func newBookingFixture(t *testing.T, check FareCheck) *bookingFixture {
	t.Helper()

	f := &bookingFixture{
		bookings:      newMemBookings(),
		payments:      &memPayments{},
		notifications: &memNotifications{},
		users:         newMemUsers(),
		journeys:      newMemJourneys(),
		gateway:       &mockGateway{},
		renderer:      &mockRenderer{},
		notifier:      &mockNotifier{},
		now:           time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
	}

	trains := newMemTrains()
	trains.add(
		&model.Train{ID: 1, Number: "12951", Name: "Mumbai Rajdhani", Classes: model.FareClasses},
		model.TrainStop{StationCode: "MMCT", DistanceKm: 0},
		model.TrainStop{StationCode: "BRC", DistanceKm: 392},
		model.TrainStop{StationCode: "KOTA", DistanceKm: 919},
		model.TrainStop{StationCode: "NDLS", DistanceKm: 1384},
	)
	f.journeys.put(1, testDate, model.SeatAvailability{model.ClassSL: 0, model.Class3A: 10, model.Class2A: 4, model.Class1A: 2})

	user := &model.User{TelegramID: 1001, FirstName: "Asha"}
	require.NoError(t, f.users.Create(context.Background(), user))
	f.session = model.SessionFor(user)

	fares := NewFareService(&memFares{table: fare.SampleTable()}, zap.NewNop())
	require.NoError(t, fares.Load(context.Background()))

	f.svc = NewBookingService(BookingServiceDeps{
		Bookings:      f.bookings,
		Payments:      f.payments,
		Notifications: f.notifications,
		Users:         f.users,
		Trains:        trains,
		Inventory:     NewInventoryService(f.journeys, trains, zap.NewNop(), WithJitter(0)),
		Fares:         fares,
		Gateway:       f.gateway,
		Renderer:      f.renderer,
		Notifier:      f.notifier,
		FareCheck:     check,
		Logger:        zap.NewNop(),
		Dispatch:      func(fn func()) { fn() },
		Now:           func() time.Time { return f.now },
		NewPNR:        func() string { return "PNR0000001" },
	})
	return f
}

func validRequest() CreateBookingRequest {
	return CreateBookingRequest{
		TrainID:     1,
		JourneyDate: testDate,
		FromStation: "mmct",
		ToStation:   "BRC",
		Class:       "3A",
		Passengers: []PassengerInput{
			{Name: "Asha Rao", Age: 34, Gender: "F"},
			{Name: "Vikram Rao", Age: 36, Gender: "M"},
		},
		TotalAmount: 900,
	}
}

// createPaid создаёт бронирование с заказом order_1
func (f *bookingFixture) createPaid(t *testing.T) *model.Booking {
	t.Helper()
	f.gateway.On("CreateOrder", mock.Anything, int64(90000), "INR", "PNR0000001").
		Return(&model.PaymentOrder{ID: "order_1", Amount: 90000, Currency: "INR", Receipt: "PNR0000001", Status: "created"}, nil).
		Once()

	res, err := f.svc.CreateBookingWithPayment(context.Background(), f.session, validRequest())
	require.NoError(t, err)
	require.True(t, res.Success)
	return res.Booking
}

func (f *bookingFixture) expectDelivery() {
	f.renderer.On("Ticket", mock.Anything, mock.Anything).Return([]byte("ticket"), nil)
	f.renderer.On("Invoice", mock.Anything, mock.Anything, mock.Anything).Return([]byte("invoice"), nil)
	f.notifier.On("NotifyBookingConfirmed", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func TestBookingService_CreateBookingWithPayment(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})

	booking := f.createPaid(t)

	assert.Equal(t, model.BookingStatusWaiting, booking.Status)
	assert.Equal(t, "PNR0000001", booking.PNR)
	assert.Equal(t, "MMCT", booking.FromStation)
	assert.Equal(t, "order_1", booking.OrderID)
	assert.Equal(t, int64(90000), booking.TotalAmount)
	require.Len(t, booking.Passengers, 2)
	assert.Equal(t, "A1", booking.Passengers[0].SeatNumber)
	assert.Equal(t, "A2", booking.Passengers[1].SeatNumber)
	assert.Equal(t, model.Class3A, booking.Passengers[1].CoachType)

	stored, err := f.bookings.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "order_1", stored.OrderID)

	// Места списываются только после оплаты
	assert.Equal(t, 10, f.journeys.seats(1, testDate)[model.Class3A])
	f.gateway.AssertExpectations(t)
}

func TestBookingService_CreateBookingInsufficientSeats(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	req := validRequest()
	req.Class = "1A"
	req.Passengers = append(req.Passengers, PassengerInput{Name: "Mira", Age: 8, Gender: "F"})

	res, err := f.svc.CreateBookingWithPayment(context.Background(), f.session, req)

	assert.ErrorIs(t, err, model.ErrInsufficientSeats)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Only 2 seats")
	list, _ := f.bookings.ListByUser(context.Background(), f.session.UserID)
	assert.Empty(t, list)
	f.gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_CreateBookingSoldOutClass(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	req := validRequest()
	req.Class = "SL"

	_, err := f.svc.CreateBookingWithPayment(context.Background(), f.session, req)
	assert.ErrorIs(t, err, model.ErrInsufficientSeats)
}

func TestBookingService_CreateBookingValidation(t *testing.T) {
	tests := []struct {
		name    string
		session model.Session
		modify  func(r *CreateBookingRequest)
		wantErr error
	}{
		{name: "no user", session: model.Session{}, modify: func(r *CreateBookingRequest) {}, wantErr: model.ErrValidation},
		{name: "no passengers", modify: func(r *CreateBookingRequest) { r.Passengers = nil }, wantErr: model.ErrValidation},
		{name: "zero train", modify: func(r *CreateBookingRequest) { r.TrainID = 0 }, wantErr: model.ErrValidation},
		{name: "zero total", modify: func(r *CreateBookingRequest) { r.TotalAmount = 0 }, wantErr: model.ErrValidation},
		{name: "no date", modify: func(r *CreateBookingRequest) { r.JourneyDate = time.Time{} }, wantErr: model.ErrValidation},
		{name: "empty station", modify: func(r *CreateBookingRequest) { r.ToStation = " " }, wantErr: model.ErrValidation},
		{name: "bad age", modify: func(r *CreateBookingRequest) { r.Passengers[0].Age = 0 }, wantErr: model.ErrValidation},
		{name: "old age", modify: func(r *CreateBookingRequest) { r.Passengers[1].Age = 126 }, wantErr: model.ErrValidation},
		{name: "bad gender", modify: func(r *CreateBookingRequest) { r.Passengers[0].Gender = "X" }, wantErr: model.ErrValidation},
		{name: "blank name", modify: func(r *CreateBookingRequest) { r.Passengers[0].Name = "" }, wantErr: model.ErrValidation},
		{name: "unknown class", modify: func(r *CreateBookingRequest) { r.Class = "CC" }, wantErr: model.ErrUnknownClass},
		{name: "reversed route", modify: func(r *CreateBookingRequest) { r.FromStation, r.ToStation = "BRC", "MMCT" }, wantErr: model.ErrTrainNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t, FareCheck{Tolerance: 1})
			session := f.session
			if tt.name == "no user" {
				session = tt.session
			}
			req := validRequest()
			tt.modify(&req)

			res, err := f.svc.CreateBookingWithPayment(context.Background(), session, req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, res.Success)
			assert.NotEmpty(t, res.Message)
			list, _ := f.bookings.ListByUser(context.Background(), f.session.UserID)
			assert.Empty(t, list)
		})
	}
}

func TestBookingService_CreateBookingFareMismatch(t *testing.T) {
	req := validRequest()
	req.TotalAmount = 500

	strict := newBookingFixture(t, FareCheck{Strict: true, Tolerance: 1})
	_, err := strict.svc.CreateBookingWithPayment(context.Background(), strict.session, req)
	assert.ErrorIs(t, err, model.ErrFareMismatch)

	// Без строгого режима сумма клиента принимается
	lenient := newBookingFixture(t, FareCheck{Tolerance: 1})
	lenient.gateway.On("CreateOrder", mock.Anything, int64(50000), "INR", "PNR0000001").
		Return(&model.PaymentOrder{ID: "order_2"}, nil)
	res, err := lenient.svc.CreateBookingWithPayment(context.Background(), lenient.session, req)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), res.Booking.TotalAmount)
}

func TestBookingService_CreateBookingFareUsesRouteDistance(t *testing.T) {
	pricer := NewFareService(&memFares{table: fare.SampleTable()}, zap.NewNop())
	require.NoError(t, pricer.Load(context.Background()))

	req := validRequest()
	req.ToStation = "NDLS"

	// Сумма за 1 км вместо 1384 км маршрута
	short, err := pricer.ExpectedTotal(model.Class3A, 1, len(req.Passengers))
	require.NoError(t, err)
	req.TotalAmount = short

	f := newBookingFixture(t, FareCheck{Strict: true, Tolerance: 1})
	res, err := f.svc.CreateBookingWithPayment(context.Background(), f.session, req)
	assert.ErrorIs(t, err, model.ErrFareMismatch)
	assert.False(t, res.Success)
	f.gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	full, err := pricer.ExpectedTotal(model.Class3A, 1384, len(req.Passengers))
	require.NoError(t, err)
	req.TotalAmount = full

	f.gateway.On("CreateOrder", mock.Anything, mock.Anything, "INR", "PNR0000001").
		Return(&model.PaymentOrder{ID: "order_1"}, nil)
	res, err = f.svc.CreateBookingWithPayment(context.Background(), f.session, req)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestBookingService_CreateBookingGatewayFailure(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	f.gateway.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("timeout"))

	res, err := f.svc.CreateBookingWithPayment(context.Background(), f.session, validRequest())

	assert.ErrorIs(t, err, model.ErrPaymentGateway)
	assert.False(t, res.Success)
	require.NotNil(t, res.Booking)

	stored, err := f.bookings.GetByID(context.Background(), res.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusWaiting, stored.Status)
	assert.Empty(t, stored.OrderID)
}

func TestBookingService_HandleSuccessfulPayment(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	booking := f.createPaid(t)
	f.gateway.On("VerifySignature", "order_1", "pay_1", "sig").Return(true)
	f.expectDelivery()

	res, err := f.svc.HandleSuccessfulPayment(context.Background(), PaymentConfirmation{
		BookingID: booking.ID, OrderID: "order_1", PaymentID: "pay_1", Signature: "sig", Method: "upi",
	})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, model.BookingStatusConfirmed, f.bookings.status(booking.ID))

	payments := f.payments.all()
	require.Len(t, payments, 1)
	assert.Equal(t, model.PaymentStatusSuccess, payments[0].Status)
	assert.Equal(t, int64(90000), payments[0].Amount)
	assert.Equal(t, "razorpay", payments[0].Provider)
	assert.Equal(t, "upi", payments[0].Method)

	assert.Equal(t, 8, f.journeys.seats(1, testDate)[model.Class3A])

	f.notifier.AssertCalled(t, "NotifyBookingConfirmed", mock.Anything, mock.Anything, mock.Anything,
		mock.MatchedBy(func(docs []model.Document) bool { return len(docs) == 2 }))
	notes := f.notifications.all()
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationStatusSent, notes[0].Status)
	assert.Equal(t, "telegram", notes[0].Channel)
}

func TestBookingService_HandleSuccessfulPaymentInvalidSignature(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	booking := f.createPaid(t)
	f.gateway.On("VerifySignature", "order_1", "pay_1", "forged").Return(false)

	res, err := f.svc.HandleSuccessfulPayment(context.Background(), PaymentConfirmation{
		BookingID: booking.ID, OrderID: "order_1", PaymentID: "pay_1", Signature: "forged",
	})

	assert.ErrorIs(t, err, model.ErrInvalidSignature)
	assert.False(t, res.Success)
	assert.Equal(t, model.BookingStatusWaiting, f.bookings.status(booking.ID))
	assert.Empty(t, f.payments.all())
}

func TestBookingService_HandleSuccessfulPaymentForeignOrder(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	booking := f.createPaid(t)
	f.gateway.On("VerifySignature", "order_other", "pay_1", "sig").Return(true)

	_, err := f.svc.HandleSuccessfulPayment(context.Background(), PaymentConfirmation{
		BookingID: booking.ID, OrderID: "order_other", PaymentID: "pay_1", Signature: "sig",
	})

	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, model.BookingStatusWaiting, f.bookings.status(booking.ID))
}

func TestBookingService_HandleSuccessfulPaymentWithoutOrder(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	f.gateway.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("timeout"))
	created, _ := f.svc.CreateBookingWithPayment(context.Background(), f.session, validRequest())
	require.NotNil(t, created.Booking)
	require.Empty(t, created.Booking.OrderID)

	// Подпись валидна для чужого заказа
	f.gateway.On("VerifySignature", "order_someone_else", "pay_1", "sig").Return(true)

	res, err := f.svc.HandleSuccessfulPayment(context.Background(), PaymentConfirmation{
		BookingID: created.Booking.ID, OrderID: "order_someone_else", PaymentID: "pay_1", Signature: "sig",
	})

	assert.ErrorIs(t, err, model.ErrValidation)
	assert.False(t, res.Success)
	assert.Equal(t, model.BookingStatusWaiting, f.bookings.status(created.Booking.ID))
	assert.Empty(t, f.payments.all())
	assert.Equal(t, 10, f.journeys.seats(1, testDate)[model.Class3A])
}

func TestBookingService_HandleSuccessfulPaymentIsIdempotent(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	booking := f.createPaid(t)
	f.gateway.On("VerifySignature", mock.Anything, mock.Anything, mock.Anything).Return(true)
	f.expectDelivery()

	conf := PaymentConfirmation{BookingID: booking.ID, OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"}
	_, err := f.svc.HandleSuccessfulPayment(context.Background(), conf)
	require.NoError(t, err)

	res, err := f.svc.HandleSuccessfulPayment(context.Background(), conf)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Len(t, f.payments.all(), 1)
	assert.Equal(t, 8, f.journeys.seats(1, testDate)[model.Class3A], "seats reserved once")

	conf.PaymentID = "pay_2"
	_, err = f.svc.HandleSuccessfulPayment(context.Background(), conf)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestBookingService_PaymentRecordFailureKeepsConfirmation(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	booking := f.createPaid(t)
	f.gateway.On("VerifySignature", mock.Anything, mock.Anything, mock.Anything).Return(true)
	f.expectDelivery()
	f.payments.createErr = errors.New("disk full")

	res, err := f.svc.HandleSuccessfulPayment(context.Background(), PaymentConfirmation{
		BookingID: booking.ID, OrderID: "order_1", PaymentID: "pay_1", Signature: "sig",
	})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, model.BookingStatusConfirmed, f.bookings.status(booking.ID))
}

func TestBookingService_DeliveryFailuresAreSwallowed(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	booking := f.createPaid(t)
	f.gateway.On("VerifySignature", mock.Anything, mock.Anything, mock.Anything).Return(true)
	f.renderer.On("Ticket", mock.Anything, mock.Anything).Return(nil, errors.New("font missing"))
	f.renderer.On("Invoice", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("font missing"))
	f.notifier.On("NotifyBookingConfirmed", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("chat not found"))

	res, err := f.svc.HandleSuccessfulPayment(context.Background(), PaymentConfirmation{
		BookingID: booking.ID, OrderID: "order_1", PaymentID: "pay_1", Signature: "sig",
	})

	require.NoError(t, err)
	assert.True(t, res.Success)
	notes := f.notifications.all()
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationStatusFailed, notes[0].Status)
}

func TestBookingService_HandlePaymentFailure(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	booking := f.createPaid(t)
	f.notifier.On("NotifyBookingCancelled", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(model.ErrNotificationSkipped)

	res, err := f.svc.HandlePaymentFailure(context.Background(), booking.ID, "pay_9", "card declined")

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, model.BookingStatusCancelled, f.bookings.status(booking.ID))

	payments := f.payments.all()
	require.Len(t, payments, 1)
	assert.Equal(t, model.PaymentStatusFailed, payments[0].Status)
	assert.Equal(t, "card declined", payments[0].FailureReason)

	notes := f.notifications.all()
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationStatusSkipped, notes[0].Status)

	// Отменённое бронирование нельзя подтвердить
	f.gateway.On("VerifySignature", mock.Anything, mock.Anything, mock.Anything).Return(true)
	_, err = f.svc.HandleSuccessfulPayment(context.Background(), PaymentConfirmation{
		BookingID: booking.ID, OrderID: "order_1", PaymentID: "pay_1", Signature: "sig",
	})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestBookingService_HandlePaymentFailureWithoutTransaction(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	booking := f.createPaid(t)
	f.notifier.On("NotifyBookingCancelled", mock.Anything, mock.Anything, mock.Anything, "cancelled by user").Return(nil)

	res, err := f.svc.HandlePaymentFailure(context.Background(), booking.ID, "", "cancelled by user")

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, model.BookingStatusCancelled, f.bookings.status(booking.ID))
	assert.Empty(t, f.payments.all())
	require.Len(t, f.notifications.all(), 1)
	f.notifier.AssertExpectations(t)
}

func TestBookingService_HandlePaymentFailureOnConfirmed(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	booking := f.createPaid(t)
	f.gateway.On("VerifySignature", mock.Anything, mock.Anything, mock.Anything).Return(true)
	f.expectDelivery()
	_, err := f.svc.HandleSuccessfulPayment(context.Background(), PaymentConfirmation{
		BookingID: booking.ID, OrderID: "order_1", PaymentID: "pay_1", Signature: "sig",
	})
	require.NoError(t, err)

	_, err = f.svc.HandlePaymentFailure(context.Background(), booking.ID, "pay_1", "late failure")
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Equal(t, model.BookingStatusConfirmed, f.bookings.status(booking.ID))
}

func TestBookingService_HandleGatewayFailure(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	booking := f.createPaid(t)
	f.notifier.On("NotifyBookingCancelled", mock.Anything, mock.Anything, mock.Anything, "BAD_REQUEST_ERROR").Return(nil)

	_, err := f.svc.HandleGatewayFailure(context.Background(), booking.ID, "order_other", "pay_9", "BAD_REQUEST_ERROR")
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, model.BookingStatusWaiting, f.bookings.status(booking.ID))

	res, err := f.svc.HandleGatewayFailure(context.Background(), booking.ID, "order_1", "pay_9", "BAD_REQUEST_ERROR")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "BAD_REQUEST_ERROR")
	assert.Equal(t, model.BookingStatusCancelled, f.bookings.status(booking.ID))
	f.notifier.AssertExpectations(t)
}

func TestBookingService_CancelExpired(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	old := f.createPaid(t)
	f.bookings.setCreatedAt(old.ID, f.now.Add(-time.Hour))

	f.svc.newPNR = func() string { return "PNR0000002" }
	f.gateway.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything, "PNR0000002").
		Return(&model.PaymentOrder{ID: "order_2"}, nil)
	fresh, err := f.svc.CreateBookingWithPayment(context.Background(), f.session, validRequest())
	require.NoError(t, err)
	f.bookings.setCreatedAt(fresh.Booking.ID, f.now.Add(-time.Minute))

	f.notifier.On("NotifyBookingCancelled", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	n, err := f.svc.CancelExpired(context.Background(), 20*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, model.BookingStatusCancelled, f.bookings.status(old.ID))
	assert.Equal(t, model.BookingStatusWaiting, f.bookings.status(fresh.Booking.ID))
}

func TestBookingService_GetBookingOwnership(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	booking := f.createPaid(t)

	got, err := f.svc.GetBooking(context.Background(), f.session, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.PNR, got.PNR)

	_, err = f.svc.GetBooking(context.Background(), model.Session{UserID: 99}, booking.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)

	got, err = f.svc.GetByPNR(context.Background(), model.Session{UserID: 99, IsAdmin: true}, "pnr0000001")
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	_, err = f.svc.GetBooking(context.Background(), f.session, 404)
	assert.ErrorIs(t, err, model.ErrBookingNotFound)
}

func TestBookingService_TicketFor(t *testing.T) {
	f := newBookingFixture(t, FareCheck{Tolerance: 1})
	booking := f.createPaid(t)

	_, _, err := f.svc.TicketFor(context.Background(), f.session, booking.PNR)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	f.gateway.On("VerifySignature", mock.Anything, mock.Anything, mock.Anything).Return(true)
	f.expectDelivery()
	_, err = f.svc.HandleSuccessfulPayment(context.Background(), PaymentConfirmation{
		BookingID: booking.ID, OrderID: "order_1", PaymentID: "pay_1", Signature: "sig",
	})
	require.NoError(t, err)

	got, doc, err := f.svc.TicketFor(context.Background(), f.session, booking.PNR)
	require.NoError(t, err)
	assert.Equal(t, "ticket_PNR0000001.png", doc.Filename)
	assert.Equal(t, []byte("ticket"), doc.Data)
	assert.Equal(t, "12951", got.Train.Number)
}

func TestBookingService_WaitDrainsBackgroundWork(t *testing.T) {
	svc := NewBookingService(BookingServiceDeps{Logger: zap.NewNop()})

	var done atomic.Int32
	for i := 0; i < 3; i++ {
		svc.dispatch(func() {
			time.Sleep(20 * time.Millisecond)
			done.Add(1)
		})
	}

	svc.Wait()
	assert.Equal(t, int32(3), done.Load())
}

func TestGeneratePNR(t *testing.T) {
	a, b := generatePNR(), generatePNR()
	assert.Len(t, a, pnrLength)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^[0-9A-F]{10}$`, a)
}
