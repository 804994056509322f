package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	currencyINR = "INR"
	maxAge      = 125
	pnrLength   = 10
)

type seatInventory interface {
	GetAvailability(ctx context.Context, trainID int64, date time.Time) (model.SeatAvailability, error)
	Reserve(ctx context.Context, trainID int64, date time.Time, class model.FareClass, n int) (bool, error)
}

type farePricer interface {
	ExpectedTotal(class model.FareClass, distanceKm float64, passengers int) (float64, error)
}

// FareCheck правила сверки суммы клиента с тарифом
type FareCheck struct {
	Strict    bool    // отклонять бронирование при расхождении
	Tolerance float64 // допустимое расхождение в рупиях
}

// BookingServiceDeps зависимости оркестратора бронирований
type BookingServiceDeps struct {
	Bookings      BookingStore
	Payments      PaymentStore
	Notifications NotificationStore
	Users         UserStore
	Trains        TrainStore
	Inventory     seatInventory
	Fares         farePricer
	Gateway       PaymentGateway
	Renderer      DocumentRenderer
	Notifier      Notifier
	FareCheck     FareCheck
	Logger        *zap.Logger

	// Необязательные, для тестов
	Dispatch func(func())
	Now      func() time.Time
	NewPNR   func() string
}

type BookingService struct {
	bookings      BookingStore
	payments      PaymentStore
	notifications NotificationStore
	users         UserStore
	trains        TrainStore
	inventory     seatInventory
	fares         farePricer
	gateway       PaymentGateway
	renderer      DocumentRenderer
	notifier      Notifier
	fareCheck     FareCheck
	logger        *zap.Logger

	dispatch func(func())
	inflight sync.WaitGroup
	now      func() time.Time
	newPNR   func() string
}

func NewBookingService(deps BookingServiceDeps) *BookingService {
	s := &BookingService{
		bookings:      deps.Bookings,
		payments:      deps.Payments,
		notifications: deps.Notifications,
		users:         deps.Users,
		trains:        deps.Trains,
		inventory:     deps.Inventory,
		fares:         deps.Fares,
		gateway:       deps.Gateway,
		renderer:      deps.Renderer,
		notifier:      deps.Notifier,
		fareCheck:     deps.FareCheck,
		logger:        deps.Logger,
		now:           deps.Now,
		newPNR:        deps.NewPNR,
	}
	run := deps.Dispatch
	if run == nil {
		run = func(fn func()) { go fn() }
	}
	s.dispatch = func(fn func()) {
		s.inflight.Add(1)
		run(func() {
			defer s.inflight.Done()
			fn()
		})
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newPNR == nil {
		s.newPNR = generatePNR
	}
	return s
}

// Wait ждёт завершения фоновых уведомлений и документов
func (s *BookingService) Wait() {
	s.inflight.Wait()
}

type PassengerInput struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

type CreateBookingRequest struct {
	TrainID     int64            `json:"train_id"`
	JourneyDate time.Time        `json:"journey_date"`
	FromStation string           `json:"from_station"`
	ToStation   string           `json:"to_station"`
	Class       string           `json:"class"`
	Passengers  []PassengerInput `json:"passengers"`
	TotalAmount float64          `json:"total_amount"` // в рупиях, как показано клиенту
}

// BookingResult итог операции для показа пользователю
type BookingResult struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Booking *model.Booking      `json:"booking,omitempty"`
	Order   *model.PaymentOrder `json:"order,omitempty"`
}

func failed(message string, booking *model.Booking) BookingResult {
	return BookingResult{Success: false, Message: message, Booking: booking}
}

// CreateBookingWithPayment создаёт бронирование в статусе waiting и заказ в платёжном шлюзе
func (s *BookingService) CreateBookingWithPayment(ctx context.Context, session model.Session, req CreateBookingRequest) (BookingResult, error) {
	class, passengers, err := validateBookingRequest(session, req)
	if err != nil {
		return failed(err.Error(), nil), err
	}

	from := normalizeStation(req.FromStation)
	to := normalizeStation(req.ToStation)

	route, err := s.trains.GetRoute(ctx, req.TrainID, from, to)
	if err != nil {
		if errors.Is(err, model.ErrTrainNotFound) {
			return failed("Train does not run between these stations", nil), err
		}
		return failed("Could not load train route", nil), fmt.Errorf("get route: %w", err)
	}
	if !route.Train.HasClass(class) {
		err := fmt.Errorf("%w: train %s has no %s class", model.ErrValidation, route.Train.Number, class)
		return failed(err.Error(), nil), err
	}

	// Проверяем наличие мест, списание происходит после оплаты
	seats, err := s.inventory.GetAvailability(ctx, req.TrainID, req.JourneyDate)
	if err != nil {
		return failed("Could not check seat availability", nil), fmt.Errorf("get availability: %w", err)
	}
	if seats[class] < len(passengers) {
		s.logger.Info("Booking rejected, not enough seats",
			zap.Int64("train_id", req.TrainID),
			zap.String("class", string(class)),
			zap.Int("requested", len(passengers)),
			zap.Int("available", seats[class]),
		)
		return failed(fmt.Sprintf("Only %d seats left in %s", seats[class], class), nil), model.ErrInsufficientSeats
	}

	// Расстояние только по маршруту поезда
	if err := s.checkFare(class, route.DistanceKm(), len(passengers), req.TotalAmount); err != nil {
		return failed(err.Error(), nil), err
	}

	booking := &model.Booking{
		PNR:         s.newPNR(),
		UserID:      session.UserID,
		TrainID:     req.TrainID,
		JourneyDate: model.JourneyDate(req.JourneyDate),
		FromStation: from,
		ToStation:   to,
		Class:       class,
		Status:      model.BookingStatusWaiting,
		TotalAmount: model.RupeesToPaise(req.TotalAmount),
		Passengers:  passengers,
		Train:       route.Train,
	}

	if err := s.bookings.CreateWithPassengers(ctx, booking); err != nil {
		return failed("Could not save booking", nil), fmt.Errorf("create booking: %w", err)
	}

	s.logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.String("pnr", booking.PNR),
		zap.Int64("user_id", booking.UserID),
		zap.Int64("train_id", booking.TrainID),
		zap.String("journey_date", booking.JourneyDate.Format(time.DateOnly)),
		zap.String("class", string(class)),
		zap.Int("count", len(passengers)),
		zap.Int64("total_paise", booking.TotalAmount),
	)

	order, err := s.gateway.CreateOrder(ctx, booking.TotalAmount, currencyINR, booking.PNR)
	if err != nil {
		// Бронирование остаётся в waiting без заказа и будет отменено планировщиком
		s.logger.Error("Failed to create payment order",
			zap.Int64("booking_id", booking.ID),
			zap.Error(err),
		)
		if !errors.Is(err, model.ErrPaymentGateway) {
			err = fmt.Errorf("%w: %v", model.ErrPaymentGateway, err)
		}
		return failed("Payment gateway is unavailable, please try again later", booking), err
	}

	if err := s.bookings.SetOrderID(ctx, booking.ID, order.ID); err != nil {
		return failed("Could not attach payment order", booking), fmt.Errorf("set order id: %w", err)
	}
	booking.OrderID = order.ID

	return BookingResult{
		Success: true,
		Message: fmt.Sprintf("Booking %s created, complete the payment of %s", booking.PNR, model.FormatRupees(booking.TotalAmount)),
		Booking: booking,
		Order:   order,
	}, nil
}

// checkFare сверяет сумму клиента с тарифом
func (s *BookingService) checkFare(class model.FareClass, distanceKm float64, passengers int, total float64) error {
	if s.fares == nil || distanceKm <= 0 {
		return nil
	}

	expected, err := s.fares.ExpectedTotal(class, distanceKm, passengers)
	if err != nil {
		return err
	}

	diff := math.Abs(expected - total)
	if diff <= s.fareCheck.Tolerance {
		return nil
	}

	if s.fareCheck.Strict {
		return fmt.Errorf("%w: expected %.2f, got %.2f", model.ErrFareMismatch, expected, total)
	}

	s.logger.Warn("Booking total differs from fare table",
		zap.String("class", string(class)),
		zap.Float64("distance_km", distanceKm),
		zap.Float64("expected", expected),
		zap.Float64("received", total),
	)
	return nil
}

func validateBookingRequest(session model.Session, req CreateBookingRequest) (model.FareClass, []*model.Passenger, error) {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{model.ErrValidation}, args...)...)
	}

	if session.UserID <= 0 {
		return "", nil, invalid("user is not registered")
	}
	if req.TrainID <= 0 {
		return "", nil, invalid("train id must be positive")
	}
	if req.JourneyDate.IsZero() {
		return "", nil, invalid("journey date is required")
	}
	if strings.TrimSpace(req.FromStation) == "" || strings.TrimSpace(req.ToStation) == "" {
		return "", nil, invalid("both stations are required")
	}
	if req.TotalAmount <= 0 {
		return "", nil, invalid("total amount must be positive")
	}
	if len(req.Passengers) == 0 {
		return "", nil, invalid("at least one passenger is required")
	}

	class, err := model.ParseFareClass(req.Class)
	if err != nil {
		return "", nil, err
	}

	passengers := make([]*model.Passenger, 0, len(req.Passengers))
	for i, p := range req.Passengers {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return "", nil, invalid("passenger %d has no name", i+1)
		}
		if p.Age < 1 || p.Age > maxAge {
			return "", nil, invalid("passenger %d age must be between 1 and %d", i+1, maxAge)
		}
		gender, err := model.ParseGender(p.Gender)
		if err != nil {
			return "", nil, err
		}

		passengers = append(passengers, &model.Passenger{
			Name:       name,
			Age:        p.Age,
			Gender:     gender,
			CoachType:  class,
			SeatNumber: class.SeatNumber(i),
		})
	}

	return class, passengers, nil
}

// PaymentConfirmation данные об успешной оплате от шлюза
type PaymentConfirmation struct {
	BookingID int64  `json:"booking_id"`
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	Method    string `json:"method,omitempty"`
}

// HandleSuccessfulPayment подтверждает бронирование после оплаты
func (s *BookingService) HandleSuccessfulPayment(ctx context.Context, conf PaymentConfirmation) (BookingResult, error) {
	booking, err := s.bookings.GetByID(ctx, conf.BookingID)
	if err != nil {
		return failed("Booking not found", nil), err
	}

	if !s.gateway.VerifySignature(conf.OrderID, conf.PaymentID, conf.Signature) {
		s.logger.Warn("Invalid payment signature",
			zap.Int64("booking_id", booking.ID),
			zap.String("order_id", conf.OrderID),
			zap.String("payment_id", conf.PaymentID),
		)
		return failed("Payment signature verification failed", booking), model.ErrInvalidSignature
	}

	if booking.OrderID == "" || booking.OrderID != conf.OrderID {
		err := fmt.Errorf("%w: order %s does not belong to booking %s", model.ErrValidation, conf.OrderID, booking.PNR)
		return failed(err.Error(), booking), err
	}

	ok, err := s.bookings.TransitionStatus(ctx, booking.ID, model.BookingStatusWaiting, model.BookingStatusConfirmed)
	if err != nil {
		return failed("Could not confirm booking", booking), fmt.Errorf("confirm booking: %w", err)
	}
	if !ok {
		return s.alreadyProcessed(ctx, booking.ID, conf.PaymentID)
	}
	booking.Status = model.BookingStatusConfirmed

	payment := &model.Payment{
		BookingID:     booking.ID,
		TransactionID: conf.PaymentID,
		OrderID:       conf.OrderID,
		Amount:        booking.TotalAmount,
		Currency:      currencyINR,
		Status:        model.PaymentStatusSuccess,
		Method:        conf.Method,
		Provider:      s.gateway.Name(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		// Бронирование уже подтверждено, запись об оплате можно восстановить по журналу шлюза
		s.logger.Error("Failed to record payment for confirmed booking",
			zap.Int64("booking_id", booking.ID),
			zap.String("payment_id", conf.PaymentID),
			zap.Error(err),
		)
	}

	s.logger.Info("Booking confirmed",
		zap.Int64("booking_id", booking.ID),
		zap.String("pnr", booking.PNR),
		zap.String("payment_id", conf.PaymentID),
	)

	bgCtx := context.WithoutCancel(ctx)
	s.dispatch(func() { s.afterConfirmation(bgCtx, booking, payment) })

	return BookingResult{
		Success: true,
		Message: fmt.Sprintf("Booking %s confirmed", booking.PNR),
		Booking: booking,
	}, nil
}

// alreadyProcessed повторное подтверждение той же оплаты считается успешным
func (s *BookingService) alreadyProcessed(ctx context.Context, bookingID int64, paymentID string) (BookingResult, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return failed("Booking not found", nil), err
	}

	if current.Status == model.BookingStatusConfirmed {
		last, err := s.payments.GetLatestByBookingID(ctx, bookingID)
		if err == nil && last != nil && last.TransactionID == paymentID {
			return BookingResult{
				Success: true,
				Message: fmt.Sprintf("Booking %s is already confirmed", current.PNR),
				Booking: current,
			}, nil
		}
	}

	return failed(fmt.Sprintf("Booking %s is %s", current.PNR, current.Status), current),
		fmt.Errorf("%w: booking is %s", model.ErrInvalidTransition, current.Status)
}

// afterConfirmation списание мест, документы и уведомление. Ошибки только логируются.
func (s *BookingService) afterConfirmation(ctx context.Context, booking *model.Booking, payment *model.Payment) {
	log := s.logger.With(zap.Int64("booking_id", booking.ID), zap.String("pnr", booking.PNR))

	reserved, err := s.inventory.Reserve(ctx, booking.TrainID, booking.JourneyDate, booking.Class, len(booking.Passengers))
	switch {
	case err != nil:
		log.Error("Failed to reserve seats for confirmed booking", zap.Error(err))
	case !reserved:
		log.Warn("Seats ran out before confirmation, inventory not decremented")
	}

	train := booking.Train
	if train == nil {
		if train, err = s.trains.GetByID(ctx, booking.TrainID); err != nil {
			log.Error("Failed to load train for documents", zap.Error(err))
		}
	}

	var docs []model.Document
	if ticket, err := s.renderer.Ticket(booking, train); err != nil {
		log.Error("Failed to render ticket", zap.Error(err))
	} else {
		docs = append(docs, model.Document{
			Filename: "ticket_" + booking.PNR + ".png",
			Caption:  "Ticket " + booking.PNR,
			Data:     ticket,
		})
	}
	if invoice, err := s.renderer.Invoice(booking, payment, train); err != nil {
		log.Error("Failed to render invoice", zap.Error(err))
	} else {
		docs = append(docs, model.Document{
			Filename: "invoice_" + booking.PNR + ".png",
			Caption:  "Invoice " + booking.PNR,
			Data:     invoice,
		})
	}

	user, err := s.users.GetByID(ctx, booking.UserID)
	if err != nil {
		log.Error("Failed to load user for notification", zap.Error(err))
		return
	}

	err = s.notifier.NotifyBookingConfirmed(ctx, user, booking, docs)
	s.recordNotification(ctx, booking, fmt.Sprintf("Booking %s confirmed", booking.PNR), err)
}

// HandlePaymentFailure отменяет бронирование после неуспешной оплаты
func (s *BookingService) HandlePaymentFailure(ctx context.Context, bookingID int64, paymentID, reason string) (BookingResult, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return failed("Booking not found", nil), err
	}

	ok, err := s.bookings.TransitionStatus(ctx, booking.ID, model.BookingStatusWaiting, model.BookingStatusCancelled)
	if err != nil {
		return failed("Could not cancel booking", booking), fmt.Errorf("cancel booking: %w", err)
	}
	if !ok {
		return failed(fmt.Sprintf("Booking %s can no longer be cancelled", booking.PNR), booking),
			fmt.Errorf("%w: booking %s can no longer be cancelled", model.ErrInvalidTransition, booking.PNR)
	}
	booking.Status = model.BookingStatusCancelled

	// Без транзакции шлюза (отмена пользователем) платёж не записывается
	if paymentID != "" {
		payment := &model.Payment{
			BookingID:     booking.ID,
			TransactionID: paymentID,
			OrderID:       booking.OrderID,
			Amount:        booking.TotalAmount,
			Currency:      currencyINR,
			Status:        model.PaymentStatusFailed,
			Provider:      s.gateway.Name(),
			FailureReason: reason,
		}
		if err := s.payments.Create(ctx, payment); err != nil {
			s.logger.Error("Failed to record failed payment",
				zap.Int64("booking_id", booking.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Booking cancelled after failed payment",
		zap.Int64("booking_id", booking.ID),
		zap.String("pnr", booking.PNR),
		zap.String("reason", reason),
	)

	bgCtx := context.WithoutCancel(ctx)
	s.dispatch(func() { s.notifyCancelled(bgCtx, booking, reason) })

	return BookingResult{
		Success: true,
		Message: fmt.Sprintf("Booking %s cancelled: %s", booking.PNR, reason),
		Booking: booking,
	}, nil
}

// HandleGatewayFailure отмена по сообщению шлюза, заказ должен принадлежать бронированию
func (s *BookingService) HandleGatewayFailure(ctx context.Context, bookingID int64, orderID, paymentID, reason string) (BookingResult, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return failed("Booking not found", nil), err
	}

	if orderID == "" || booking.OrderID != orderID {
		err := fmt.Errorf("%w: order %q does not belong to booking %s", model.ErrValidation, orderID, booking.PNR)
		return failed(err.Error(), booking), err
	}

	if reason == "" {
		reason = "payment failed"
	}
	return s.HandlePaymentFailure(ctx, bookingID, paymentID, reason)
}

// CancelExpired отменяет неоплаченные бронирования старше ttl
func (s *BookingService) CancelExpired(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := s.now().Add(-ttl)

	cancelled, err := s.bookings.CancelWaitingBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cancel expired bookings: %w", err)
	}

	if len(cancelled) > 0 {
		s.logger.Info("Expired bookings cancelled",
			zap.Int("count", len(cancelled)),
			zap.Time("cutoff", cutoff),
		)
	}

	for _, booking := range cancelled {
		s.notifyCancelled(ctx, booking, "payment was not completed in time")
	}

	return len(cancelled), nil
}

func (s *BookingService) notifyCancelled(ctx context.Context, booking *model.Booking, reason string) {
	user, err := s.users.GetByID(ctx, booking.UserID)
	if err != nil {
		s.logger.Error("Failed to load user for notification",
			zap.Int64("booking_id", booking.ID),
			zap.Error(err),
		)
		return
	}

	err = s.notifier.NotifyBookingCancelled(ctx, user, booking, reason)
	s.recordNotification(ctx, booking, fmt.Sprintf("Booking %s cancelled: %s", booking.PNR, reason), err)
}

// recordNotification сохраняет результат попытки уведомления
func (s *BookingService) recordNotification(ctx context.Context, booking *model.Booking, message string, sendErr error) {
	n := &model.Notification{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		Channel:   s.notifier.Channel(),
		Status:    model.NotificationStatusSent,
		Message:   message,
	}

	switch {
	case errors.Is(sendErr, model.ErrNotificationSkipped):
		n.Status = model.NotificationStatusSkipped
	case sendErr != nil:
		n.Status = model.NotificationStatusFailed
		s.logger.Error("Failed to notify user",
			zap.Int64("booking_id", booking.ID),
			zap.String("channel", n.Channel),
			zap.Error(sendErr),
		)
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		s.logger.Error("Failed to record notification",
			zap.Int64("booking_id", booking.ID),
			zap.Error(err),
		)
	}
}

// GetBooking получает бронирование, доступное вызывающему
func (s *BookingService) GetBooking(ctx context.Context, session model.Session, id int64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.owned(session, booking)
}

// GetByPNR получает бронирование по PNR
func (s *BookingService) GetByPNR(ctx context.Context, session model.Session, pnr string) (*model.Booking, error) {
	booking, err := s.bookings.GetByPNR(ctx, strings.ToUpper(strings.TrimSpace(pnr)))
	if err != nil {
		return nil, err
	}
	return s.owned(session, booking)
}

func (s *BookingService) owned(session model.Session, booking *model.Booking) (*model.Booking, error) {
	if booking.UserID != session.UserID && !session.IsAdmin {
		return nil, model.ErrForbidden
	}
	return booking, nil
}

// ListUserBookings все бронирования пользователя
func (s *BookingService) ListUserBookings(ctx context.Context, session model.Session) ([]*model.Booking, error) {
	return s.bookings.ListByUser(ctx, session.UserID)
}

// TicketFor формирует билет подтверждённого бронирования
func (s *BookingService) TicketFor(ctx context.Context, session model.Session, pnr string) (*model.Booking, model.Document, error) {
	booking, err := s.GetByPNR(ctx, session, pnr)
	if err != nil {
		return nil, model.Document{}, err
	}
	if booking.Status != model.BookingStatusConfirmed {
		return booking, model.Document{}, fmt.Errorf("%w: booking %s is %s", model.ErrInvalidTransition, booking.PNR, booking.Status)
	}

	train, err := s.trains.GetByID(ctx, booking.TrainID)
	if err != nil {
		return nil, model.Document{}, err
	}
	booking.Train = train

	data, err := s.renderer.Ticket(booking, train)
	if err != nil {
		return nil, model.Document{}, fmt.Errorf("render ticket: %w", err)
	}

	return booking, model.Document{
		Filename: "ticket_" + booking.PNR + ".png",
		Caption:  "Ticket " + booking.PNR,
		Data:     data,
	}, nil
}

// generatePNR 10 символов верхнего регистра из случайного UUID
func generatePNR() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(id[:pnrLength])
}
