package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/fare"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memJourneys хранилище рейсов в памяти с настоящим compare-and-swap
type memJourneys struct {
	mu       sync.Mutex
	nextID   int64
	byKey    map[string]*model.Journey
	conflict int   // сколько следующих CAS завершить конфликтом
	casErr   error // ошибка для всех CAS
}

func newMemJourneys() *memJourneys {
	return &memJourneys{byKey: make(map[string]*model.Journey)}
}

func journeyKey(trainID int64, date time.Time) string {
	return fmt.Sprintf("%d/%s", trainID, model.JourneyDate(date).Format(time.DateOnly))
}

// put создаёт рейс с заданными местами
func (m *memJourneys) put(trainID int64, date time.Time, seats model.SeatAvailability) *model.Journey {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	j := &model.Journey{ID: m.nextID, TrainID: trainID, Date: model.JourneyDate(date), Seats: seats.Clone(), Version: 1}
	m.byKey[journeyKey(trainID, date)] = j
	return j
}

func (m *memJourneys) seats(trainID int64, date time.Time) model.SeatAvailability {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.byKey[journeyKey(trainID, date)]
	if !ok {
		return nil
	}
	return j.Seats.Clone()
}

func (m *memJourneys) Get(_ context.Context, trainID int64, date time.Time) (*model.Journey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.byKey[journeyKey(trainID, date)]
	if !ok {
		return nil, model.ErrJourneyNotFound
	}
	cp := *j
	cp.Seats = j.Seats.Clone()
	return &cp, nil
}

func (m *memJourneys) Create(_ context.Context, journey *model.Journey) (*model.Journey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := journeyKey(journey.TrainID, journey.Date)
	if existing, ok := m.byKey[key]; ok {
		cp := *existing
		cp.Seats = existing.Seats.Clone()
		return &cp, nil
	}
	m.nextID++
	stored := *journey
	stored.ID = m.nextID
	stored.Version = 1
	stored.Seats = journey.Seats.Clone()
	m.byKey[key] = &stored
	cp := stored
	cp.Seats = stored.Seats.Clone()
	return &cp, nil
}

func (m *memJourneys) CompareAndSwapSeats(_ context.Context, id int64, seats model.SeatAvailability, version int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.casErr != nil {
		return false, m.casErr
	}
	if m.conflict > 0 {
		m.conflict--
		return false, nil
	}
	for _, j := range m.byKey {
		if j.ID != id {
			continue
		}
		if j.Version != version {
			return false, nil
		}
		j.Seats = seats.Clone()
		j.Version++
		return true, nil
	}
	return false, model.ErrJourneyNotFound
}

// memTrains каталог поездов в памяти
type memTrains struct {
	trains map[int64]*model.Train
	stops  map[int64][]model.TrainStop
}

func newMemTrains() *memTrains {
	return &memTrains{trains: make(map[int64]*model.Train), stops: make(map[int64][]model.TrainStop)}
}

func (m *memTrains) add(train *model.Train, stops ...model.TrainStop) {
	m.trains[train.ID] = train
	for i := range stops {
		stops[i].TrainID = train.ID
		stops[i].StopOrder = i + 1
	}
	m.stops[train.ID] = stops
}

func (m *memTrains) GetByID(_ context.Context, id int64) (*model.Train, error) {
	t, ok := m.trains[id]
	if !ok {
		return nil, model.ErrTrainNotFound
	}
	return t, nil
}

func (m *memTrains) List(_ context.Context) ([]*model.Train, error) {
	var out []*model.Train
	for _, t := range m.trains {
		out = append(out, t)
	}
	return out, nil
}

func (m *memTrains) Search(ctx context.Context, from, to string) ([]*model.TrainRoute, error) {
	var out []*model.TrainRoute
	for id := range m.trains {
		if route, err := m.GetRoute(ctx, id, from, to); err == nil {
			out = append(out, route)
		}
	}
	return out, nil
}

func (m *memTrains) GetRoute(_ context.Context, trainID int64, from, to string) (*model.TrainRoute, error) {
	train, ok := m.trains[trainID]
	if !ok {
		return nil, model.ErrTrainNotFound
	}
	var f, d *model.TrainStop
	for i := range m.stops[trainID] {
		s := &m.stops[trainID][i]
		if s.StationCode == from {
			f = s
		}
		if s.StationCode == to {
			d = s
		}
	}
	if f == nil || d == nil || f.StopOrder >= d.StopOrder {
		return nil, model.ErrTrainNotFound
	}
	return &model.TrainRoute{Train: train, From: *f, To: *d}, nil
}

func (m *memTrains) GetStops(_ context.Context, trainID int64) ([]model.TrainStop, error) {
	return m.stops[trainID], nil
}

// memFares хранилище тарифов в памяти
type memFares struct {
	table     *fare.Table
	upserts   int
	upsertErr error
}

func (m *memFares) LoadTable(_ context.Context) (*fare.Table, error) {
	return m.table.Clone(), nil
}

func (m *memFares) Upsert(_ context.Context, class model.FareClass, distanceKm, price float64) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	return m.table.Set(class, distanceKm, price)
}

// memUsers хранилище пользователей в памяти
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[int64]*model.User)}
}

func (m *memUsers) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	cp := *user
	m.byID[user.ID] = &cp
	return nil
}

func (m *memUsers) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.TelegramID == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Update(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[user.ID]; !ok {
		return model.ErrUserNotFound
	}
	cp := *user
	m.byID[user.ID] = &cp
	return nil
}

// memBookings хранилище бронирований в памяти
type memBookings struct {
	mu        sync.Mutex
	nextID    int64
	byID      map[int64]*model.Booking
	createErr error
}

func newMemBookings() *memBookings {
	return &memBookings{byID: make(map[int64]*model.Booking)}
}

func cloneBooking(b *model.Booking) *model.Booking {
	cp := *b
	cp.Passengers = make([]*model.Passenger, len(b.Passengers))
	for i, p := range b.Passengers {
		pc := *p
		cp.Passengers[i] = &pc
	}
	return &cp
}

func (m *memBookings) CreateWithPassengers(_ context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	booking.ID = m.nextID
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	for i, p := range booking.Passengers {
		p.ID = int64(i + 1)
		p.BookingID = booking.ID
	}
	m.byID[booking.ID] = cloneBooking(booking)
	return nil
}

func (m *memBookings) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return nil, model.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (m *memBookings) GetByPNR(_ context.Context, pnr string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.byID {
		if b.PNR == pnr {
			return cloneBooking(b), nil
		}
	}
	return nil, model.ErrBookingNotFound
}

func (m *memBookings) ListByUser(_ context.Context, userID int64) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.byID {
		if b.UserID == userID {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func (m *memBookings) SetOrderID(_ context.Context, id int64, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return model.ErrBookingNotFound
	}
	b.OrderID = orderID
	return nil
}

func (m *memBookings) TransitionStatus(_ context.Context, id int64, from, to model.BookingStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (m *memBookings) CancelWaitingBefore(_ context.Context, cutoff time.Time) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.byID {
		if b.Status == model.BookingStatusWaiting && b.CreatedAt.Before(cutoff) {
			b.Status = model.BookingStatusCancelled
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func (m *memBookings) status(id int64) model.BookingStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id].Status
}

func (m *memBookings) setCreatedAt(id int64, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[id].CreatedAt = at
}

// memPayments хранилище оплат в памяти
type memPayments struct {
	mu        sync.Mutex
	items     []*model.Payment
	createErr error
}

func (m *memPayments) Create(_ context.Context, p *model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	p.ID = int64(len(m.items) + 1)
	cp := *p
	m.items = append(m.items, &cp)
	return nil
}

func (m *memPayments) GetLatestByBookingID(_ context.Context, bookingID int64) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].BookingID == bookingID {
			cp := *m.items[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memPayments) all() []*model.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Payment(nil), m.items...)
}

// memNotifications журнал уведомлений в памяти
type memNotifications struct {
	mu    sync.Mutex
	items []*model.Notification
}

func (m *memNotifications) Create(_ context.Context, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	cp := *n
	m.items = append(m.items, &cp)
	return nil
}

func (m *memNotifications) all() []*model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Notification(nil), m.items...)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Name() string { return "razorpay" }

func (m *mockGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*model.PaymentOrder, error) {
	args := m.Called(ctx, amount, currency, receipt)
	order, _ := args.Get(0).(*model.PaymentOrder)
	return order, args.Error(1)
}

func (m *mockGateway) VerifySignature(orderID, paymentID, signature string) bool {
	args := m.Called(orderID, paymentID, signature)
	return args.Bool(0)
}

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Ticket(booking *model.Booking, train *model.Train) ([]byte, error) {
	args := m.Called(booking, train)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *mockRenderer) Invoice(booking *model.Booking, payment *model.Payment, train *model.Train) ([]byte, error) {
	args := m.Called(booking, payment, train)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Channel() string { return "telegram" }

func (m *mockNotifier) NotifyBookingConfirmed(ctx context.Context, user *model.User, booking *model.Booking, docs []model.Document) error {
	args := m.Called(ctx, user, booking, docs)
	return args.Error(0)
}

func (m *mockNotifier) NotifyBookingCancelled(ctx context.Context, user *model.User, booking *model.Booking, reason string) error {
	args := m.Called(ctx, user, booking, reason)
	return args.Error(0)
}
