package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"go.uber.org/zap"
)

const (
	defaultCASAttempts = 3
	defaultSeatJitter  = 10
)

// capacityProfile базовая вместимость рейса по классам
type capacityProfile map[model.FareClass]int

var (
	premiumProfile  = capacityProfile{model.ClassSL: 320, model.Class3A: 256, model.Class2A: 144, model.Class1A: 36}
	expressProfile  = capacityProfile{model.ClassSL: 480, model.Class3A: 192, model.Class2A: 96, model.Class1A: 18}
	ordinaryProfile = capacityProfile{model.ClassSL: 560, model.Class3A: 128, model.Class2A: 48, model.Class1A: 12}
)

type trainGetter interface {
	GetByID(ctx context.Context, id int64) (*model.Train, error)
}

// InventoryService учёт свободных мест по рейсам
type InventoryService struct {
	journeys JourneyStore
	trains   trainGetter
	logger   *zap.Logger

	randN    func(n int) int // случайное число в [0, n)
	jitter   int
	attempts int
}

// InventoryOption настройка InventoryService
type InventoryOption func(*InventoryService)

// WithRandom задаёт источник случайности для начальной вместимости
func WithRandom(randN func(n int) int) InventoryOption {
	return func(s *InventoryService) { s.randN = randN }
}

// WithJitter задаёт разброс начальной вместимости
func WithJitter(jitter int) InventoryOption {
	return func(s *InventoryService) { s.jitter = jitter }
}

func NewInventoryService(journeys JourneyStore, trains trainGetter, logger *zap.Logger, opts ...InventoryOption) *InventoryService {
	s := &InventoryService{
		journeys: journeys,
		trains:   trains,
		logger:   logger,
		randN:    rand.Intn,
		jitter:   defaultSeatJitter,
		attempts: defaultCASAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAvailability возвращает остатки мест рейса, создавая рейс при первом запросе
func (s *InventoryService) GetAvailability(ctx context.Context, trainID int64, date time.Time) (model.SeatAvailability, error) {
	journey, err := s.journey(ctx, trainID, date)
	if err != nil {
		return nil, err
	}
	return journey.Seats.Clone(), nil
}

// Reserve списывает n мест класса. false без изменений, если мест меньше n.
func (s *InventoryService) Reserve(ctx context.Context, trainID int64, date time.Time, class model.FareClass, n int) (bool, error) {
	if err := validateSeatChange(class, n); err != nil {
		return false, err
	}

	for attempt := 0; attempt < s.attempts; attempt++ {
		journey, err := s.journey(ctx, trainID, date)
		if err != nil {
			return false, err
		}

		available, ok := journey.Seats[class]
		if !ok || available < n {
			return false, nil
		}

		seats := journey.Seats.Clone()
		seats[class] = available - n

		swapped, err := s.journeys.CompareAndSwapSeats(ctx, journey.ID, seats, journey.Version)
		if err != nil {
			return false, fmt.Errorf("reserve seats: %w", err)
		}
		if swapped {
			s.logger.Info("Seats reserved",
				zap.Int64("train_id", trainID),
				zap.String("journey_date", model.JourneyDate(date).Format(time.DateOnly)),
				zap.String("class", string(class)),
				zap.Int("count", n),
				zap.Int("left", seats[class]),
			)
			return true, nil
		}

		s.logger.Debug("Journey changed concurrently, retrying reserve",
			zap.Int64("journey_id", journey.ID),
			zap.Int("attempt", attempt+1),
		)
	}

	return false, model.ErrConcurrentUpdate
}

// Release возвращает n мест класса
func (s *InventoryService) Release(ctx context.Context, trainID int64, date time.Time, class model.FareClass, n int) error {
	if err := validateSeatChange(class, n); err != nil {
		return err
	}

	for attempt := 0; attempt < s.attempts; attempt++ {
		journey, err := s.journey(ctx, trainID, date)
		if err != nil {
			return err
		}

		seats := journey.Seats.Clone()
		seats[class] += n

		swapped, err := s.journeys.CompareAndSwapSeats(ctx, journey.ID, seats, journey.Version)
		if err != nil {
			return fmt.Errorf("release seats: %w", err)
		}
		if swapped {
			s.logger.Info("Seats released",
				zap.Int64("train_id", trainID),
				zap.String("journey_date", model.JourneyDate(date).Format(time.DateOnly)),
				zap.String("class", string(class)),
				zap.Int("count", n),
				zap.Int("left", seats[class]),
			)
			return nil
		}
	}

	return model.ErrConcurrentUpdate
}

// journey получает рейс или создаёт его с начальной вместимостью
func (s *InventoryService) journey(ctx context.Context, trainID int64, date time.Time) (*model.Journey, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: journey date is required", model.ErrValidation)
	}

	journey, err := s.journeys.Get(ctx, trainID, date)
	if err == nil {
		return journey, nil
	}
	if !errors.Is(err, model.ErrJourneyNotFound) {
		return nil, fmt.Errorf("get journey: %w", err)
	}

	train, err := s.trains.GetByID(ctx, trainID)
	if err != nil {
		return nil, fmt.Errorf("get train: %w", err)
	}

	journey, err = s.journeys.Create(ctx, &model.Journey{
		TrainID: trainID,
		Date:    model.JourneyDate(date),
		Seats:   s.DefaultSeats(train),
	})
	if err != nil {
		return nil, fmt.Errorf("create journey: %w", err)
	}

	s.logger.Info("Journey created",
		zap.Int64("journey_id", journey.ID),
		zap.Int64("train_id", trainID),
		zap.String("journey_date", model.JourneyDate(date).Format(time.DateOnly)),
	)

	return journey, nil
}

// DefaultSeats начальная вместимость по названию поезда плюс случайный разброс
func (s *InventoryService) DefaultSeats(train *model.Train) model.SeatAvailability {
	profile := profileFor(train.Name)

	classes := train.Classes
	if len(classes) == 0 {
		classes = model.FareClasses
	}

	seats := make(model.SeatAvailability, len(classes))
	for _, class := range classes {
		count := profile[class]
		if s.jitter > 0 {
			count += s.randN(2*s.jitter+1) - s.jitter
		}
		if count < 0 {
			count = 0
		}
		seats[class] = count
	}
	return seats
}

func profileFor(trainName string) capacityProfile {
	name := strings.ToLower(trainName)
	switch {
	case strings.Contains(name, "rajdhani"), strings.Contains(name, "shatabdi"), strings.Contains(name, "duronto"):
		return premiumProfile
	case strings.Contains(name, "express"), strings.Contains(name, "mail"):
		return expressProfile
	default:
		return ordinaryProfile
	}
}

func validateSeatChange(class model.FareClass, n int) error {
	if !class.Valid() {
		return fmt.Errorf("%w: %q", model.ErrUnknownClass, class)
	}
	if n <= 0 {
		return fmt.Errorf("%w: seat count must be positive", model.ErrValidation)
	}
	return nil
}
