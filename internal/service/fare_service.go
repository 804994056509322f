package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/fare"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"go.uber.org/zap"
)

// FareService тарифы: таблица в памяти, синхронизированная с БД
type FareService struct {
	store  FareStore
	logger *zap.Logger
	now    func() time.Time

	mu   sync.RWMutex
	calc *fare.Calculator
}

func NewFareService(store FareStore, logger *zap.Logger) *FareService {
	return &FareService{
		store:  store,
		logger: logger,
		now:    time.Now,
		calc:   fare.NewCalculator(fare.NewTable()),
	}
}

// Load загружает таблицу тарифов из БД
func (s *FareService) Load(ctx context.Context) error {
	table, err := s.store.LoadTable(ctx)
	if err != nil {
		return fmt.Errorf("load fare table: %w", err)
	}

	s.mu.Lock()
	s.calc.Table = table
	s.mu.Unlock()

	entries := 0
	for _, class := range model.FareClasses {
		entries += table.Len(class)
	}
	s.logger.Info("Fare table loaded", zap.Int("entries", entries))

	return nil
}

// PriceFor базовая цена одного билета
func (s *FareService) PriceFor(class model.FareClass, distanceKm float64) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calc.PriceFor(class, distanceKm)
}

// Quote расширенная цена на текущий момент
func (s *FareService) Quote(class model.FareClass, distanceKm float64) (fare.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calc.Quote(class, distanceKm, s.now())
}

// ExpectedTotal ожидаемая сумма за всех пассажиров
func (s *FareService) ExpectedTotal(class model.FareClass, distanceKm float64, passengers int) (float64, error) {
	price, err := s.PriceFor(class, distanceKm)
	if err != nil {
		return 0, err
	}
	return price * float64(passengers), nil
}

// Entries записи таблицы класса
func (s *FareService) Entries(class model.FareClass) []fare.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calc.Table.Entries(class)
}

// AddFare добавляет или заменяет цену (только для администратора)
func (s *FareService) AddFare(ctx context.Context, session model.Session, class model.FareClass, distanceKm, price float64) error {
	if !session.IsAdmin {
		return model.ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Сначала проверяем на копии, чтобы не разойтись с БД
	table := s.calc.Table.Clone()
	if err := table.Set(class, distanceKm, price); err != nil {
		return err
	}

	if err := s.store.Upsert(ctx, class, distanceKm, price); err != nil {
		return fmt.Errorf("save fare: %w", err)
	}
	s.calc.Table = table

	s.logger.Info("Fare updated",
		zap.Int64("user_id", session.UserID),
		zap.String("class", string(class)),
		zap.Float64("distance_km", distanceKm),
		zap.Float64("price", price),
	)

	return nil
}
