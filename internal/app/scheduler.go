package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BookingExpirer отменяет неоплаченные бронирования
type BookingExpirer interface {
	CancelExpired(ctx context.Context, ttl time.Duration) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	expirer  BookingExpirer
	interval time.Duration
	ttl      time.Duration
	logger   *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewScheduler(expirer BookingExpirer, interval, ttl time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		expirer:  expirer,
		interval: interval,
		ttl:      ttl,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Duration("interval", s.interval),
		zap.Duration("booking_ttl", s.ttl),
	)

	s.wg.Add(1)
	go s.runExpiryTask(ctx)
}

// Stop останавливает задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// runExpiryTask периодически отменяет просроченные бронирования
func (s *Scheduler) runExpiryTask(ctx context.Context) {
	defer s.wg.Done()

	// Первый запуск сразу при старте
	s.cancelExpired(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cancelExpired(ctx)
		case <-s.stopChan:
			s.logger.Info("Booking expiry task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Booking expiry task cancelled")
			return
		}
	}
}

func (s *Scheduler) cancelExpired(ctx context.Context) {
	n, err := s.expirer.CancelExpired(ctx, s.ttl)
	if err != nil {
		s.logger.Error("Failed to cancel expired bookings", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("Expired bookings cancelled", zap.Int("count", n))
	}
}
