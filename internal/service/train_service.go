package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"go.uber.org/zap"
)

type TrainService struct {
	trains TrainStore
	logger *zap.Logger
}

func NewTrainService(trains TrainStore, logger *zap.Logger) *TrainService {
	return &TrainService{
		trains: trains,
		logger: logger,
	}
}

// Search ищет поезда между станциями
func (s *TrainService) Search(ctx context.Context, from, to string) ([]*model.TrainRoute, error) {
	from, to = normalizeStation(from), normalizeStation(to)
	if from == "" || to == "" {
		return nil, fmt.Errorf("%w: both stations are required", model.ErrValidation)
	}
	if from == to {
		return nil, fmt.Errorf("%w: stations must differ", model.ErrValidation)
	}

	routes, err := s.trains.Search(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("search trains: %w", err)
	}

	s.logger.Debug("Train search",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int("found", len(routes)),
	)

	return routes, nil
}

// Route участок маршрута поезда с проверкой расстояния
func (s *TrainService) Route(ctx context.Context, trainID int64, from, to string) (*model.TrainRoute, error) {
	route, err := s.trains.GetRoute(ctx, trainID, normalizeStation(from), normalizeStation(to))
	if err != nil {
		return nil, err
	}
	if route.DistanceKm() <= 0 {
		return nil, fmt.Errorf("%w: distance between %s and %s is not positive", model.ErrValidation, from, to)
	}
	return route, nil
}

// GetByID получает поезд по ID
func (s *TrainService) GetByID(ctx context.Context, id int64) (*model.Train, error) {
	return s.trains.GetByID(ctx, id)
}

// List получает все поезда
func (s *TrainService) List(ctx context.Context) ([]*model.Train, error) {
	return s.trains.List(ctx)
}

// Stops получает остановки поезда
func (s *TrainService) Stops(ctx context.Context, trainID int64) ([]model.TrainStop, error) {
	return s.trains.GetStops(ctx, trainID)
}

func normalizeStation(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
