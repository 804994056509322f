package service

import (
	"context"
	"testing"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestTrainService() *TrainService {
	trains := newMemTrains()
	trains.add(
		&model.Train{ID: 3, Number: "12001", Name: "Bhopal Shatabdi", Classes: []model.FareClass{model.Class2A, model.Class1A}},
		model.TrainStop{StationCode: "NDLS", DistanceKm: 0},
		model.TrainStop{StationCode: "AGC", DistanceKm: 195},
		model.TrainStop{StationCode: "BPL", DistanceKm: 702},
	)
	return NewTrainService(trains, zap.NewNop())
}

func TestTrainService_Search(t *testing.T) {
	svc := newTestTrainService()

	routes, err := svc.Search(context.Background(), " agc", "BPL")
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "12001", routes[0].Train.Number)
	assert.InDelta(t, 507.0, routes[0].DistanceKm(), 0.001)

	routes, err = svc.Search(context.Background(), "BPL", "NDLS")
	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestTrainService_SearchValidation(t *testing.T) {
	svc := newTestTrainService()

	_, err := svc.Search(context.Background(), "", "BPL")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Search(context.Background(), "bpl", "BPL")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestTrainService_Route(t *testing.T) {
	svc := newTestTrainService()

	route, err := svc.Route(context.Background(), 3, "ndls", "agc")
	require.NoError(t, err)
	assert.InDelta(t, 195.0, route.DistanceKm(), 0.001)

	_, err = svc.Route(context.Background(), 3, "BPL", "AGC")
	assert.ErrorIs(t, err, model.ErrTrainNotFound)
}
