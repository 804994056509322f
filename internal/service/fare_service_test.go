package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/fare"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFareService(t *testing.T) (*FareService, *memFares) {
	t.Helper()
	store := &memFares{table: fare.SampleTable()}
	svc := NewFareService(store, zap.NewNop())
	require.NoError(t, svc.Load(context.Background()))
	return svc, store
}

func TestFareService_PriceFor(t *testing.T) {
	svc, _ := newTestFareService(t)

	price, err := svc.PriceFor(model.ClassSL, 300)
	require.NoError(t, err)
	assert.InDelta(t, 350.0, price, 0.001)
}

func TestFareService_ExpectedTotal(t *testing.T) {
	svc, _ := newTestFareService(t)

	total, err := svc.ExpectedTotal(model.Class3A, 100, 3)
	require.NoError(t, err)
	assert.InDelta(t, 1350.0, total, 0.001)
}

func TestFareService_Quote(t *testing.T) {
	svc, _ := newTestFareService(t)
	svc.now = func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) }

	q, err := svc.Quote(model.ClassSL, 300)
	require.NoError(t, err)
	assert.InDelta(t, 350.0, q.Total, 0.001)
}

func TestFareService_AddFareRequiresAdmin(t *testing.T) {
	svc, store := newTestFareService(t)

	err := svc.AddFare(context.Background(), model.Session{UserID: 5}, model.ClassSL, 300, 999)
	assert.ErrorIs(t, err, model.ErrForbidden)
	assert.Zero(t, store.upserts)
}

func TestFareService_AddFare(t *testing.T) {
	svc, store := newTestFareService(t)
	admin := model.Session{UserID: 1, IsAdmin: true}

	require.NoError(t, svc.AddFare(context.Background(), admin, model.ClassSL, 300, 400))
	assert.Equal(t, 1, store.upserts)

	price, err := svc.PriceFor(model.ClassSL, 300)
	require.NoError(t, err)
	assert.InDelta(t, 400.0, price, 0.001)
}

func TestFareService_AddFareKeepsTableOnStoreError(t *testing.T) {
	svc, store := newTestFareService(t)
	store.upsertErr = errors.New("db down")
	admin := model.Session{UserID: 1, IsAdmin: true}

	err := svc.AddFare(context.Background(), admin, model.ClassSL, 300, 400)
	require.Error(t, err)

	price, err := svc.PriceFor(model.ClassSL, 300)
	require.NoError(t, err)
	assert.InDelta(t, 350.0, price, 0.001)
}

func TestFareService_AddFareValidates(t *testing.T) {
	svc, store := newTestFareService(t)
	admin := model.Session{UserID: 1, IsAdmin: true}

	err := svc.AddFare(context.Background(), admin, model.ClassSL, -5, 100)
	assert.ErrorIs(t, err, model.ErrValidation)

	err = svc.AddFare(context.Background(), admin, model.FareClass("ZZ"), 100, 100)
	assert.ErrorIs(t, err, model.ErrUnknownClass)
	assert.Zero(t, store.upserts)
}
