package state

import (
	"testing"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SessionLifecycle(t *testing.T) {
	m := NewManager(0)

	_, ok := m.GetSession(10)
	assert.False(t, ok)

	m.SetSession(model.Session{UserID: 1, TelegramID: 10, IsAdmin: true})
	s, ok := m.GetSession(10)
	require.True(t, ok)
	assert.Equal(t, int64(1), s.UserID)
	assert.True(t, s.IsAdmin)

	m.SetLastBooking(10, 77)
	id, ok := m.LastBooking(10)
	require.True(t, ok)
	assert.Equal(t, int64(77), id)

	m.ClearState(10)
	assert.Equal(t, 0, m.Len())
	_, ok = m.LastBooking(10)
	assert.False(t, ok)
}

func TestManager_SessionExpires(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	m := NewManager(time.Hour)
	m.now = func() time.Time { return now }

	m.SetSession(model.Session{UserID: 1, TelegramID: 10})

	now = now.Add(59 * time.Minute)
	_, ok := m.GetSession(10)
	assert.True(t, ok, "access refreshes the session")

	now = now.Add(61 * time.Minute)
	_, ok = m.GetSession(10)
	assert.False(t, ok)
}

func TestManager_SetLastBookingWithoutSession(t *testing.T) {
	m := NewManager(0)
	m.SetLastBooking(10, 5)
	_, ok := m.LastBooking(10)
	assert.False(t, ok)
}
