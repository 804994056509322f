package state

import (
	"sync"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
)

// Manager хранит сессии пользователей бота в памяти
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
	ttl    time.Duration
	now    func() time.Time
}

// NewManager ttl задаёт, как долго сессия живёт без обращений (0 = бессрочно)
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		states: make(map[int64]*UserData),
		ttl:    ttl,
		now:    time.Now,
	}
}

// GetSession получает сессию пользователя
func (sm *Manager) GetSession(telegramID int64) (model.Session, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	userData, exists := sm.states[telegramID]
	if !exists {
		return model.Session{}, false
	}
	if sm.ttl > 0 && sm.now().Sub(userData.SeenAt) > sm.ttl {
		delete(sm.states, telegramID)
		return model.Session{}, false
	}
	userData.SeenAt = sm.now()
	return userData.Session, true
}

// SetSession сохраняет сессию пользователя
func (sm *Manager) SetSession(session model.Session) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if userData, exists := sm.states[session.TelegramID]; exists {
		userData.Session = session
		userData.SeenAt = sm.now()
		return
	}
	sm.states[session.TelegramID] = &UserData{Session: session, SeenAt: sm.now()}
}

// SetLastBooking запоминает последнее бронирование пользователя
func (sm *Manager) SetLastBooking(telegramID, bookingID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if userData, exists := sm.states[telegramID]; exists {
		userData.LastBookingID = bookingID
	}
}

// LastBooking последнее бронирование пользователя
func (sm *Manager) LastBooking(telegramID int64) (int64, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists && userData.LastBookingID > 0 {
		return userData.LastBookingID, true
	}
	return 0, false
}

// ClearState удаляет сессию
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// Len количество активных сессий
func (sm *Manager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.states)
}
