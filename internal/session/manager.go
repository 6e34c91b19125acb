package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/enkhjin/monshop/internal/cart"
)

// Session is one shopper's state: their cart plus the checkout in-flight
// guard. HTTP requests for the same session can land concurrently, so all
// access goes through the session mutex.
type Session struct {
	ID string

	mu       sync.Mutex
	cart     *cart.Cart
	inFlight bool
	lastSeen time.Time
}

// With runs fn with exclusive access to the session's cart.
func (s *Session) With(fn func(c *cart.Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cart)
}

// BeginCheckout arms the in-flight guard. It reports false while a previous
// submission is still pending, so duplicate clicks cannot send twice.
func (s *Session) BeginCheckout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

// EndCheckout releases the guard. Called on both success and failure, so a
// failed submission can be retried.
func (s *Session) EndCheckout() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// Manager owns all live sessions and expires idle ones. Carts are in-memory
// only; losing one on restart matches the browser-session lifetime they model.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{sessions: map[string]*Session{}, ttl: ttl}
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if ok {
		s.mu.Lock()
		s.lastSeen = time.Now()
		s.mu.Unlock()
	}
	return s, ok
}

// GetOrCreate returns the session for id, minting a fresh one when id is
// empty or unknown.
func (m *Manager) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.mu.Lock()
		s.lastSeen = time.Now()
		s.mu.Unlock()
		return s
	}
	s := &Session{ID: uuid.NewString(), cart: cart.New(), lastSeen: time.Now()}
	m.sessions[s.ID] = s
	return s
}

// Start runs the expiry sweep until ctx is done.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		t := time.NewTicker(m.ttl / 2)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.sweep(time.Now())
			}
		}
	}()
}

func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastSeen) > m.ttl
		busy := s.inFlight
		s.mu.Unlock()
		if idle && !busy {
			delete(m.sessions, id)
		}
	}
}
