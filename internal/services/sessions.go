package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultSessionIdleTimeout = 30 * time.Minute
	minReapInterval           = time.Minute
)

// Session is one visitor conversation. It lives until it is ended or idles out.
type Session struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	Orchestrator *Orchestrator

	lastSeen time.Time
}

// SessionManager owns the in-memory sessions and reaps idle ones.
type SessionManager struct {
	mu              sync.RWMutex
	sessions        map[uuid.UUID]*Session
	newOrchestrator func() *Orchestrator
	idleTimeout     time.Duration
	now             func() time.Time
	log             zerolog.Logger
	stopChan        chan struct{}
	stopOnce        sync.Once
}

func NewSessionManager(newOrchestrator func() *Orchestrator, idleTimeout time.Duration, log zerolog.Logger) *SessionManager {
	if idleTimeout <= 0 {
		idleTimeout = DefaultSessionIdleTimeout
	}
	return &SessionManager{
		sessions:        make(map[uuid.UUID]*Session),
		newOrchestrator: newOrchestrator,
		idleTimeout:     idleTimeout,
		now:             time.Now,
		log:             log,
		stopChan:        make(chan struct{}),
	}
}

func (m *SessionManager) Create() *Session {
	now := m.now()
	s := &Session{
		ID:           uuid.New(),
		CreatedAt:    now,
		Orchestrator: m.newOrchestrator(),
		lastSeen:     now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	total := len(m.sessions)
	m.mu.Unlock()

	m.log.Debug().Str("session_id", s.ID.String()).Int("total", total).Msg("session created")
	return s
}

// Get returns the session and marks it as active.
func (m *SessionManager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if ok {
		s.lastSeen = m.now()
	}
	return s, ok
}

func (m *SessionManager) Delete(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Reap drops sessions idle for longer than the timeout. Sessions with a
// message in flight are kept.
func (m *SessionManager) Reap() int {
	cutoff := m.now().Add(-m.idleTimeout)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) && !s.Orchestrator.Busy() {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *SessionManager) Start() {
	interval := m.idleTimeout / 2
	if interval < minReapInterval {
		interval = minReapInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-m.stopChan:
				return
			case <-ticker.C:
				if n := m.Reap(); n > 0 {
					m.log.Info().Int("removed", n).Int("remaining", m.Len()).Msg("idle sessions reaped")
				}
			}
		}
	}()
}

func (m *SessionManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}
