package session

import (
	"sync"

	"car-support-be/internal/repository/memory"
	"car-support-be/pkg/store"
)

// sessionLock carries the two locks each user key needs: pass serializes a
// whole routing pass, state guards individual session reads and writes so
// callers outside a pass (operator endpoints) stay race-free.
type sessionLock struct {
	pass  sync.Mutex
	state sync.Mutex
}

// Manager owns the per-user conversation window and the manual-mode flag.
//
// Two messages from the same user can never interleave: Lock/Unlock bracket
// a whole routing pass on the pass lock, while different users proceed in
// parallel. Every accessor additionally takes the user's state lock, so a
// read arriving outside a pass observes a consistent session rather than a
// torn one.
type Manager struct {
	sessionRepo  *memory.SessionRepository
	historyLimit int

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// NewManager creates a session manager with the given history capacity.
func NewManager(sessionRepo *memory.SessionRepository, historyLimit int) *Manager {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &Manager{
		sessionRepo:  sessionRepo,
		historyLimit: historyLimit,
		locks:        make(map[string]*sessionLock),
	}
}

// Lock acquires the routing-pass lock for one user key.
func (m *Manager) Lock(userID string) {
	m.entry(userID).pass.Lock()
}

// Unlock releases the routing-pass lock for one user key.
func (m *Manager) Unlock(userID string) {
	m.entry(userID).pass.Unlock()
}

func (m *Manager) entry(userID string) *sessionLock {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[userID]
	if !ok {
		l = &sessionLock{}
		m.locks[userID] = l
	}
	return l
}

// getOrCreate assumes the caller holds the user's state lock.
func (m *Manager) getOrCreate(userID string) *store.Session {
	session, found := m.sessionRepo.Get(userID)
	if !found {
		session = &store.Session{UserID: userID}
		m.sessionRepo.Save(session)
	}
	return session
}

// AppendMessage appends one role-tagged message, evicting the oldest entry
// once the window is full.
func (m *Manager) AppendMessage(userID, role, content string) {
	l := m.entry(userID)
	l.state.Lock()
	defer l.state.Unlock()

	session := m.getOrCreate(userID)
	session.History = append(session.History, store.Message{Role: role, Content: content})
	if len(session.History) > m.historyLimit {
		session.History = session.History[len(session.History)-m.historyLimit:]
	}
	m.sessionRepo.Save(session)
}

// History returns a copy of the current window so callers cannot mutate
// session state behind the manager's back.
func (m *Manager) History(userID string) []store.Message {
	l := m.entry(userID)
	l.state.Lock()
	defer l.state.Unlock()

	session := m.getOrCreate(userID)
	history := make([]store.Message, len(session.History))
	copy(history, session.History)
	return history
}

// SetManualMode flips the human-takeover flag for one user.
func (m *Manager) SetManualMode(userID string, enabled bool) {
	l := m.entry(userID)
	l.state.Lock()
	defer l.state.Unlock()

	session := m.getOrCreate(userID)
	session.ManualMode = enabled
	m.sessionRepo.Save(session)
}

// IsManualMode reports whether automatic replies are suppressed for a user.
// Safe to call without holding the routing-pass lock.
func (m *Manager) IsManualMode(userID string) bool {
	l := m.entry(userID)
	l.state.Lock()
	defer l.state.Unlock()

	return m.getOrCreate(userID).ManualMode
}
