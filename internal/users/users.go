package users

import (
	"sync"
	"time"
)

// Stage is what the bot expects the next plain message of a chat to be.
type Stage string

const (
	StageIdle          Stage = ""
	StageAwaitingQuery Stage = "awaiting_query"
	StageAwaitingURL   Stage = "awaiting_url"
)

// DefaultSessionTTL is how long a chat stays in a non-idle stage.
const DefaultSessionTTL = 10 * time.Minute

type Session struct {
	ChatID    int64     `json:"chat_id"`
	Username  string    `json:"username"`
	Stage     Stage     `json:"stage"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionManager tracks per-chat conversation stages with thread-safety
type SessionManager struct {
	sessions map[int64]Session
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionManager creates a new SessionManager. Sessions older than ttl
// read as idle.
func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[int64]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetStage puts a chat into stage.
func (m *SessionManager) SetStage(chatID int64, username string, stage Stage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if stage == StageIdle {
		delete(m.sessions, chatID)
		return
	}
	m.sessions[chatID] = Session{
		ChatID:    chatID,
		Username:  username,
		Stage:     stage,
		UpdatedAt: m.now(),
	}
}

// Get retrieves the live session of a chat
func (m *SessionManager) Get(chatID int64) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[chatID]
	if !ok || m.expired(session) {
		return Session{}, false
	}
	return session, true
}

// Take returns the stage of a chat and resets it to idle.
func (m *SessionManager) Take(chatID int64) Stage {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[chatID]
	delete(m.sessions, chatID)
	if !ok || m.expired(session) {
		return StageIdle
	}
	return session.Stage
}

// Prune removes expired sessions and returns how many were removed
func (m *SessionManager) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for chatID, session := range m.sessions {
		if m.expired(session) {
			delete(m.sessions, chatID)
			removed++
		}
	}
	return removed
}

// GetAll returns all live sessions
func (m *SessionManager) GetAll() []Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sessions []Session
	for _, session := range m.sessions {
		if !m.expired(session) {
			sessions = append(sessions, session)
		}
	}
	return sessions
}

func (m *SessionManager) expired(session Session) bool {
	return m.ttl > 0 && m.now().Sub(session.UpdatedAt) > m.ttl
}
