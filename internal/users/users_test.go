package users

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionManager(t *testing.T) {
	now := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	m := NewSessionManager(time.Minute)
	m.now = func() time.Time { return now }

	m.SetStage(1, "anna", StageAwaitingQuery)
	m.SetStage(2, "boris", StageAwaitingURL)

	session, ok := m.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "anna", session.Username)
	assert.Equal(t, StageAwaitingQuery, session.Stage)
	assert.Len(t, m.GetAll(), 2)

	assert.Equal(t, StageAwaitingQuery, m.Take(1))
	assert.Equal(t, StageIdle, m.Take(1))

	m.SetStage(2, "boris", StageIdle)
	_, ok = m.Get(2)
	assert.False(t, ok)
}

func TestSessionManager_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	m := NewSessionManager(time.Minute)
	m.now = func() time.Time { return now }

	m.SetStage(1, "anna", StageAwaitingURL)
	m.SetStage(2, "boris", StageAwaitingURL)

	now = now.Add(30 * time.Second)
	m.SetStage(2, "boris", StageAwaitingQuery)

	now = now.Add(45 * time.Second)
	_, ok := m.Get(1)
	assert.False(t, ok)
	assert.Equal(t, StageIdle, m.Take(1))
	assert.Equal(t, 0, m.Prune())

	now = now.Add(time.Minute)
	assert.Equal(t, 1, m.Prune())
	assert.Empty(t, m.GetAll())
}
