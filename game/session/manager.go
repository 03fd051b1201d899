package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/numberguess/game/engine"
	"github.com/wricardo/mcp-training/numberguess/game/service"
)

var ErrNoActiveSession = errors.New("no active game")

// Manager handles the lifecycle of the active game session
type Manager struct {
	current *service.Session
	mu      sync.RWMutex
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{}
}

// Create starts a new session for player, replacing any existing one
func (m *Manager) Create(player string, difficulty engine.Difficulty, rng engine.RandomSource) (*service.Session, error) {
	if player == "" {
		return nil, fmt.Errorf("player name is required")
	}

	eng, err := engine.NewEngine(difficulty, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	now := time.Now()
	session := &service.Session{
		ID:             generateSessionID(),
		Player:         player,
		Engine:         eng,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	m.mu.Lock()
	m.current = session
	m.mu.Unlock()

	return session, nil
}

// Get returns the active session
func (m *Manager) Get() (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil, ErrNoActiveSession
	}
	return m.current, nil
}

// Delete ends the active session
func (m *Manager) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNoActiveSession
	}
	m.current = nil
	return nil
}

// UpdateLastAccessed updates the last accessed time of the active session
func (m *Manager) UpdateLastAccessed() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNoActiveSession
	}
	m.current.LastAccessedAt = time.Now()
	return nil
}

// Active reports whether a session exists
func (m *Manager) Active() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// generateSessionID generates a random 4-character session ID
func generateSessionID() string {
	bytes := make([]byte, 2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
