package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/numberguess/game/engine"
	"github.com/wricardo/mcp-training/numberguess/game/history"
)

// GameService defines all game-related operations
type GameService interface {
	// Game lifecycle
	StartGame(ctx context.Context, playerName string) (*SessionInfo, error)
	GetSession(ctx context.Context) (*SessionInfo, error)
	PlayAgain(ctx context.Context, again bool) (*PlayAgainResult, error)
	Done() <-chan struct{}

	// Round operations
	Guess(ctx context.Context, input string) (*GuessOutcome, error)
	ChangeDifficulty(ctx context.Context, name string) (*SessionInfo, error)
	Reset(ctx context.Context) (*SessionInfo, error)

	// History and configuration
	History(ctx context.Context) (*HistoryView, error)
	ListDifficulties(ctx context.Context) ([]*DifficultyInfo, error)
}

// SessionManager holds the single active game
type SessionManager interface {
	Create(player string, difficulty engine.Difficulty, rng engine.RandomSource) (*Session, error)
	Get() (*Session, error)
	Delete() error
	UpdateLastAccessed() error
}

// ConfigManager resolves difficulties
type ConfigManager interface {
	LoadDifficulty(name string) (engine.Difficulty, error)
	ListDifficulties() []*DifficultyInfo
	GetDefault() engine.Difficulty
}

// HistoryLog persists finished rounds
type HistoryLog interface {
	Append(record history.OutcomeRecord) error
	Recent(n int) ([]history.OutcomeRecord, error)
}

// Prompter asks the player the shell's modal questions.
// Implementations block until the player answers.
type Prompter interface {
	AskPlayerName(ctx context.Context) (string, error)
	ConfirmPlayAgain(ctx context.Context) (bool, error)
}

// Session represents the active game of the process
type Session struct {
	ID             string
	Player         string
	Engine         *engine.GameEngine
	Feedback       string
	ReplayPending  bool
	RoundsPlayed   int
	Wins           int
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
