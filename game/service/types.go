package service

import (
	"time"

	"github.com/wricardo/mcp-training/numberguess/game/engine"
	"github.com/wricardo/mcp-training/numberguess/game/history"
)

// SessionInfo is the renderable view of the active game
type SessionInfo struct {
	ID             string              `json:"id"`
	Player         string              `json:"player"`
	Difficulty     engine.Difficulty   `json:"difficulty"`
	Tries          int                 `json:"tries"`
	RemainingTries int                 `json:"remaining_tries"`
	Status         engine.Status       `json:"status"`
	GameOver       bool                `json:"game_over"`
	ReplayPending  bool                `json:"replay_pending"`
	Prompt         string              `json:"prompt"`
	Feedback       string              `json:"feedback,omitempty"`
	LastResult     engine.GuessResult  `json:"last_result,omitempty"`
	Guesses        []engine.GuessEntry `json:"guesses"`
	Secret         int                 `json:"secret,omitempty"` // Only set once the round is over
	RoundsPlayed   int                 `json:"rounds_played"`
	Wins           int                 `json:"wins"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
}

// GuessOutcome contains the result of an accepted guess
type GuessOutcome struct {
	Guess           int                    `json:"guess"`
	Result          engine.GuessResult     `json:"result"`
	Status          engine.Status          `json:"status"`
	Message         string                 `json:"message"`
	Record          *history.OutcomeRecord `json:"record,omitempty"`
	HistoryError    string                 `json:"history_error,omitempty"`
	PlayAgainPrompt string                 `json:"play_again_prompt,omitempty"`
	Session         *SessionInfo           `json:"session"`
}

// PlayAgainResult is the answer to the play-again prompt
type PlayAgainResult struct {
	Exit    bool         `json:"exit"`
	Message string       `json:"message"`
	Session *SessionInfo `json:"session,omitempty"`
}

// HistoryView is the rendered list of recent outcomes
type HistoryView struct {
	Title   string                  `json:"title"`
	Records []history.OutcomeRecord `json:"records"`
	Empty   bool                    `json:"empty"`
	Message string                  `json:"message,omitempty"`
	Text    string                  `json:"text"`
}

// DifficultyInfo provides information about a difficulty
type DifficultyInfo struct {
	Name     string `json:"name"`
	Range    int    `json:"range"`
	MaxTries int    `json:"max_tries"`
	Default  bool   `json:"default"`
}
