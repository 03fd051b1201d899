package engine

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRoundOver       = errors.New("round is over")
	ErrGuessOutOfRange = errors.New("guess out of range")
)

// Engine provides the main interface for round operations
type Engine interface {
	// Round management
	StartRound(difficulty Difficulty) (*GameState, error)
	SubmitGuess(value int) (GuessResult, Status, error)

	// Round state
	GetState() *GameState
	GetDifficulty() Difficulty
	GetTries() int
	RemainingTries() int
	IsGameOver() bool
	IsVictory() bool
	Secret() int
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state *GameState
	rng   RandomSource
}

// NewEngine creates a new game engine and starts a round under the given difficulty.
// A nil rng selects a randomly seeded source.
func NewEngine(difficulty Difficulty, rng RandomSource) (*GameEngine, error) {
	if rng == nil {
		rng = NewRandomSource()
	}

	engine := &GameEngine{rng: rng}
	if _, err := engine.StartRound(difficulty); err != nil {
		return nil, err
	}

	return engine, nil
}

// StartRound discards the current round and draws a new secret
func (e *GameEngine) StartRound(difficulty Difficulty) (*GameState, error) {
	if err := ValidateDifficulty(difficulty); err != nil {
		return nil, err
	}

	e.state = &GameState{
		Secret:     e.rng.IntN(difficulty.Range) + MinGuess,
		Tries:      0,
		Status:     StatusInProgress,
		Difficulty: difficulty,
		Guesses:    []GuessEntry{},
	}

	return e.GetState(), nil
}

// SubmitGuess evaluates a guess against the secret.
// A finished round or an out-of-range value is rejected and leaves the state untouched.
func (e *GameEngine) SubmitGuess(value int) (GuessResult, Status, error) {
	if e.state.Status != StatusInProgress {
		return "", e.state.Status, ErrRoundOver
	}

	if value < MinGuess || value > e.state.Difficulty.Range {
		return "", e.state.Status, fmt.Errorf("%w: %d not in [%d, %d]",
			ErrGuessOutOfRange, value, MinGuess, e.state.Difficulty.Range)
	}

	e.state.Tries++

	var result GuessResult
	switch {
	case value < e.state.Secret:
		result = TooLow
	case value > e.state.Secret:
		result = TooHigh
	default:
		result = Correct
	}

	// Win takes precedence over an exhausted budget
	if result == Correct {
		e.state.Status = StatusWon
	} else if e.state.Tries >= e.state.Difficulty.MaxTries {
		e.state.Status = StatusLost
	}

	e.state.LastResult = result
	e.state.Guesses = append(e.state.Guesses, GuessEntry{
		TryNumber: e.state.Tries,
		Value:     value,
		Result:    result,
		Timestamp: time.Now().Unix(),
	})

	return result, e.state.Status, nil
}

// GetState returns a snapshot of the current round state.
// Changing the snapshot does not affect the round.
func (e *GameEngine) GetState() *GameState {
	state := *e.state
	state.Guesses = make([]GuessEntry, len(e.state.Guesses))
	copy(state.Guesses, e.state.Guesses)
	return &state
}

// GetDifficulty returns the difficulty of the current round
func (e *GameEngine) GetDifficulty() Difficulty {
	return e.state.Difficulty
}

// GetTries returns the number of accepted guesses in the current round
func (e *GameEngine) GetTries() int {
	return e.state.Tries
}

// RemainingTries returns how many guesses the budget still allows
func (e *GameEngine) RemainingTries() int {
	if e.state.Status != StatusInProgress {
		return 0
	}
	return e.state.Difficulty.MaxTries - e.state.Tries
}

// IsGameOver returns whether the round has finished
func (e *GameEngine) IsGameOver() bool {
	return e.state.Status.IsTerminal()
}

// IsVictory returns whether the player guessed the secret
func (e *GameEngine) IsVictory() bool {
	return e.state.Status == StatusWon
}

// Secret returns the hidden value of the current round
func (e *GameEngine) Secret() int {
	return e.state.Secret
}
