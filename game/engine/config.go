package engine

import (
	"errors"
	"fmt"
)

var ErrInvalidDifficulty = errors.New("invalid difficulty")

// Built-in difficulties. The table is fixed at process start.
var (
	Easy   = Difficulty{Name: "Easy", Range: 50, MaxTries: 15}
	Medium = Difficulty{Name: "Medium", Range: 100, MaxTries: 10}
	Hard   = Difficulty{Name: "Hard", Range: 200, MaxTries: 7}
)

// DefaultDifficultyName is the difficulty a new game starts under
const DefaultDifficultyName = "Medium"

// BuiltinDifficulties returns the difficulty table in display order
func BuiltinDifficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ValidateDifficulty checks that a difficulty can host a round
func ValidateDifficulty(d Difficulty) error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDifficulty)
	}
	if d.Range < MinGuess {
		return fmt.Errorf("%w: range must be at least %d, got %d", ErrInvalidDifficulty, MinGuess, d.Range)
	}
	if d.MaxTries < 1 {
		return fmt.Errorf("%w: max_tries must be positive, got %d", ErrInvalidDifficulty, d.MaxTries)
	}
	return nil
}
