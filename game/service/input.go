package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/wricardo/mcp-training/numberguess/game/engine"
)

var (
	ErrInvalidGuess    = errors.New("invalid guess format")
	ErrGuessOutOfRange = errors.New("guess out of range")
)

// InputError is a rejected guess together with the warning shown to the player
type InputError struct {
	Kind    error
	Input   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Unwrap() error {
	return e.Kind
}

// ParseGuess validates raw input against [1, upper]
func ParseGuess(input string, upper int) (int, error) {
	trimmed := strings.TrimSpace(input)

	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &InputError{Kind: ErrInvalidGuess, Input: input, Message: InvalidFormatMessage(upper)}
	}

	if value < engine.MinGuess || value > upper {
		return 0, &InputError{Kind: ErrGuessOutOfRange, Input: input, Message: OutOfRangeMessage(upper)}
	}

	return value, nil
}
