package service

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/wricardo/mcp-training/numberguess/game/engine"
	"github.com/wricardo/mcp-training/numberguess/game/history"
)

const (
	// DefaultPlayerName replaces an empty or blank name
	DefaultPlayerName = "Player1"

	// MaxPlayerNameLength is the longest name, in characters, kept for a player
	MaxPlayerNameLength = 64

	// HistoryLimit is how many recent records the history view shows
	HistoryLimit = 10

	PlayAgainPrompt  = "Do you want to play again?"
	NoHistoryMessage = "No game history found."
	HistoryTitle     = "Game History (last 10)"
	HistoryHeader    = "Player - Level - Result - Tries"

	tooLowMessage  = "Too low! Try again."
	tooHighMessage = "Too high! Try again."
)

// ResolvePlayerName trims the name and falls back to DefaultPlayerName.
// Control characters become spaces so a name always fits on one log line,
// and the result is cut to MaxPlayerNameLength characters.
func ResolvePlayerName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if runes := []rune(name); len(runes) > MaxPlayerNameLength {
		name = strings.TrimSpace(string(runes[:MaxPlayerNameLength]))
	}

	if name == "" {
		return DefaultPlayerName
	}
	return name
}

// GuessPrompt is the label shown above the guess entry
func GuessPrompt(difficulty engine.Difficulty) string {
	return fmt.Sprintf("Enter your guess (%d-%d):", engine.MinGuess, difficulty.Range)
}

// InvalidFormatMessage warns about input that is not an integer
func InvalidFormatMessage(upper int) string {
	return fmt.Sprintf("Please enter a valid integer between %d and %d.", engine.MinGuess, upper)
}

// OutOfRangeMessage warns about an integer outside the difficulty's range
func OutOfRangeMessage(upper int) string {
	return fmt.Sprintf("Your guess must be between %d and %d.", engine.MinGuess, upper)
}

// WinMessage announces a won round
func WinMessage(secret int) string {
	return fmt.Sprintf("Correct! The number was %d.", secret)
}

// LossMessage announces a lost round
func LossMessage(secret int) string {
	return fmt.Sprintf("You lost! The number was %d.", secret)
}

// GoodbyeMessage is shown when the player declines another round
func GoodbyeMessage(player string) string {
	return fmt.Sprintf("Thanks for playing, %s!", player)
}

func feedbackFor(result engine.GuessResult, state *engine.GameState) string {
	switch state.Status {
	case engine.StatusWon:
		return WinMessage(state.Secret)
	case engine.StatusLost:
		return LossMessage(state.Secret)
	}

	if result == engine.TooLow {
		return tooLowMessage
	}
	return tooHighMessage
}

// FormatHistory renders records under the history header, one per line
func FormatHistory(records []history.OutcomeRecord) string {
	var b strings.Builder
	b.WriteString(HistoryHeader + "\n")
	b.WriteString(strings.Repeat("-", 32) + "\n")
	for _, r := range records {
		fmt.Fprintf(&b, "%s - %s - %s - %d\n", r.Player, r.Difficulty, r.Result, r.Tries)
	}
	return b.String()
}
