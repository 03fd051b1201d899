// Package engine provides the core round logic for the Number Guessing Game.
//
// The engine package implements the game mechanics including:
//   - Secret selection from a difficulty's range
//   - Guess evaluation (too low, too high, correct)
//   - Try accounting against the difficulty's budget
//   - Round status transitions (in progress, won, lost)
//
// Core Types:
//
// The Engine interface defines the main contract for round operations,
// implemented by GameEngine. GameState represents the current round, while
// Difficulty describes the range and try budget the round is played under.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.Medium, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, status, err := gameEngine.SubmitGuess(50)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Game Rules:
//
// A round draws a secret uniformly from [1, range]. Every accepted guess costs
// one try. A correct guess wins immediately, even on the last allowed try. A
// wrong guess that spends the last try loses the round. A finished round
// rejects further guesses without changing its state.
//
// The engine does no input parsing and no I/O: callers validate raw input
// before calling SubmitGuess.
package engine
