// Command solver plays the Number Guessing Game through its REST API using
// binary search, then answers the play-again prompt. With --rounds it keeps
// playing; with --quit it declines after the last round, which stops the server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/numberguess/game/engine"
	"github.com/wricardo/mcp-training/numberguess/game/service"
)

// RoundResult reports one solved round
type RoundResult struct {
	Status  engine.Status
	Tries   int
	Guesses []int
	Message string
}

// Solver narrows the candidate range with every answer
type Solver struct {
	client *Client
	delay  time.Duration
}

// NewSolver creates a solver using client
func NewSolver(client *Client, delay time.Duration) *Solver {
	return &Solver{client: client, delay: delay}
}

// Prepare makes sure a round is in progress, starting a game or answering a
// pending play-again prompt if needed, and switches difficulty when asked.
func (s *Solver) Prepare(ctx context.Context, player, difficulty string) (*service.SessionInfo, error) {
	info, err := s.client.GetGame(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		if info, err = s.client.StartGame(ctx, player); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case info.ReplayPending:
		result, err := s.client.PlayAgain(ctx, true)
		if err != nil {
			return nil, err
		}
		info = result.Session
	}

	if difficulty != "" && info.Difficulty.Name != difficulty {
		if info, err = s.client.ChangeDifficulty(ctx, difficulty); err != nil {
			return nil, err
		}
	}

	return info, nil
}

// SolveRound plays the current round to the end
func (s *Solver) SolveRound(ctx context.Context, info *service.SessionInfo) (*RoundResult, error) {
	lo, hi := engine.MinGuess, info.Difficulty.Range
	result := &RoundResult{Status: engine.StatusInProgress}

	for result.Status == engine.StatusInProgress {
		if lo > hi {
			return nil, fmt.Errorf("no candidates left in [%d, %d]", lo, hi)
		}

		guess := lo + (hi-lo)/2
		outcome, err := s.client.Guess(ctx, guess)
		if err != nil {
			return nil, err
		}

		result.Guesses = append(result.Guesses, guess)
		result.Status = outcome.Status
		result.Message = outcome.Message
		if outcome.Session != nil {
			result.Tries = outcome.Session.Tries
		}

		log.Debug().Int("guess", guess).Str("result", string(outcome.Result)).Msg("guess")

		switch outcome.Result {
		case engine.TooLow:
			lo = guess + 1
		case engine.TooHigh:
			hi = guess - 1
		}

		if s.delay > 0 {
			time.Sleep(s.delay)
		}
	}

	return result, nil
}

// Play solves rounds, answering the play-again prompt in between
func (s *Solver) Play(ctx context.Context, player, difficulty string, rounds int, quit bool) ([]*RoundResult, error) {
	info, err := s.Prepare(ctx, player, difficulty)
	if err != nil {
		return nil, err
	}

	var results []*RoundResult
	for i := 1; i <= rounds; i++ {
		result, err := s.SolveRound(ctx, info)
		if err != nil {
			return results, err
		}
		results = append(results, result)

		log.Info().
			Int("round", i).
			Str("status", string(result.Status)).
			Int("tries", result.Tries).
			Ints("guesses", result.Guesses).
			Msg(result.Message)

		last := i == rounds
		if last && !quit {
			break
		}

		answer, err := s.client.PlayAgain(ctx, !last)
		if err != nil {
			return results, err
		}
		if answer.Exit {
			log.Info().Msg(answer.Message)
			break
		}
		info = answer.Session
	}

	return results, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "solver",
		Usage: "play the Number Guessing Game with binary search",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL", Sources: cli.EnvVars("API_URL")},
			&cli.StringFlag{Name: "player", Value: "Solver", Usage: "player name used when starting a game"},
			&cli.StringFlag{Name: "difficulty", Usage: "difficulty to play (Easy, Medium, Hard)"},
			&cli.IntFlag{Name: "rounds", Value: 1, Usage: "rounds to play"},
			&cli.BoolFlag{Name: "quit", Usage: "decline another round after the last one"},
			&cli.DurationFlag{Name: "delay", Usage: "pause between guesses"},
			&cli.BoolFlag{Name: "v", Usage: "verbose output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if cmd.Bool("v") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			rounds := int(cmd.Int("rounds"))
			if rounds < 1 {
				return fmt.Errorf("rounds must be at least 1, got %d", rounds)
			}

			log.Info().Str("url", cmd.String("url")).Msg("connecting to game server")
			solver := NewSolver(NewClient(cmd.String("url")), cmd.Duration("delay"))

			results, err := solver.Play(ctx, cmd.String("player"), cmd.String("difficulty"), rounds, cmd.Bool("quit"))
			if err != nil {
				return err
			}

			wins := 0
			for _, r := range results {
				if r.Status == engine.StatusWon {
					wins++
				}
			}
			log.Info().Int("rounds", len(results)).Int("wins", wins).Msg("done")
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("solver failed")
	}
}
