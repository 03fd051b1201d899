package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/numberguess/game/service"
)

const helpText = `Commands:
  :level <name>   switch difficulty (Easy, Medium, Hard)
  :reset          start a fresh round
  :history        show recent games
  :state          show the current round
  :help           show this help
  :quit           leave the game`

// errQuit ends the read loop without an error
var errQuit = errors.New("quit")

// Shell plays the game over a reader and a writer
type Shell struct {
	service service.GameService
	in      *bufio.Scanner
	out     io.Writer
}

var _ service.Prompter = (*Shell)(nil)

// NewShell creates a shell reading commands from in and writing to out
func NewShell(gameService service.GameService, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		service: gameService,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// readLine prints a prompt and returns the next line; io.EOF when input ends
func (s *Shell) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.in.Text(), nil
}

// AskPlayerName asks for the player's name. A blank answer is returned as is
// and resolved to the default name by the service.
func (s *Shell) AskPlayerName(ctx context.Context) (string, error) {
	name, err := s.readLine(ctx, "Enter your name: ")
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	return strings.TrimSpace(name), err
}

// ConfirmPlayAgain asks until the answer is yes or no. End of input means no.
func (s *Shell) ConfirmPlayAgain(ctx context.Context) (bool, error) {
	for {
		answer, err := s.readLine(ctx, service.PlayAgainPrompt+" (y/n): ")
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(s.out, "Please answer y or n.")
	}
}

// Run plays until the player declines another round, quits, or input ends
func (s *Shell) Run(ctx context.Context) error {
	name, err := s.AskPlayerName(ctx)
	if err != nil {
		return err
	}

	info, err := s.service.StartGame(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	fmt.Fprintf(s.out, "Welcome, %s! Type :help for commands.\n", info.Player)
	s.printState(info)

	for {
		current, err := s.service.GetSession(ctx)
		if err != nil {
			return err
		}

		line, err := s.readLine(ctx, current.Prompt+" ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, ":") {
			err = s.runCommand(ctx, line)
		} else {
			err = s.guess(ctx, line)
		}

		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) guess(ctx context.Context, input string) error {
	outcome, err := s.service.Guess(ctx, input)
	if err != nil {
		var inputErr *service.InputError
		if errors.As(err, &inputErr) {
			fmt.Fprintf(s.out, "Warning: %s\n", inputErr.Message)
			return nil
		}
		return err
	}

	fmt.Fprintln(s.out, outcome.Message)
	if outcome.Session != nil && !outcome.Status.IsTerminal() {
		fmt.Fprintf(s.out, "Tries: %d/%d\n", outcome.Session.Tries, outcome.Session.Difficulty.MaxTries)
	}

	if outcome.HistoryError != "" {
		fmt.Fprintf(s.out, "Warning: %s\n", outcome.HistoryError)
	}

	if outcome.PlayAgainPrompt == "" {
		return nil
	}

	again, err := s.ConfirmPlayAgain(ctx)
	if err != nil {
		return err
	}

	result, err := s.service.PlayAgain(ctx, again)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, result.Message)
	if result.Exit {
		return errQuit
	}
	s.printState(result.Session)
	return nil
}

func (s *Shell) runCommand(ctx context.Context, line string) error {
	fields := strings.Fields(strings.TrimPrefix(line, ":"))
	if len(fields) == 0 {
		fmt.Fprintln(s.out, helpText)
		return nil
	}

	switch strings.ToLower(fields[0]) {
	case "level", "difficulty":
		if len(fields) < 2 {
			return s.printDifficulties(ctx)
		}
		info, err := s.service.ChangeDifficulty(ctx, fields[1])
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return nil
		}
		s.printState(info)

	case "reset":
		info, err := s.service.Reset(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, "New round started.")
		s.printState(info)

	case "history":
		view, err := s.service.History(ctx)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return nil
		}
		if view.Empty {
			fmt.Fprintln(s.out, view.Message)
			return nil
		}
		fmt.Fprintf(s.out, "%s\n\n%s", view.Title, view.Text)

	case "state":
		info, err := s.service.GetSession(ctx)
		if err != nil {
			return err
		}
		s.printState(info)

	case "help":
		fmt.Fprintln(s.out, helpText)

	case "quit", "exit", "q":
		log.Debug().Msg("player quit from the terminal")
		return errQuit

	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type :help for commands.\n", fields[0])
	}

	return nil
}

func (s *Shell) printDifficulties(ctx context.Context) error {
	difficulties, err := s.service.ListDifficulties(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "Difficulties:")
	for _, d := range difficulties {
		fmt.Fprintf(s.out, "  %-6s 1-%d, %d tries\n", d.Name, d.Range, d.MaxTries)
	}
	return nil
}

func (s *Shell) printState(info *service.SessionInfo) {
	if info == nil {
		return
	}
	fmt.Fprintf(s.out, "Player: %s | Level: %s | Tries: %d/%d\n",
		info.Player, info.Difficulty.Name, info.Tries, info.Difficulty.MaxTries)
	if info.Feedback != "" {
		fmt.Fprintln(s.out, info.Feedback)
	}
}
