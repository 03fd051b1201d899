// Command analyze prints quick, human-readable statistics about a history log:
// win rate and average tries per difficulty, and totals per player.
// Malformed lines are counted and otherwise ignored.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/numberguess/game/engine"
	"github.com/wricardo/mcp-training/numberguess/game/history"
)

// DifficultyStats aggregates the rounds played on one difficulty
type DifficultyStats struct {
	Name       string
	Games      int
	Wins       int
	TotalTries int
	WinTries   int
}

// WinRate returns the share of games won, in percent
func (s *DifficultyStats) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) * 100 / float64(s.Games)
}

// AverageTries returns the mean tries over all games
func (s *DifficultyStats) AverageTries() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalTries) / float64(s.Games)
}

// AverageWinningTries returns the mean tries over won games
func (s *DifficultyStats) AverageWinningTries() float64 {
	if s.Wins == 0 {
		return 0
	}
	return float64(s.WinTries) / float64(s.Wins)
}

// PlayerStats aggregates the rounds of one player
type PlayerStats struct {
	Name    string
	Games   int
	Wins    int
	BestWin int // Fewest tries in a won round, 0 without wins
}

// Summary is the analysis of a whole log
type Summary struct {
	Games        int
	Wins         int
	Malformed    int
	Difficulties []*DifficultyStats
	Players      []*PlayerStats
}

// Summarize aggregates records. Built-in difficulties come first in table
// order, any others follow alphabetically. Players are ranked by wins.
func Summarize(records []history.OutcomeRecord, malformed int) *Summary {
	summary := &Summary{Malformed: malformed}
	byDifficulty := map[string]*DifficultyStats{}
	byPlayer := map[string]*PlayerStats{}

	for _, r := range records {
		d, ok := byDifficulty[r.Difficulty]
		if !ok {
			d = &DifficultyStats{Name: r.Difficulty}
			byDifficulty[r.Difficulty] = d
		}
		p, ok := byPlayer[r.Player]
		if !ok {
			p = &PlayerStats{Name: r.Player}
			byPlayer[r.Player] = p
		}

		summary.Games++
		d.Games++
		d.TotalTries += r.Tries
		p.Games++

		if r.Result == history.ResultWin {
			summary.Wins++
			d.Wins++
			d.WinTries += r.Tries
			p.Wins++
			if p.BestWin == 0 || r.Tries < p.BestWin {
				p.BestWin = r.Tries
			}
		}
	}

	for _, builtin := range engine.BuiltinDifficulties() {
		if d, ok := byDifficulty[builtin.Name]; ok {
			summary.Difficulties = append(summary.Difficulties, d)
			delete(byDifficulty, builtin.Name)
		}
	}
	var others []*DifficultyStats
	for _, d := range byDifficulty {
		others = append(others, d)
	}
	sort.Slice(others, func(i, j int) bool { return others[i].Name < others[j].Name })
	summary.Difficulties = append(summary.Difficulties, others...)

	for _, p := range byPlayer {
		summary.Players = append(summary.Players, p)
	}
	sort.Slice(summary.Players, func(i, j int) bool {
		a, b := summary.Players[i], summary.Players[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.Name < b.Name
	})

	return summary
}

func printSummary(w io.Writer, path string, s *Summary) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", path)

	if s.Games == 0 {
		fmt.Fprintln(w, "No game history found.")
		if s.Malformed > 0 {
			fmt.Fprintf(w, "⚠️  %d malformed lines skipped\n", s.Malformed)
		}
		return
	}

	fmt.Fprintf(w, "Games: %d\n", s.Games)
	fmt.Fprintf(w, "Wins: %d (%.1f%%)\n", s.Wins, float64(s.Wins)*100/float64(s.Games))
	if s.Malformed > 0 {
		fmt.Fprintf(w, "⚠️  %d malformed lines skipped\n", s.Malformed)
	}

	fmt.Fprintln(w, "\nBy difficulty:")
	for _, d := range s.Difficulties {
		fmt.Fprintf(w, "  %-8s games=%-4d win rate=%5.1f%%  avg tries=%.1f", d.Name, d.Games, d.WinRate(), d.AverageTries())
		if d.Wins > 0 {
			fmt.Fprintf(w, "  avg tries to win=%.1f", d.AverageWinningTries())
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "\nBy player:")
	for _, p := range s.Players {
		fmt.Fprintf(w, "  %-12s games=%-4d wins=%-4d", p.Name, p.Games, p.Wins)
		if p.BestWin > 0 {
			fmt.Fprintf(w, "  best=%d tries", p.BestWin)
		}
		fmt.Fprintln(w)
	}
}

func analyze(w io.Writer, path string) error {
	log, err := history.NewFileLog(path)
	if err != nil {
		return err
	}

	records, issues, err := log.Inspect()
	if err != nil {
		return err
	}

	printSummary(w, path, Summarize(records, len(issues)))
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "print statistics about history logs",
		ArgsUsage: "[history files...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "history-file",
				Value:   history.DefaultFile,
				Usage:   "history file analysed when no arguments are given",
				Sources: cli.EnvVars("HISTORY_FILE"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				files = []string{cmd.String("history-file")}
			}

			for _, file := range files {
				if err := analyze(os.Stdout, file); err != nil {
					fmt.Printf("Error reading %s: %v\n", file, err)
				}
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
