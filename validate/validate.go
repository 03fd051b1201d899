// Command validate checks history log files written by the Number Guessing
// Game. For every line it checks:
//   - Four comma-separated fields with a numeric tries count
//   - A non-empty player name
//   - A known difficulty (Easy, Medium, Hard)
//   - A result of Win or Loss
//   - Tries within the difficulty's budget, and a Loss using the whole budget
//
// Files are given as arguments; without arguments HISTORY_FILE or
// history.txt is checked. The exit status is 1 if any file has errors.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/numberguess/game/config"
	"github.com/wricardo/mcp-training/numberguess/game/history"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File    string
	Valid   bool
	Records int
	Errors  []string
}

// validateHistory loads and validates a single history file.
func validateHistory(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	f, err := os.Open(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}
	defer f.Close()

	if err := validateLines(f, &result); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ %d records", result.Records))
	}
	return result
}

func validateLines(r io.Reader, result *ValidationResult) error {
	difficulties := config.NewManager()

	return history.ScanLines(r, func(lineNo int, text string) {
		if _, err := history.ParseLine(text); err == nil {
			result.Records++
		}

		for _, problem := range checkLine(difficulties, text) {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %s (%q)", lineNo, problem, text))
		}
	})
}

// checkLine returns every problem found on one line
func checkLine(difficulties *config.Manager, text string) []string {
	record, err := history.ParseLine(text)
	if err != nil {
		return []string{strings.TrimPrefix(err.Error(), history.ErrMalformedRecord.Error()+": ")}
	}

	var problems []string
	if err := record.Validate(); err != nil {
		problems = append(problems, strings.TrimPrefix(err.Error(), history.ErrMalformedRecord.Error()+": "))
	}

	d, err := difficulties.LoadDifficulty(record.Difficulty)
	if errors.Is(err, config.ErrDifficultyNotFound) {
		return append(problems, fmt.Sprintf("unknown difficulty %q", record.Difficulty))
	}

	if record.Tries > d.MaxTries {
		problems = append(problems, fmt.Sprintf("tries %d exceed the %s budget of %d", record.Tries, d.Name, d.MaxTries))
	}
	if record.Result == history.ResultLoss && record.Tries != d.MaxTries {
		problems = append(problems, fmt.Sprintf("a loss on %s uses all %d tries, got %d", d.Name, d.MaxTries, record.Tries))
	}

	return problems
}

func main() {
	files := os.Args[1:]
	if len(files) == 0 {
		file := os.Getenv("HISTORY_FILE")
		if file == "" {
			file = history.DefaultFile
		}
		files = []string{file}
	}

	allValid := true
	for _, file := range files {
		result := validateHistory(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All history files are valid!")
	} else {
		fmt.Println("❌ Some history files have errors")
		os.Exit(1)
	}
}
