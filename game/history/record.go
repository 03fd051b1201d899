package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrMalformedRecord = errors.New("malformed history record")

// Result is the outcome kind of a finished round
type Result string

const (
	ResultWin  Result = "Win"
	ResultLoss Result = "Loss"
)

const fieldCount = 4

// OutcomeRecord summarises one finished round
type OutcomeRecord struct {
	Player     string `json:"player"`
	Difficulty string `json:"difficulty"`
	Result     Result `json:"result"`
	Tries      int    `json:"tries"`
}

// Line renders the record in log format, without the trailing newline
func (r OutcomeRecord) Line() string {
	return fmt.Sprintf("%s,%s,%s,%d", r.Player, r.Difficulty, r.Result, r.Tries)
}

// Validate checks the fields a writer must provide
func (r OutcomeRecord) Validate() error {
	if r.Player == "" {
		return fmt.Errorf("%w: player is required", ErrMalformedRecord)
	}
	if strings.ContainsAny(r.Player, "\r\n") {
		return fmt.Errorf("%w: player must not contain line breaks", ErrMalformedRecord)
	}
	if r.Difficulty == "" {
		return fmt.Errorf("%w: difficulty is required", ErrMalformedRecord)
	}
	if strings.ContainsAny(r.Difficulty, "\r\n") {
		return fmt.Errorf("%w: difficulty must not contain line breaks", ErrMalformedRecord)
	}
	if r.Result != ResultWin && r.Result != ResultLoss {
		return fmt.Errorf("%w: result must be %s or %s, got %q", ErrMalformedRecord, ResultWin, ResultLoss, r.Result)
	}
	if r.Tries < 1 {
		return fmt.Errorf("%w: tries must be positive, got %d", ErrMalformedRecord, r.Tries)
	}
	return nil
}

// ParseLine parses a single log line
func ParseLine(line string) (OutcomeRecord, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, ",")
	if len(parts) != fieldCount {
		return OutcomeRecord{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, fieldCount, len(parts))
	}

	tries, err := strconv.Atoi(strings.TrimSpace(parts[3]))
	if err != nil {
		return OutcomeRecord{}, fmt.Errorf("%w: tries %q is not a number", ErrMalformedRecord, parts[3])
	}

	return OutcomeRecord{
		Player:     parts[0],
		Difficulty: parts[1],
		Result:     Result(parts[2]),
		Tries:      tries,
	}, nil
}

// LineIssue describes a line that could not be parsed
type LineIssue struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// ScanLines calls fn for every non-blank line of a log stream with its
// 1-based line number. Lines have no length limit.
func ScanLines(r io.Reader, fn func(lineNo int, text string)) error {
	reader := bufio.NewReader(r)
	lineNo := 0
	for {
		text, err := reader.ReadString('\n')
		if text != "" {
			lineNo++
			text = strings.TrimRight(text, "\r\n")
			if strings.TrimSpace(text) != "" {
				fn(lineNo, text)
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to scan history: %w", err)
		}
	}
}

// Inspect reads a log stream and splits it into well-formed records and issues.
// Blank lines are neither records nor issues.
func Inspect(r io.Reader) ([]OutcomeRecord, []LineIssue, error) {
	var records []OutcomeRecord
	var issues []LineIssue

	err := ScanLines(r, func(lineNo int, text string) {
		record, err := ParseLine(text)
		if err != nil {
			issues = append(issues, LineIssue{Line: lineNo, Text: text, Reason: err.Error()})
			return
		}
		records = append(records, record)
	})
	if err != nil {
		return nil, nil, err
	}

	return records, issues, nil
}
