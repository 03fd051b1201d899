package engine

// Status represents the phase of a round
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// GuessResult is the directional feedback for a single guess
type GuessResult string

const (
	TooLow  GuessResult = "too_low"
	TooHigh GuessResult = "too_high"
	Correct GuessResult = "correct"
)

const (
	// MinGuess is the fixed lower bound of every difficulty's range
	MinGuess = 1
)

// Difficulty is a named (range, max tries) pair
type Difficulty struct {
	Name     string `json:"name"`
	Range    int    `json:"range"`
	MaxTries int    `json:"max_tries"`
}

// GuessEntry records one accepted guess of the current round
type GuessEntry struct {
	TryNumber int         `json:"try_number"`
	Value     int         `json:"value"`
	Result    GuessResult `json:"result"`
	Timestamp int64       `json:"timestamp"`
}

// GameState represents the complete state of one round
type GameState struct {
	// Secret is never serialised; transports reveal it explicitly once the round is over.
	Secret     int          `json:"-"`
	Tries      int          `json:"tries"`
	Status     Status       `json:"status"`
	Difficulty Difficulty   `json:"difficulty"`
	LastResult GuessResult  `json:"last_result,omitempty"`
	Guesses    []GuessEntry `json:"guesses"`
}

// IsTerminal reports whether the status ends a round
func (s Status) IsTerminal() bool {
	return s == StatusWon || s == StatusLost
}
