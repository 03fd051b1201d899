package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/numberguess/game/engine"
	"github.com/wricardo/mcp-training/numberguess/game/history"
)

var ErrNoReplayPending = errors.New("round still in progress")

// Option configures a game service
type Option func(*gameServiceImpl)

// WithRandomSource sets the source secrets are drawn from
func WithRandomSource(rng engine.RandomSource) Option {
	return func(s *gameServiceImpl) {
		s.rng = rng
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	history  HistoryLog
	rng      engine.RandomSource

	mu       sync.Mutex
	done     chan struct{}
	doneOnce sync.Once
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, historyLog HistoryLog, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		history:  historyLog,
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		s.rng = engine.NewRandomSource()
	}

	return s
}

// StartGame creates the active game for a player under the default difficulty
func (s *gameServiceImpl) StartGame(ctx context.Context, playerName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player := ResolvePlayerName(playerName)
	difficulty := s.configs.GetDefault()

	sess, err := s.sessions.Create(player, difficulty, s.rng)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	log.Info().
		Str("session", sess.ID).
		Str("player", player).
		Str("difficulty", difficulty.Name).
		Msg("game started")
	logSecret(sess)

	return s.sessionInfo(sess), nil
}

// GetSession returns the renderable state of the active game
func (s *gameServiceImpl) GetSession(ctx context.Context) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get()
	if err != nil {
		return nil, err
	}

	return s.sessionInfo(sess), nil
}

// Guess validates raw input and submits it to the engine
func (s *gameServiceImpl) Guess(ctx context.Context, input string) (*GuessOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get()
	if err != nil {
		return nil, err
	}
	if err := s.sessions.UpdateLastAccessed(); err != nil {
		return nil, err
	}

	if sess.Engine.IsGameOver() {
		return nil, fmt.Errorf("guess rejected: %w", engine.ErrRoundOver)
	}

	difficulty := sess.Engine.GetDifficulty()
	value, err := ParseGuess(input, difficulty.Range)
	if err != nil {
		log.Debug().Str("input", input).Err(err).Msg("guess rejected")
		return nil, err
	}

	result, status, err := sess.Engine.SubmitGuess(value)
	if err != nil {
		return nil, fmt.Errorf("failed to submit guess: %w", err)
	}

	sess.Feedback = feedbackFor(result, sess.Engine.GetState())

	outcome := &GuessOutcome{
		Guess:   value,
		Result:  result,
		Status:  status,
		Message: sess.Feedback,
	}

	if status.IsTerminal() {
		s.finishRound(sess, outcome)
	}

	log.Debug().
		Int("guess", value).
		Str("result", string(result)).
		Int("tries", sess.Engine.GetTries()).
		Str("status", string(status)).
		Msg("guess evaluated")

	outcome.Session = s.sessionInfo(sess)
	return outcome, nil
}

// finishRound disables guessing, logs the outcome, and raises the play-again prompt.
// A failed write is surfaced on the outcome but does not end the game.
func (s *gameServiceImpl) finishRound(sess *Session, outcome *GuessOutcome) {
	state := sess.Engine.GetState()

	result := history.ResultLoss
	if state.Status == engine.StatusWon {
		result = history.ResultWin
		sess.Wins++
	}
	sess.RoundsPlayed++
	sess.ReplayPending = true

	record := history.OutcomeRecord{
		Player:     sess.Player,
		Difficulty: state.Difficulty.Name,
		Result:     result,
		Tries:      state.Tries,
	}
	outcome.Record = &record
	outcome.PlayAgainPrompt = PlayAgainPrompt

	if err := s.history.Append(record); err != nil {
		log.Warn().Err(err).Str("record", record.Line()).Msg("failed to save history")
		outcome.HistoryError = fmt.Sprintf("Error saving history: %v", err)
		return
	}

	log.Info().
		Str("player", record.Player).
		Str("difficulty", record.Difficulty).
		Str("result", string(record.Result)).
		Int("tries", record.Tries).
		Msg("round finished")
}

// ChangeDifficulty switches difficulty and starts a fresh round.
// An unfinished round is forfeited without a log entry.
func (s *gameServiceImpl) ChangeDifficulty(ctx context.Context, name string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get()
	if err != nil {
		return nil, err
	}
	if err := s.sessions.UpdateLastAccessed(); err != nil {
		return nil, err
	}

	difficulty, err := s.configs.LoadDifficulty(name)
	if err != nil {
		return nil, fmt.Errorf("failed to change difficulty: %w", err)
	}

	if err := s.restartRound(sess, difficulty); err != nil {
		return nil, err
	}

	log.Info().Str("difficulty", difficulty.Name).Msg("difficulty changed")
	return s.sessionInfo(sess), nil
}

// Reset starts a fresh round under the current difficulty
func (s *gameServiceImpl) Reset(ctx context.Context) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get()
	if err != nil {
		return nil, err
	}
	if err := s.sessions.UpdateLastAccessed(); err != nil {
		return nil, err
	}

	if err := s.restartRound(sess, sess.Engine.GetDifficulty()); err != nil {
		return nil, err
	}

	log.Info().Msg("round reset")
	return s.sessionInfo(sess), nil
}

// PlayAgain answers the play-again prompt raised by a finished round
func (s *gameServiceImpl) PlayAgain(ctx context.Context, again bool) (*PlayAgainResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get()
	if err != nil {
		return nil, err
	}

	if !sess.ReplayPending {
		return nil, ErrNoReplayPending
	}

	if !again {
		if err := s.sessions.Delete(); err != nil {
			return nil, fmt.Errorf("failed to end game: %w", err)
		}
		log.Info().
			Str("player", sess.Player).
			Int("rounds", sess.RoundsPlayed).
			Int("wins", sess.Wins).
			Msg("player left")
		s.doneOnce.Do(func() { close(s.done) })

		return &PlayAgainResult{Exit: true, Message: GoodbyeMessage(sess.Player)}, nil
	}

	if err := s.restartRound(sess, sess.Engine.GetDifficulty()); err != nil {
		return nil, err
	}

	return &PlayAgainResult{
		Message: "New round started.",
		Session: s.sessionInfo(sess),
	}, nil
}

// Done is closed once the player declines another round
func (s *gameServiceImpl) Done() <-chan struct{} {
	return s.done
}

// History returns the most recent well-formed outcome records
func (s *gameServiceImpl) History(ctx context.Context) (*HistoryView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.history.Recent(HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("cannot read history: %w", err)
	}

	view := &HistoryView{Title: HistoryTitle, Records: records}
	if len(records) == 0 {
		view.Empty = true
		view.Records = []history.OutcomeRecord{}
		view.Message = NoHistoryMessage
		view.Text = NoHistoryMessage
		return view, nil
	}

	view.Text = FormatHistory(records)
	return view, nil
}

// ListDifficulties returns the difficulty table
func (s *gameServiceImpl) ListDifficulties(ctx context.Context) ([]*DifficultyInfo, error) {
	return s.configs.ListDifficulties(), nil
}

func (s *gameServiceImpl) restartRound(sess *Session, difficulty engine.Difficulty) error {
	prev := sess.Engine.GetState()
	if prev.Status == engine.StatusInProgress && prev.Tries > 0 {
		log.Info().
			Str("difficulty", prev.Difficulty.Name).
			Int("tries", prev.Tries).
			Msg("unfinished round discarded")
	}

	if _, err := sess.Engine.StartRound(difficulty); err != nil {
		return fmt.Errorf("failed to start round: %w", err)
	}

	sess.Feedback = ""
	sess.ReplayPending = false
	logSecret(sess)
	return nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	state := sess.Engine.GetState()

	guesses := make([]engine.GuessEntry, len(state.Guesses))
	copy(guesses, state.Guesses)

	info := &SessionInfo{
		ID:             sess.ID,
		Player:         sess.Player,
		Difficulty:     state.Difficulty,
		Tries:          state.Tries,
		RemainingTries: sess.Engine.RemainingTries(),
		Status:         state.Status,
		GameOver:       sess.Engine.IsGameOver(),
		ReplayPending:  sess.ReplayPending,
		Prompt:         GuessPrompt(state.Difficulty),
		Feedback:       sess.Feedback,
		LastResult:     state.LastResult,
		Guesses:        guesses,
		RoundsPlayed:   sess.RoundsPlayed,
		Wins:           sess.Wins,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
	}

	if info.GameOver {
		info.Secret = state.Secret
	}

	return info
}

func logSecret(sess *Session) {
	state := sess.Engine.GetState()
	log.Debug().
		Str("difficulty", state.Difficulty.Name).
		Int("secret", state.Secret).
		Msg("new round")
}
