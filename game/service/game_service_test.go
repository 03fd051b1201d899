package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/numberguess/game/config"
	"github.com/wricardo/mcp-training/numberguess/game/engine"
	"github.com/wricardo/mcp-training/numberguess/game/history"
	"github.com/wricardo/mcp-training/numberguess/game/service"
)

var errNoSession = errors.New("no active game")

// fixedSource always draws the same secret
type fixedSource struct {
	secret int
}

func (f fixedSource) IntN(n int) int {
	if f.secret > n {
		return n - 1
	}
	return f.secret - 1
}

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	current  *service.Session
	deleted  int
	touchErr error
}

func (m *MockSessionManager) Create(player string, difficulty engine.Difficulty, rng engine.RandomSource) (*service.Session, error) {
	eng, err := engine.NewEngine(difficulty, rng)
	if err != nil {
		return nil, err
	}

	m.current = &service.Session{
		ID:             "t001",
		Player:         player,
		Engine:         eng,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	return m.current, nil
}

func (m *MockSessionManager) Get() (*service.Session, error) {
	if m.current == nil {
		return nil, errNoSession
	}
	return m.current, nil
}

func (m *MockSessionManager) Delete() error {
	if m.current == nil {
		return errNoSession
	}
	m.current = nil
	m.deleted++
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed() error {
	if m.touchErr != nil {
		return m.touchErr
	}
	if m.current == nil {
		return errNoSession
	}
	m.current.LastAccessedAt = time.Now()
	return nil
}

// MockHistoryLog implements service.HistoryLog in memory
type MockHistoryLog struct {
	records   []history.OutcomeRecord
	appendErr error
	readErr   error
}

func (m *MockHistoryLog) Append(record history.OutcomeRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.records = append(m.records, record)
	return nil
}

func (m *MockHistoryLog) Recent(n int) ([]history.OutcomeRecord, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	if n <= 0 || n >= len(m.records) {
		return m.records, nil
	}
	return m.records[len(m.records)-n:], nil
}

func setupTestService(secret int) (service.GameService, *MockSessionManager, *MockHistoryLog) {
	sessions := &MockSessionManager{}
	historyLog := &MockHistoryLog{}
	svc := service.NewGameService(sessions, config.NewManager(), historyLog,
		service.WithRandomSource(fixedSource{secret: secret}))
	return svc, sessions, historyLog
}

func TestGameService_StartGame(t *testing.T) {
	svc, _, _ := setupTestService(42)
	ctx := context.Background()

	info, err := svc.StartGame(ctx, "  Ada  ")
	if err != nil {
		t.Fatalf("Failed to start game: %v", err)
	}

	if info.Player != "Ada" {
		t.Errorf("Expected player Ada, got %q", info.Player)
	}
	if info.Difficulty != engine.Medium {
		t.Errorf("Expected Medium difficulty, got %v", info.Difficulty)
	}
	if info.Tries != 0 || info.RemainingTries != 10 {
		t.Errorf("Expected 0 tries and 10 remaining, got %d/%d", info.Tries, info.RemainingTries)
	}
	if info.Prompt != "Enter your guess (1-100):" {
		t.Errorf("Unexpected prompt %q", info.Prompt)
	}
	if info.Secret != 0 {
		t.Error("Secret must not be revealed while the round is in progress")
	}
}

func TestGameService_StartGameDefaultPlayer(t *testing.T) {
	svc, _, _ := setupTestService(42)

	for _, name := range []string{"", "   "} {
		info, err := svc.StartGame(context.Background(), name)
		if err != nil {
			t.Fatalf("Failed to start game: %v", err)
		}
		if info.Player != service.DefaultPlayerName {
			t.Errorf("Expected %s for %q, got %q", service.DefaultPlayerName, name, info.Player)
		}
	}
}

func TestGameService_NoActiveGame(t *testing.T) {
	svc, _, _ := setupTestService(42)
	ctx := context.Background()

	if _, err := svc.GetSession(ctx); !errors.Is(err, errNoSession) {
		t.Errorf("Expected no session error, got %v", err)
	}
	if _, err := svc.Guess(ctx, "5"); !errors.Is(err, errNoSession) {
		t.Errorf("Expected no session error, got %v", err)
	}
	if _, err := svc.Reset(ctx); !errors.Is(err, errNoSession) {
		t.Errorf("Expected no session error, got %v", err)
	}
}

func TestGameService_WinningRound(t *testing.T) {
	svc, _, historyLog := setupTestService(42)
	ctx := context.Background()
	svc.StartGame(ctx, "Ada")

	steps := []struct {
		input   string
		result  engine.GuessResult
		message string
	}{
		{"50", engine.TooHigh, "Too high! Try again."},
		{"25", engine.TooLow, "Too low! Try again."},
		{"42", engine.Correct, "Correct! The number was 42."},
	}

	var outcome *service.GuessOutcome
	for _, step := range steps {
		var err error
		outcome, err = svc.Guess(ctx, step.input)
		if err != nil {
			t.Fatalf("Guess %s failed: %v", step.input, err)
		}
		if outcome.Result != step.result {
			t.Errorf("Guess %s: expected %s, got %s", step.input, step.result, outcome.Result)
		}
		if outcome.Message != step.message {
			t.Errorf("Guess %s: expected message %q, got %q", step.input, step.message, outcome.Message)
		}
	}

	if outcome.Status != engine.StatusWon {
		t.Errorf("Expected won status, got %s", outcome.Status)
	}
	if outcome.PlayAgainPrompt != service.PlayAgainPrompt {
		t.Errorf("Expected play-again prompt, got %q", outcome.PlayAgainPrompt)
	}
	if !outcome.Session.GameOver || !outcome.Session.ReplayPending {
		t.Error("Finished round should be over with a replay pending")
	}
	if outcome.Session.Secret != 42 {
		t.Errorf("Expected secret to be revealed, got %d", outcome.Session.Secret)
	}

	if len(historyLog.records) != 1 {
		t.Fatalf("Expected 1 history record, got %d", len(historyLog.records))
	}
	want := history.OutcomeRecord{Player: "Ada", Difficulty: "Medium", Result: history.ResultWin, Tries: 3}
	if historyLog.records[0] != want {
		t.Errorf("Expected record %+v, got %+v", want, historyLog.records[0])
	}
}

func TestGameService_LosingRound(t *testing.T) {
	svc, _, historyLog := setupTestService(7)
	ctx := context.Background()
	svc.StartGame(ctx, "Bob")

	if _, err := svc.ChangeDifficulty(ctx, "Easy"); err != nil {
		t.Fatalf("Failed to change difficulty: %v", err)
	}

	var outcome *service.GuessOutcome
	for i := 0; i < 15; i++ {
		var err error
		outcome, err = svc.Guess(ctx, "1")
		if err != nil {
			t.Fatalf("Guess %d failed: %v", i+1, err)
		}
	}

	if outcome.Status != engine.StatusLost {
		t.Fatalf("Expected lost status, got %s", outcome.Status)
	}
	if outcome.Message != "You lost! The number was 7." {
		t.Errorf("Unexpected loss message %q", outcome.Message)
	}

	want := history.OutcomeRecord{Player: "Bob", Difficulty: "Easy", Result: history.ResultLoss, Tries: 15}
	if len(historyLog.records) != 1 || historyLog.records[0] != want {
		t.Errorf("Expected %+v, got %+v", want, historyLog.records)
	}
}

func TestGameService_WinOnLastTry(t *testing.T) {
	svc, _, historyLog := setupTestService(200)
	ctx := context.Background()
	svc.StartGame(ctx, "Ada")
	svc.ChangeDifficulty(ctx, "hard")

	for i := 0; i < 6; i++ {
		svc.Guess(ctx, "1")
	}
	outcome, err := svc.Guess(ctx, "200")
	if err != nil {
		t.Fatalf("Final guess failed: %v", err)
	}

	if outcome.Status != engine.StatusWon {
		t.Errorf("Correct final guess should win, got %s", outcome.Status)
	}
	if historyLog.records[0].Result != history.ResultWin || historyLog.records[0].Tries != 7 {
		t.Errorf("Unexpected record %+v", historyLog.records[0])
	}
}

func TestGameService_InvalidInput(t *testing.T) {
	svc, _, _ := setupTestService(42)
	ctx := context.Background()
	svc.StartGame(ctx, "Ada")

	tests := []struct {
		input   string
		kind    error
		message string
	}{
		{"abc", service.ErrInvalidGuess, "Please enter a valid integer between 1 and 100."},
		{"", service.ErrInvalidGuess, "Please enter a valid integer between 1 and 100."},
		{"4.5", service.ErrInvalidGuess, "Please enter a valid integer between 1 and 100."},
		{"0", service.ErrGuessOutOfRange, "Your guess must be between 1 and 100."},
		{"101", service.ErrGuessOutOfRange, "Your guess must be between 1 and 100."},
		{"-5", service.ErrGuessOutOfRange, "Your guess must be between 1 and 100."},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := svc.Guess(ctx, tt.input)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("Expected %v, got %v", tt.kind, err)
			}

			var inputErr *service.InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("Expected InputError, got %T", err)
			}
			if inputErr.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, inputErr.Message)
			}
		})
	}

	info, _ := svc.GetSession(ctx)
	if info.Tries != 0 {
		t.Errorf("Rejected input must not consume tries, got %d", info.Tries)
	}
}

func TestGameService_GuessAfterRoundOver(t *testing.T) {
	svc, _, historyLog := setupTestService(42)
	ctx := context.Background()
	svc.StartGame(ctx, "Ada")
	svc.Guess(ctx, "42")

	if _, err := svc.Guess(ctx, "10"); !errors.Is(err, engine.ErrRoundOver) {
		t.Errorf("Expected ErrRoundOver, got %v", err)
	}

	info, _ := svc.GetSession(ctx)
	if info.Tries != 1 {
		t.Errorf("Finished round must stay frozen, got %d tries", info.Tries)
	}
	if len(historyLog.records) != 1 {
		t.Errorf("Expected exactly one record, got %d", len(historyLog.records))
	}
}

func TestGameService_ChangeDifficultyForfeitsSilently(t *testing.T) {
	svc, _, historyLog := setupTestService(42)
	ctx := context.Background()
	svc.StartGame(ctx, "Ada")
	svc.Guess(ctx, "10")
	svc.Guess(ctx, "90")

	info, err := svc.ChangeDifficulty(ctx, "Hard")
	if err != nil {
		t.Fatalf("Failed to change difficulty: %v", err)
	}

	if info.Difficulty != engine.Hard {
		t.Errorf("Expected Hard, got %v", info.Difficulty)
	}
	if info.Tries != 0 || info.Feedback != "" || len(info.Guesses) != 0 {
		t.Errorf("Expected a fresh round, got %+v", info)
	}
	if info.Prompt != "Enter your guess (1-200):" {
		t.Errorf("Unexpected prompt %q", info.Prompt)
	}
	if len(historyLog.records) != 0 {
		t.Errorf("Forfeited round must not be logged, got %v", historyLog.records)
	}
}

func TestGameService_ChangeDifficultyUnknown(t *testing.T) {
	svc, _, _ := setupTestService(42)
	ctx := context.Background()
	svc.StartGame(ctx, "Ada")
	svc.Guess(ctx, "10")

	if _, err := svc.ChangeDifficulty(ctx, "Nightmare"); !errors.Is(err, config.ErrDifficultyNotFound) {
		t.Errorf("Expected ErrDifficultyNotFound, got %v", err)
	}

	info, _ := svc.GetSession(ctx)
	if info.Tries != 1 || info.Difficulty != engine.Medium {
		t.Error("Unknown difficulty must leave the round untouched")
	}
}

func TestGameService_Reset(t *testing.T) {
	svc, _, historyLog := setupTestService(42)
	ctx := context.Background()
	svc.StartGame(ctx, "Ada")
	svc.ChangeDifficulty(ctx, "Easy")
	svc.Guess(ctx, "3")

	info, err := svc.Reset(ctx)
	if err != nil {
		t.Fatalf("Failed to reset: %v", err)
	}

	if info.Difficulty != engine.Easy {
		t.Errorf("Reset should keep the difficulty, got %v", info.Difficulty)
	}
	if info.Tries != 0 {
		t.Errorf("Expected 0 tries after reset, got %d", info.Tries)
	}
	if len(historyLog.records) != 0 {
		t.Error("Reset must not log the abandoned round")
	}
}

func TestGameService_PlayAgain(t *testing.T) {
	svc, _, _ := setupTestService(42)
	ctx := context.Background()
	svc.StartGame(ctx, "Ada")

	if _, err := svc.PlayAgain(ctx, true); !errors.Is(err, service.ErrNoReplayPending) {
		t.Errorf("Expected ErrNoReplayPending mid-round, got %v", err)
	}

	svc.Guess(ctx, "42")

	result, err := svc.PlayAgain(ctx, true)
	if err != nil {
		t.Fatalf("Failed to play again: %v", err)
	}
	if result.Exit {
		t.Error("Accepting should not exit")
	}
	if result.Session.Tries != 0 || result.Session.GameOver || result.Session.ReplayPending {
		t.Errorf("Expected a fresh round, got %+v", result.Session)
	}
	if result.Session.RoundsPlayed != 1 || result.Session.Wins != 1 {
		t.Errorf("Expected 1 round and 1 win, got %d/%d", result.Session.RoundsPlayed, result.Session.Wins)
	}

	select {
	case <-svc.Done():
		t.Error("Done should stay open while the player continues")
	default:
	}
}

func TestGameService_PlayAgainDecline(t *testing.T) {
	svc, sessions, _ := setupTestService(42)
	ctx := context.Background()
	svc.StartGame(ctx, "Ada")
	svc.Guess(ctx, "42")

	result, err := svc.PlayAgain(ctx, false)
	if err != nil {
		t.Fatalf("Failed to decline: %v", err)
	}
	if !result.Exit {
		t.Error("Declining should exit")
	}
	if result.Message != "Thanks for playing, Ada!" {
		t.Errorf("Unexpected goodbye %q", result.Message)
	}
	if sessions.deleted != 1 {
		t.Error("Declining should end the session")
	}

	select {
	case <-svc.Done():
	case <-time.After(time.Second):
		t.Fatal("Done should be closed after declining")
	}
}

func TestGameService_History(t *testing.T) {
	svc, _, historyLog := setupTestService(42)
	ctx := context.Background()

	view, err := svc.History(ctx)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if !view.Empty || view.Text != service.NoHistoryMessage {
		t.Errorf("Expected empty history, got %+v", view)
	}
	if view.Records == nil {
		t.Error("Empty history should still carry a non-nil record list")
	}

	for i := 1; i <= 12; i++ {
		historyLog.records = append(historyLog.records,
			history.OutcomeRecord{Player: "P", Difficulty: "Easy", Result: history.ResultWin, Tries: i})
	}

	view, err = svc.History(ctx)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if len(view.Records) != service.HistoryLimit {
		t.Fatalf("Expected %d records, got %d", service.HistoryLimit, len(view.Records))
	}
	if view.Records[0].Tries != 3 || view.Records[9].Tries != 12 {
		t.Errorf("Expected the 10 most recent records, got %+v", view.Records)
	}
	if !strings.HasPrefix(view.Text, service.HistoryHeader+"\n") {
		t.Errorf("Expected header, got %q", view.Text)
	}
	if !strings.Contains(view.Text, "P - Easy - Win - 12\n") {
		t.Errorf("Expected formatted record, got %q", view.Text)
	}
}

func TestGameService_HistoryReadError(t *testing.T) {
	svc, _, historyLog := setupTestService(42)
	historyLog.readErr = errors.New("permission denied")

	_, err := svc.History(context.Background())
	if err == nil || !strings.Contains(err.Error(), "cannot read history") {
		t.Errorf("Expected read error, got %v", err)
	}
}

func TestGameService_HistoryWriteError(t *testing.T) {
	svc, _, historyLog := setupTestService(42)
	historyLog.appendErr = errors.New("disk full")
	ctx := context.Background()
	svc.StartGame(ctx, "Ada")

	outcome, err := svc.Guess(ctx, "42")
	if err != nil {
		t.Fatalf("A failed write must not fail the guess: %v", err)
	}
	if outcome.HistoryError != "Error saving history: disk full" {
		t.Errorf("Unexpected history error %q", outcome.HistoryError)
	}
	if !outcome.Session.ReplayPending {
		t.Error("The play-again prompt should still be raised")
	}
}

func TestGameService_ListDifficulties(t *testing.T) {
	svc, _, _ := setupTestService(42)

	infos, err := svc.ListDifficulties(context.Background())
	if err != nil {
		t.Fatalf("Failed to list difficulties: %v", err)
	}
	if len(infos) != 3 || infos[0].Name != "Easy" {
		t.Errorf("Unexpected difficulties %+v", infos)
	}
}

func TestGameService_TouchFailure(t *testing.T) {
	svc, sessions, _ := setupTestService(42)
	ctx := context.Background()

	if _, err := svc.StartGame(ctx, "Ada"); err != nil {
		t.Fatalf("Failed to start game: %v", err)
	}
	touchErr := errors.New("clock unavailable")
	sessions.touchErr = touchErr

	if _, err := svc.Guess(ctx, "50"); !errors.Is(err, touchErr) {
		t.Errorf("Guess: expected %v, got %v", touchErr, err)
	}
	if _, err := svc.ChangeDifficulty(ctx, "Easy"); !errors.Is(err, touchErr) {
		t.Errorf("ChangeDifficulty: expected %v, got %v", touchErr, err)
	}
	if _, err := svc.Reset(ctx); !errors.Is(err, touchErr) {
		t.Errorf("Reset: expected %v, got %v", touchErr, err)
	}

	sessions.touchErr = nil
	info, err := svc.GetSession(ctx)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if info.Tries != 0 || info.Difficulty != engine.Medium {
		t.Errorf("A failed call must not change the round, got %+v", info)
	}
}

func TestGameService_PlayerNamesStayOnOneLine(t *testing.T) {
	tests := []struct {
		name   string
		player string
		want   string
	}{
		{"embedded newline", "Ada\nEve", "Ada Eve"},
		{"oversized name", strings.Repeat("x", 70000), strings.Repeat("x", service.MaxPlayerNameLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			historyLog, err := history.NewFileLog(filepath.Join(t.TempDir(), "history.txt"))
			if err != nil {
				t.Fatalf("Failed to create history log: %v", err)
			}
			svc := service.NewGameService(&MockSessionManager{}, config.NewManager(), historyLog,
				service.WithRandomSource(fixedSource{secret: 42}))
			ctx := context.Background()

			if _, err := svc.StartGame(ctx, tt.player); err != nil {
				t.Fatalf("Failed to start game: %v", err)
			}
			outcome, err := svc.Guess(ctx, "42")
			if err != nil {
				t.Fatalf("Guess failed: %v", err)
			}
			if outcome.HistoryError != "" {
				t.Fatalf("Unexpected history error: %s", outcome.HistoryError)
			}

			view, err := svc.History(ctx)
			if err != nil {
				t.Fatalf("History failed: %v", err)
			}
			if len(view.Records) != 1 {
				t.Fatalf("Expected 1 record, got %d", len(view.Records))
			}
			if got := view.Records[0]; got.Player != tt.want || got.Result != history.ResultWin || got.Tries != 1 {
				t.Errorf("Expected a win for %.20q, got player %.20q result %s tries %d",
					tt.want, got.Player, got.Result, got.Tries)
			}
		})
	}
}
