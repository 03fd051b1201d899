package engine

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
	}{
		{StatusInProgress, false},
		{StatusWon, true},
		{StatusLost, true},
	}

	for _, test := range tests {
		if test.status.IsTerminal() != test.terminal {
			t.Errorf("%s: expected terminal=%v", test.status, test.terminal)
		}
	}
}

func TestGameStateJSONHidesSecret(t *testing.T) {
	state := GameState{
		Secret:     73,
		Tries:      2,
		Status:     StatusInProgress,
		Difficulty: Medium,
		Guesses:    []GuessEntry{},
	}

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("Failed to marshal state: %v", err)
	}

	if strings.Contains(string(data), "secret") || strings.Contains(string(data), "73") {
		t.Errorf("Secret leaked into JSON: %s", data)
	}
	if !strings.Contains(string(data), `"max_tries":10`) {
		t.Errorf("Expected difficulty in JSON, got %s", data)
	}
}
