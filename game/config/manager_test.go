package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/numberguess/game/engine"
)

func TestNewManager(t *testing.T) {
	manager := NewManager()

	if manager.GetDefault() != engine.Medium {
		t.Errorf("Expected default %v, got %v", engine.Medium, manager.GetDefault())
	}

	names := manager.Names()
	if strings.Join(names, ",") != "Easy,Medium,Hard" {
		t.Errorf("Unexpected difficulty order: %v", names)
	}
}

func TestManager_LoadDifficulty(t *testing.T) {
	manager := NewManager()

	tests := []struct {
		input    string
		expected engine.Difficulty
	}{
		{"Easy", engine.Easy},
		{"medium", engine.Medium},
		{"HARD", engine.Hard},
		{"  Hard  ", engine.Hard},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := manager.LoadDifficulty(tt.input)
			if err != nil {
				t.Fatalf("Failed to load difficulty: %v", err)
			}
			if d != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, d)
			}
		})
	}
}

func TestManager_LoadDifficulty_NotFound(t *testing.T) {
	manager := NewManager()

	_, err := manager.LoadDifficulty("nightmare")
	if !errors.Is(err, ErrDifficultyNotFound) {
		t.Fatalf("Expected ErrDifficultyNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "Easy, Medium, Hard") {
		t.Errorf("Expected available names in error, got %v", err)
	}
}

func TestManager_ListDifficulties(t *testing.T) {
	manager := NewManager()
	infos := manager.ListDifficulties()

	if len(infos) != 3 {
		t.Fatalf("Expected 3 difficulties, got %d", len(infos))
	}

	defaults := 0
	for _, info := range infos {
		if info.Default {
			defaults++
			if info.Name != "Medium" {
				t.Errorf("Expected Medium to be the default, got %s", info.Name)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("Expected exactly one default, got %d", defaults)
	}

	if infos[2].Range != 200 || infos[2].MaxTries != 7 {
		t.Errorf("Unexpected Hard entry: %+v", infos[2])
	}
}

func TestNewManagerWith_Validation(t *testing.T) {
	tests := []struct {
		name         string
		difficulties []engine.Difficulty
		defaultName  string
	}{
		{"empty table", nil, "Medium"},
		{"invalid entry", []engine.Difficulty{{Name: "Bad", Range: 0, MaxTries: 1}}, "Bad"},
		{"duplicate names", []engine.Difficulty{engine.Easy, {Name: "easy", Range: 10, MaxTries: 2}}, "Easy"},
		{"unknown default", []engine.Difficulty{engine.Easy}, "Medium"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewManagerWith(tt.difficulties, tt.defaultName); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestNewManagerWith_CustomTable(t *testing.T) {
	tiny := engine.Difficulty{Name: "Tiny", Range: 5, MaxTries: 2}
	manager, err := NewManagerWith([]engine.Difficulty{tiny, engine.Hard}, "tiny")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if manager.GetDefault() != tiny {
		t.Errorf("Expected default %v, got %v", tiny, manager.GetDefault())
	}
}
