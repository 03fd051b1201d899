package engine

import (
	"errors"
	"testing"
)

func TestBuiltinDifficulties(t *testing.T) {
	tests := []struct {
		name     string
		rng      int
		maxTries int
	}{
		{"Easy", 50, 15},
		{"Medium", 100, 10},
		{"Hard", 200, 7},
	}

	difficulties := BuiltinDifficulties()
	if len(difficulties) != len(tests) {
		t.Fatalf("Expected %d difficulties, got %d", len(tests), len(difficulties))
	}

	for i, tt := range tests {
		d := difficulties[i]
		if d.Name != tt.name || d.Range != tt.rng || d.MaxTries != tt.maxTries {
			t.Errorf("Expected %s{%d, %d}, got %s{%d, %d}", tt.name, tt.rng, tt.maxTries, d.Name, d.Range, d.MaxTries)
		}
		if err := ValidateDifficulty(d); err != nil {
			t.Errorf("Built-in difficulty %s should be valid: %v", d.Name, err)
		}
	}
}

func TestBuiltinDifficulties_ReturnsCopy(t *testing.T) {
	difficulties := BuiltinDifficulties()
	difficulties[0].Range = 1

	if BuiltinDifficulties()[0].Range != 50 {
		t.Error("Mutating the returned slice must not change the table")
	}
}

func TestValidateDifficulty(t *testing.T) {
	tests := []struct {
		name       string
		difficulty Difficulty
		wantErr    bool
	}{
		{"valid", Difficulty{Name: "Custom", Range: 10, MaxTries: 3}, false},
		{"single value range", Difficulty{Name: "One", Range: 1, MaxTries: 1}, false},
		{"missing name", Difficulty{Range: 10, MaxTries: 3}, true},
		{"zero range", Difficulty{Name: "Zero", Range: 0, MaxTries: 3}, true},
		{"zero tries", Difficulty{Name: "NoTries", Range: 10, MaxTries: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDifficulty(tt.difficulty)
			if tt.wantErr && !errors.Is(err, ErrInvalidDifficulty) {
				t.Errorf("Expected ErrInvalidDifficulty, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
