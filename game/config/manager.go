package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/numberguess/game/engine"
	"github.com/wricardo/mcp-training/numberguess/game/service"
)

var ErrDifficultyNotFound = errors.New("difficulty not found")

// Manager handles difficulty lookup
type Manager struct {
	difficulties  []engine.Difficulty
	byName        map[string]engine.Difficulty
	defaultConfig engine.Difficulty
}

// NewManager creates a manager over the built-in difficulty table
func NewManager() *Manager {
	m, err := NewManagerWith(engine.BuiltinDifficulties(), engine.DefaultDifficultyName)
	if err != nil {
		// The built-in table is always valid
		panic(err)
	}
	return m
}

// NewManagerWith creates a manager over an explicit table
func NewManagerWith(difficulties []engine.Difficulty, defaultName string) (*Manager, error) {
	if len(difficulties) == 0 {
		return nil, fmt.Errorf("%w: table is empty", engine.ErrInvalidDifficulty)
	}

	m := &Manager{
		difficulties: make([]engine.Difficulty, 0, len(difficulties)),
		byName:       make(map[string]engine.Difficulty, len(difficulties)),
	}

	for _, d := range difficulties {
		if err := engine.ValidateDifficulty(d); err != nil {
			return nil, err
		}
		key := strings.ToLower(d.Name)
		if _, exists := m.byName[key]; exists {
			return nil, fmt.Errorf("%w: duplicate name %q", engine.ErrInvalidDifficulty, d.Name)
		}
		m.byName[key] = d
		m.difficulties = append(m.difficulties, d)
	}

	def, err := m.LoadDifficulty(defaultName)
	if err != nil {
		return nil, fmt.Errorf("failed to load default difficulty: %w", err)
	}
	m.defaultConfig = def

	return m, nil
}

// LoadDifficulty resolves a difficulty by name, ignoring case and surrounding space
func (m *Manager) LoadDifficulty(name string) (engine.Difficulty, error) {
	d, ok := m.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return engine.Difficulty{}, fmt.Errorf("%w: %q (available: %s)", ErrDifficultyNotFound, name, strings.Join(m.Names(), ", "))
	}
	return d, nil
}

// ListDifficulties returns information about every difficulty in display order
func (m *Manager) ListDifficulties() []*service.DifficultyInfo {
	infos := make([]*service.DifficultyInfo, 0, len(m.difficulties))
	for _, d := range m.difficulties {
		infos = append(infos, &service.DifficultyInfo{
			Name:     d.Name,
			Range:    d.Range,
			MaxTries: d.MaxTries,
			Default:  d.Name == m.defaultConfig.Name,
		})
	}
	return infos
}

// Names returns the difficulty names in display order
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.difficulties))
	for _, d := range m.difficulties {
		names = append(names, d.Name)
	}
	return names
}

// GetDefault returns the difficulty new games start under
func (m *Manager) GetDefault() engine.Difficulty {
	return m.defaultConfig
}
