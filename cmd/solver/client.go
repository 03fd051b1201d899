package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/numberguess/game/service"
)

// ErrNotFound is returned for 404 responses, e.g. when no game is active
var ErrNotFound = errors.New("not found")

// Client calls the game's REST API
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w: %s", method, path, ErrNotFound, strings.TrimSpace(string(data)))
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, strings.TrimSpace(string(data)))
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse %s response: %w", path, err)
		}
	}
	return nil
}

// StartGame starts a game for player
func (c *Client) StartGame(ctx context.Context, player string) (*service.SessionInfo, error) {
	var info service.SessionInfo
	err := c.do(ctx, http.MethodPost, "/api/game", map[string]string{"player_name": player}, &info)
	return &info, err
}

// GetGame returns the active game, or ErrNotFound
func (c *Client) GetGame(ctx context.Context) (*service.SessionInfo, error) {
	var info service.SessionInfo
	err := c.do(ctx, http.MethodGet, "/api/game", nil, &info)
	return &info, err
}

// ChangeDifficulty switches difficulty, starting a fresh round
func (c *Client) ChangeDifficulty(ctx context.Context, name string) (*service.SessionInfo, error) {
	var info service.SessionInfo
	err := c.do(ctx, http.MethodPost, "/api/game/difficulty", map[string]string{"difficulty": name}, &info)
	return &info, err
}

// Guess submits one guess
func (c *Client) Guess(ctx context.Context, value int) (*service.GuessOutcome, error) {
	var outcome service.GuessOutcome
	err := c.do(ctx, http.MethodPost, "/api/game/guess", map[string]int{"guess": value}, &outcome)
	return &outcome, err
}

// PlayAgain answers the play-again prompt
func (c *Client) PlayAgain(ctx context.Context, again bool) (*service.PlayAgainResult, error) {
	var result service.PlayAgainResult
	err := c.do(ctx, http.MethodPost, "/api/game/play-again", map[string]bool{"again": again}, &result)
	return &result, err
}
