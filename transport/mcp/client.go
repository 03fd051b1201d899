package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/numberguess/game/engine"
	"github.com/wricardo/mcp-training/numberguess/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Number Guessing Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Number Guessing Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Guess the secret number between 1 and the difficulty's upper bound before
the tries run out. Each wrong guess is answered with "Too low" or "Too high".

AVAILABLE TOOLS:
- start_game: Start a game (call this first)
- game_state: Get the current round
- guess: Submit a guess
- change_difficulty: Switch difficulty (starts a fresh round)
- reset_game: Start a fresh round
- play_again: Answer the play-again prompt once a round has ended
- game_history: Recent outcomes
- list_difficulties: Difficulty table
- game_instructions: Rules and strategy`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Game lifecycle
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start a new game under the default difficulty. Replaces any game in progress.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_name": map[string]interface{}{
					"type":        "string",
					"description": "Player name (optional, defaults to Player1)",
				},
			},
		},
	}, c.handleStartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current round: player, difficulty, tries and last feedback",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "play_again",
		Description: "Answer the play-again prompt after a round has ended. Declining ends the game.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"again": map[string]interface{}{
					"type":        "boolean",
					"description": "true to start another round, false to quit",
				},
			},
			Required: []string{"again"},
		},
	}, c.handlePlayAgain)

	// Round operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "guess",
		Description: "Submit a guess for the secret number",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"guess": map[string]interface{}{
					"type":        "integer",
					"description": "Your guess, between 1 and the difficulty's range",
				},
			},
			Required: []string{"guess"},
		},
	}, c.handleGuess)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "change_difficulty",
		Description: "Switch difficulty and start a fresh round. The current round is forfeited without being recorded.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"difficulty": map[string]interface{}{
					"type":        "string",
					"description": "Difficulty name",
					"enum":        []string{"Easy", "Medium", "Hard"},
				},
			},
			Required: []string{"difficulty"},
		},
	}, c.handleChangeDifficulty)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Start a fresh round under the current difficulty",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleReset)

	// History and configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_history",
		Description: "Show the 10 most recent game outcomes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_difficulties",
		Description: "List the difficulty levels with their ranges and try budgets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListDifficulties)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the game and a winning strategy",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

// Tool handlers

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	playerName, _ := arguments(request)["player_name"].(string)

	var info service.SessionInfo
	err := c.apiCall(ctx, "POST", "/api/game", map[string]string{"player_name": playerName}, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Game started for %s.\n\n%s", info.Player, formatSessionInfo(&info))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var info service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/game", nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleGuess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := arguments(request)["guess"]
	if !ok {
		return mcp.NewToolResultError("guess is required"), nil
	}

	// JSON numbers arrive as float64; send integral values as plain digits
	var guess string
	switch v := raw.(type) {
	case float64:
		if v == float64(int64(v)) {
			guess = fmt.Sprintf("%d", int64(v))
		} else {
			guess = fmt.Sprintf("%v", v)
		}
	default:
		guess = fmt.Sprintf("%v", v)
	}

	var outcome service.GuessOutcome
	err := c.apiCall(ctx, "POST", "/api/game/guess", map[string]string{"guess": guess}, &outcome)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGuessOutcome(&outcome)), nil
}

func (c *Client) handleChangeDifficulty(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	difficulty, _ := arguments(request)["difficulty"].(string)

	var info service.SessionInfo
	err := c.apiCall(ctx, "POST", "/api/game/difficulty", map[string]string{"difficulty": difficulty}, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Difficulty changed to %s. A new round has started.\n\n%s",
		info.Difficulty.Name, formatSessionInfo(&info))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Message string               `json:"message"`
		State   *service.SessionInfo `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", "/api/game/reset", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := response.Message
	if response.State != nil {
		result += "\n\n" + formatSessionInfo(response.State)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handlePlayAgain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	again, ok := arguments(request)["again"].(bool)
	if !ok {
		return mcp.NewToolResultError("again must be true or false"), nil
	}

	var response service.PlayAgainResult
	err := c.apiCall(ctx, "POST", "/api/game/play-again", map[string]bool{"again": again}, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := response.Message
	if response.Session != nil {
		result += "\n\n" + formatSessionInfo(response.Session)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var view service.HistoryView
	if err := c.apiCall(ctx, "GET", "/api/history", nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if view.Empty {
		return mcp.NewToolResultText(view.Message), nil
	}
	return mcp.NewToolResultText(view.Title + "\n\n" + view.Text), nil
}

func (c *Client) handleListDifficulties(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Difficulties []service.DifficultyInfo `json:"difficulties"`
	}

	if err := c.apiCall(ctx, "GET", "/api/difficulties", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Difficulties:\n")
	for _, d := range response.Difficulties {
		fmt.Fprintf(&b, "- %s: 1-%d, %d tries", d.Name, d.Range, d.MaxTries)
		if d.Default {
			b.WriteString(" (default)")
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `NUMBER GUESSING GAME

RULES:
1. The game picks a secret whole number between 1 and N.
2. Each guess is answered with "Too low! Try again.", "Too high! Try again.",
   or "Correct!" when you hit the secret.
3. Only valid guesses count as tries. Text that is not a whole number, or a
   number outside 1-N, is rejected and does not use up a try.
4. You lose when the try budget is spent without finding the secret.
   Guessing correctly on the last try still wins.
5. When a round ends it is written to the history log, and you are asked
   whether to play again.

DIFFICULTIES:
- Easy:   1-50,  15 tries
- Medium: 1-100, 10 tries (default)
- Hard:   1-200,  7 tries

Switching difficulty or resetting abandons the current round. Abandoned
rounds are not recorded.

STRATEGY:
Use binary search: guess the middle of the range that is still possible,
then discard the half the feedback rules out.
For a range of N this needs at most ceil(log2(N+1)) tries:
6 for Easy, 7 for Medium, 8 for Hard. On Hard the budget is 7, so a perfect
search can still lose by one try when unlucky.

TYPICAL SESSION:
1. start_game with your name
2. guess until the round ends
3. play_again true to continue, false to quit
4. game_history to review results`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Player: %s\n", info.Player)
	fmt.Fprintf(&b, "Level: %s (1-%d)\n", info.Difficulty.Name, info.Difficulty.Range)
	fmt.Fprintf(&b, "Tries: %d/%d\n", info.Tries, info.Difficulty.MaxTries)
	fmt.Fprintf(&b, "Status: %s\n", formatStatus(info.Status))

	if info.Feedback != "" {
		fmt.Fprintf(&b, "Feedback: %s\n", info.Feedback)
	}

	if len(info.Guesses) > 0 {
		b.WriteString("Guesses: ")
		for i, g := range info.Guesses {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%d (%s)", g.Value, formatResult(g.Result))
		}
		b.WriteString("\n")
	}

	if info.ReplayPending {
		b.WriteString("\nThe round is over. Use play_again to continue or quit.\n")
	} else {
		fmt.Fprintf(&b, "\n%s\n", info.Prompt)
	}

	return b.String()
}

func formatGuessOutcome(outcome *service.GuessOutcome) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Guess: %d\n", outcome.Guess)
	fmt.Fprintf(&b, "%s\n", outcome.Message)

	if outcome.Session != nil {
		s := outcome.Session
		if outcome.Status == engine.StatusInProgress {
			fmt.Fprintf(&b, "Tries: %d/%d (%d left)\n", s.Tries, s.Difficulty.MaxTries, s.RemainingTries)
		} else {
			fmt.Fprintf(&b, "Tries: %d/%d\n", s.Tries, s.Difficulty.MaxTries)
		}
	}

	if outcome.HistoryError != "" {
		fmt.Fprintf(&b, "Warning: %s\n", outcome.HistoryError)
	}

	if outcome.PlayAgainPrompt != "" {
		fmt.Fprintf(&b, "\n%s Use play_again with true or false.\n", outcome.PlayAgainPrompt)
	}

	return b.String()
}

func formatStatus(status engine.Status) string {
	switch status {
	case engine.StatusWon:
		return "Won"
	case engine.StatusLost:
		return "Lost"
	default:
		return "In progress"
	}
}

func formatResult(result engine.GuessResult) string {
	switch result {
	case engine.TooLow:
		return "too low"
	case engine.TooHigh:
		return "too high"
	default:
		return "correct"
	}
}
