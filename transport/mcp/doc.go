// Package mcp exposes the Number Guessing Game to AI agents over the Model
// Context Protocol.
//
// The Client is a thin MCP server whose tools proxy the REST API, so an
// agent and a human at the browser form share the same active game.
//
// MCP Tools:
//   - start_game: Start a game for a player (default Player1)
//   - game_state: Current player, difficulty, tries and feedback
//   - guess: Submit a guess; returns Too low / Too high / the outcome
//   - change_difficulty: Switch to Easy, Medium or Hard (forfeits the round)
//   - reset_game: Start a fresh round under the same difficulty
//   - play_again: Answer the play-again prompt after a round ends
//   - game_history: The 10 most recent outcomes
//   - list_difficulties: The difficulty table
//   - game_instructions: Rules and a suggested strategy
//
// Transport Modes:
//   - Stdio: the "mcp" command serves the tools on stdin/stdout
//   - HTTP: the "serve" command mounts the tools on /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
