// Package api provides the HTTP surface of the Number Guessing Game.
//
// It serves the embedded HTML form at "/" and a small JSON API the form, the
// MCP bridge and the solver all talk to.
//
// Endpoints:
//
// Game:
//   - POST /api/game - Start a game, body {"player_name": "Ada"}
//   - GET /api/game - Current session info
//   - POST /api/game/guess - Submit a guess, body {"guess": "42"} or {"guess": 42}
//   - POST /api/game/difficulty - Switch difficulty, body {"difficulty": "Hard"}
//   - POST /api/game/reset - Start a fresh round under the same difficulty
//   - POST /api/game/play-again - Answer the play-again prompt, body {"again": true}
//
// History and configuration:
//   - GET /api/history - Up to 10 most recent outcomes
//   - GET /api/difficulties - The difficulty table
//
// Other:
//   - GET /ws - WebSocket state updates
//   - GET /health - Health check
//
// Errors:
//
// Failures are returned as {"error": "...", "code": "..."}:
//
//	422 invalid_format, out_of_range   rejected guess input
//	409 round_over                     guess after the round finished
//	409 round_in_progress              play-again before the round finished
//	404 no_active_game                 no game started, or the player left
//	404 unknown_difficulty             difficulty name not in the table
//	429 rate_limited                   mutation rate limit exceeded
//
// The form shows the name and play-again questions with prompt() and
// confirm(); each answer becomes an ordinary request.
package api
