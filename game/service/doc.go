// Package service provides the presentation-facing business layer for the
// Number Guessing Game.
//
// The service package implements:
//   - Player identity resolution
//   - Guess input validation and user-facing feedback
//   - Terminal round handling (outcome logging, play-again prompt)
//   - Difficulty switching and round resets
//   - History retrieval and rendering
//
// Core Interfaces:
//
// GameService is the main service interface used by every transport (HTTP
// form, terminal, MCP). SessionManager holds the single active game.
// ConfigManager resolves difficulties. HistoryLog persists outcome records.
// Prompter models the two modal questions a shell asks the player.
//
// Architecture:
//
// The service sits between the transports and the game engine. The engine
// holds only round rules; everything a player sees or types goes through this
// layer. All operations are serialised, so there is one active round and one
// logical caller even when the HTTP server dispatches concurrently.
//
// Usage:
//
//	sessions := session.NewManager()
//	configs := config.NewManager()
//	log, _ := history.NewFileLog("history.txt")
//	gameService := service.NewGameService(sessions, configs, log)
//
//	info, err := gameService.StartGame(ctx, "Ada")
//	outcome, err := gameService.Guess(ctx, "50")
package service
