// Command numberguess runs the Number Guessing Game.
//
// It supports four commands:
//  1. "serve" (default) – runs the HTTP server with the browser form, REST API,
//     WebSocket updates and an /mcp HTTP endpoint
//  2. "play" – plays in the terminal
//  3. "mcp" – runs an MCP stdio server, reusing a running API or starting an internal one
//  4. "history" – prints the most recent outcomes
//
// Flags control host/port, the history file, and logging. Each flag can also
// be set from the environment, optionally through a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/wricardo/mcp-training/numberguess/api"
	"github.com/wricardo/mcp-training/numberguess/game/config"
	"github.com/wricardo/mcp-training/numberguess/game/history"
	"github.com/wricardo/mcp-training/numberguess/game/service"
	"github.com/wricardo/mcp-training/numberguess/game/session"
	"github.com/wricardo/mcp-training/numberguess/transport/mcp"
	"github.com/wricardo/mcp-training/numberguess/transport/terminal"
	"github.com/wricardo/mcp-training/numberguess/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Number Guessing Game"
)

// main loads .env, then runs the selected command.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

// newApp builds the command tree. Root flags are inherited by every command.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "numberguess",
		Usage:   "guess the secret number before the tries run out",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "history-file",
				Value:   history.DefaultFile,
				Usage:   "file finished games are appended to",
				Sources: cli.EnvVars("HISTORY_FILE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "human-readable debug logging",
			},
			&cli.FloatFlag{
				Name:    "rate-limit",
				Value:   10,
				Usage:   "mutating API requests allowed per second (0 disables the limit)",
				Sources: cli.EnvVars("RATE_LIMIT"),
			},
			&cli.IntFlag{
				Name:  "rate-burst",
				Value: 20,
				Usage: "burst size for the rate limit",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, setupLogging(cmd.String("log-level"), cmd.Bool("debug"))
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP server with the browser form, REST API, WebSocket and /mcp endpoint",
				Action: runServe,
			},
			{
				Name:   "play",
				Usage:  "play in the terminal",
				Action: runPlay,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp"},
				Usage:   "run an MCP stdio server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "api-url",
						Usage:   "REST API to proxy (default: http://<host>:<port> if reachable, else an internal server)",
						Sources: cli.EnvVars("API_URL"),
					},
				},
				Action: runStdioMCP,
			},
			{
				Name:   "history",
				Usage:  "print the most recent outcomes",
				Action: runHistory,
			},
		},
	}
}

// setupLogging configures the global zerolog logger
func setupLogging(level string, debug bool) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	if debug {
		lvl = zerolog.DebugLevel
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	zerolog.SetGlobalLevel(lvl)
	return nil
}

// initializeServices wires the session, config and history layers into the game service.
func initializeServices(historyFile string) (service.GameService, error) {
	historyLog, err := history.NewFileLog(historyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create history log: %w", err)
	}

	gameService := service.NewGameService(session.NewManager(), config.NewManager(), historyLog)

	log.Debug().Str("history_file", historyLog.Path()).Msg("services initialized")
	return gameService, nil
}

func writerFor(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func readerFor(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

// runServe starts the HTTP server and stops on a signal or when the player leaves.
func runServe(ctx context.Context, cmd *cli.Command) error {
	gameService, err := initializeServices(cmd.String("history-file"))
	if err != nil {
		return err
	}

	hubCtx, cancelHub := context.WithCancel(ctx)
	defer cancelHub()

	hub := websocket.NewHub()
	go hub.Run(hubCtx)

	var opts []api.Option
	if limit := cmd.Float("rate-limit"); limit > 0 {
		opts = append(opts, api.WithRateLimiter(rate.Limit(limit), int(cmd.Int("rate-burst"))))
	}
	apiServer := api.NewServer(gameService, hub, opts...)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient.GetMCPServer()))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("form", fmt.Sprintf("http://%s/", addr)).
			Str("api", fmt.Sprintf("http://%s/api", addr)).
			Str("mcp", fmt.Sprintf("http://%s/mcp", addr)).
			Msgf("%s v%s listening", AppName, Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal")
	case <-gameService.Done():
		log.Info().Msg("player left, shutting down")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("server stopped")
	return nil
}

// mcpHandler serves MCP JSON-RPC messages over plain HTTP POST
func mcpHandler(mcpServer *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		if response == nil {
			// Notifications have no response
			w.WriteHeader(http.StatusAccepted)
			return
		}

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runPlay plays one game in the terminal
func runPlay(ctx context.Context, cmd *cli.Command) error {
	gameService, err := initializeServices(cmd.String("history-file"))
	if err != nil {
		return err
	}

	shell := terminal.NewShell(gameService, readerFor(cmd), writerFor(cmd))
	if err := shell.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// runHistory prints the history view
func runHistory(ctx context.Context, cmd *cli.Command) error {
	gameService, err := initializeServices(cmd.String("history-file"))
	if err != nil {
		return err
	}

	view, err := gameService.History(ctx)
	if err != nil {
		return err
	}

	out := writerFor(cmd)
	if view.Empty {
		fmt.Fprintln(out, view.Message)
		return nil
	}
	fmt.Fprintf(out, "%s\n\n%s", view.Title, view.Text)
	return nil
}

// runStdioMCP runs an MCP stdio server.
// It reuses an API at --api-url or http://<host>:<port> when one answers /health;
// otherwise it starts an internal HTTP API on a random loopback port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL := cmd.String("api-url")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://%s:%d", cmd.String("host"), int(cmd.Int("port")))
	}

	if !apiReachable(ctx, baseURL) {
		log.Info().Str("url", baseURL).Msg("no API server found, starting internal HTTP server")

		gameService, err := initializeServices(cmd.String("history-file"))
		if err != nil {
			return err
		}

		internalURL, shutdown, err := startInternalServer(ctx, gameService)
		if err != nil {
			return err
		}
		defer shutdown()
		baseURL = internalURL
	}

	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")

	mcpClient := mcp.NewClient(baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

func apiReachable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalServer serves the API on 127.0.0.1 with a random port
func startInternalServer(ctx context.Context, gameService service.GameService) (string, func(), error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hubCtx, cancelHub := context.WithCancel(ctx)
	hub := websocket.NewHub()
	go hub.Run(hubCtx)

	httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("internal HTTP server error")
		}
	}()

	shutdown := func() {
		cancelHub()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}

	return "http://" + listener.Addr().String(), shutdown, nil
}
