package api

import (
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/wricardo/mcp-training/numberguess/game/config"
	"github.com/wricardo/mcp-training/numberguess/game/engine"
	"github.com/wricardo/mcp-training/numberguess/game/service"
	"github.com/wricardo/mcp-training/numberguess/game/session"
	"github.com/wricardo/mcp-training/numberguess/transport/websocket"
)

//go:embed static
var staticFiles embed.FS

// Error codes returned in the "code" field of error responses
const (
	CodeInvalidFormat     = "invalid_format"
	CodeOutOfRange        = "out_of_range"
	CodeRoundOver         = "round_over"
	CodeRoundInProgress   = "round_in_progress"
	CodeNoActiveGame      = "no_active_game"
	CodeUnknownDifficulty = "unknown_difficulty"
	CodeBadRequest        = "bad_request"
	CodeRateLimited       = "rate_limited"
	CodeInternal          = "internal"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	limiter *rate.Limiter
}

// Option configures a Server
type Option func(*Server)

// WithRateLimiter limits mutating requests to r per second with the given burst
func WithRateLimiter(r rate.Limit, burst int) Option {
	return func(s *Server) {
		s.limiter = rate.NewLimiter(r, burst)
	}
}

// NewServer creates a new API server. hub may be nil.
func NewServer(gameService service.GameService, hub *websocket.Hub, opts ...Option) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(requestLogger)
	api.Use(s.rateLimit)

	// Game lifecycle
	api.HandleFunc("/game", s.handleStartGame).Methods("POST")
	api.HandleFunc("/game", s.handleGetGame).Methods("GET")
	api.HandleFunc("/game/play-again", s.handlePlayAgain).Methods("POST")

	// Round operations
	api.HandleFunc("/game/guess", s.handleGuess).Methods("POST")
	api.HandleFunc("/game/difficulty", s.handleChangeDifficulty).Methods("POST")
	api.HandleFunc("/game/reset", s.handleReset).Methods("POST")

	// History and configuration
	api.HandleFunc("/history", s.handleHistory).Methods("GET")
	api.HandleFunc("/difficulties", s.handleListDifficulties).Methods("GET")

	// WebSocket
	if s.hub != nil {
		s.router.HandleFunc("/ws", s.hub.ServeWS)
	}

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Embedded form
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("embedded static files missing")
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(static)))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]string{"error": message, "code": code})
}

// respondServiceError maps service errors onto HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	var inputErr *service.InputError
	switch {
	case errors.As(err, &inputErr):
		code := CodeInvalidFormat
		if errors.Is(err, service.ErrGuessOutOfRange) {
			code = CodeOutOfRange
		}
		respondError(w, http.StatusUnprocessableEntity, code, inputErr.Message)
	case errors.Is(err, engine.ErrRoundOver):
		respondError(w, http.StatusConflict, CodeRoundOver, err.Error())
	case errors.Is(err, service.ErrNoReplayPending):
		respondError(w, http.StatusConflict, CodeRoundInProgress, err.Error())
	case errors.Is(err, session.ErrNoActiveSession):
		respondError(w, http.StatusNotFound, CodeNoActiveGame, err.Error())
	case errors.Is(err, config.ErrDifficultyNotFound):
		respondError(w, http.StatusNotFound, CodeUnknownDifficulty, err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, CodeInternal, err.Error())
	}
}

// decodeBody reads an optional JSON body; an empty body leaves v untouched
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Server) broadcastState(info *service.SessionInfo) {
	if s.hub != nil && info != nil {
		s.hub.Broadcast(websocket.EventStateUpdate, info)
	}
}

// Game Handlers

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerName string `json:"player_name"`
	}

	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.StartGame(r.Context(), req.PlayerName)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastState(info)
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetSession(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	// The guess is accepted as a JSON string (raw entry text) or a number
	var req struct {
		Guess json.RawMessage `json:"guess"`
	}

	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body")
		return
	}

	outcome, err := s.service.Guess(r.Context(), guessText(req.Guess))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastState(outcome.Session)
	if outcome.Status.IsTerminal() && s.hub != nil {
		s.hub.Broadcast(websocket.EventGameOver, outcome)
	}

	log.Debug().
		Int("guess", outcome.Guess).
		Str("result", string(outcome.Result)).
		Str("status", string(outcome.Status)).
		Msg("guess handled")

	respondJSON(w, http.StatusOK, outcome)
}

func guessText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return string(raw)
}

func (s *Server) handleChangeDifficulty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Difficulty string `json:"difficulty"`
	}

	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body")
		return
	}

	if req.Difficulty == "" {
		respondError(w, http.StatusBadRequest, CodeBadRequest, "difficulty is required")
		return
	}

	info, err := s.service.ChangeDifficulty(r.Context(), req.Difficulty)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastState(info)
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.Reset(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastState(info)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Game reset successfully",
		"state":   info,
	})
}

func (s *Server) handlePlayAgain(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Again *bool `json:"again"`
	}

	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body")
		return
	}

	if req.Again == nil {
		respondError(w, http.StatusBadRequest, CodeBadRequest, "again is required")
		return
	}

	result, err := s.service.PlayAgain(r.Context(), *req.Again)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if result.Exit {
		if s.hub != nil {
			s.hub.Broadcast(websocket.EventGoodbye, result)
		}
	} else {
		s.broadcastState(result.Session)
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.History(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleListDifficulties(w http.ResponseWriter, r *http.Request) {
	difficulties, err := s.service.ListDifficulties(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"difficulties": difficulties,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Middleware

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// rateLimit rejects mutating requests beyond the configured rate
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && r.Method != http.MethodGet && !s.limiter.Allow() {
			log.Warn().Str("path", r.URL.Path).Msg("rate limit exceeded")
			respondError(w, http.StatusTooManyRequests, CodeRateLimited, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
