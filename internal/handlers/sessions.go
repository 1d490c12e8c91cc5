package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/ashborne/pkg/game"
	"github.com/jwebster45206/ashborne/pkg/state"
	"github.com/jwebster45206/ashborne/pkg/storage"
	"github.com/jwebster45206/ashborne/pkg/world"
)

const sessionsPath = "/v1/sessions"

// StartRequest is the body of POST /v1/sessions.
type StartRequest struct {
	PlayerName string `json:"player_name,omitempty"`
}

// ActionRequest is the body of POST /v1/sessions/{id}/actions.
type ActionRequest struct {
	Action string `json:"action"`
}

// NarrationResponse carries the text returned by every game operation.
type NarrationResponse struct {
	SessionID string `json:"session_id"`
	Narration string `json:"narration"`
}

// SessionHandler exposes the five game operations over HTTP.
type SessionHandler struct {
	world     *world.World
	storage   storage.Storage
	logger    *slog.Logger
	maxHealth int
	seed      int64
	locks     *sessionLocks
}

// NewSessionHandler serves sessions of w persisted in store.
// A non-zero seed gives every request the same combat rolls; use it for testing only.
func NewSessionHandler(logger *slog.Logger, w *world.World, store storage.Storage, maxHealth int, seed int64) *SessionHandler {
	return &SessionHandler{
		world:     w,
		storage:   store,
		logger:    logger,
		maxHealth: maxHealth,
		seed:      seed,
		locks:     newSessionLocks(),
	}
}

// ServeHTTP handles HTTP requests for sessions
// Routes:
// POST   /v1/sessions              - start_adventure
// GET    /v1/sessions/{id}/scene   - get_scene
// POST   /v1/sessions/{id}/actions - player_action
// GET    /v1/sessions/{id}/journal - show_journal
// POST   /v1/sessions/{id}/restart - restart_adventure
// DELETE /v1/sessions/{id}         - end the session
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, sessionsPath), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			h.logger.Warn("Method not allowed for sessions endpoint", "method", r.Method)
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported at /v1/sessions.")
			return
		}
		h.handleStart(w, r)
		return
	}

	idStr, op, _ := strings.Cut(path, "/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", idStr, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	var method string
	var fn func(http.ResponseWriter, *http.Request, *game.Game)
	switch op {
	case "scene":
		method = http.MethodGet
		fn = h.handleScene
	case "journal":
		method = http.MethodGet
		fn = h.handleJournal
	case "actions":
		method = http.MethodPost
		fn = h.handleAction
	case "restart":
		method = http.MethodPost
		fn = h.handleRestart
	case "":
		method = http.MethodDelete
	default:
		writeError(w, h.logger, http.StatusNotFound, "Unknown session operation")
		return
	}
	if r.Method != method {
		h.logger.Warn("Method not allowed for session operation", "method", r.Method, "op", op)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Use "+method+".")
		return
	}

	unlock := h.locks.lock(id)
	defer unlock()

	if fn == nil {
		h.handleDelete(w, r, id)
		return
	}

	g, ok := h.load(r.Context(), w, id)
	if !ok {
		return
	}
	fn(w, r, g)
}

func (h *SessionHandler) options() []game.Option {
	opts := []game.Option{
		game.WithLogger(h.logger),
		game.WithMaxHealth(h.maxHealth),
	}
	if h.seed != 0 {
		opts = append(opts, game.WithRand(rand.New(rand.NewSource(h.seed))))
	}
	return opts
}

func (h *SessionHandler) load(ctx context.Context, w http.ResponseWriter, id uuid.UUID) (*game.Game, bool) {
	s, err := h.storage.LoadSession(ctx, id)
	if err != nil {
		h.logger.Error("Failed to load session", "session_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return nil, false
	}
	if s == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return nil, false
	}
	g, err := game.Resume(h.world, s, h.options()...)
	if err != nil {
		h.logger.Error("Failed to resume session", "session_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to resume session")
		return nil, false
	}
	return g, true
}

func (h *SessionHandler) save(ctx context.Context, w http.ResponseWriter, s *state.Session) bool {
	if err := h.storage.SaveSession(ctx, s); err != nil {
		h.logger.Error("Failed to save session", "session_id", s.ID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session")
		return false
	}
	return true
}

func (h *SessionHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Invalid start request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with optional 'player_name' field.")
		return
	}

	g, err := game.New(h.world, h.options()...)
	if err != nil {
		h.logger.Error("Failed to create game", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session")
		return
	}
	text := g.StartAdventure(strings.TrimSpace(req.PlayerName))
	s := g.Session()
	if !h.save(r.Context(), w, s) {
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, NarrationResponse{SessionID: s.ID.String(), Narration: text})
}

func (h *SessionHandler) handleScene(w http.ResponseWriter, r *http.Request, g *game.Game) {
	writeJSON(w, h.logger, http.StatusOK, NarrationResponse{
		SessionID: g.Session().ID.String(),
		Narration: g.GetScene(),
	})
}

func (h *SessionHandler) handleJournal(w http.ResponseWriter, r *http.Request, g *game.Game) {
	writeJSON(w, h.logger, http.StatusOK, NarrationResponse{
		SessionID: g.Session().ID.String(),
		Narration: g.ShowJournal(),
	})
}

func (h *SessionHandler) handleAction(w http.ResponseWriter, r *http.Request, g *game.Game) {
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid action request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'action' field.")
		return
	}

	text := g.PlayerAction(req.Action)
	s := g.Session()
	if !h.save(r.Context(), w, s) {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, NarrationResponse{SessionID: s.ID.String(), Narration: text})
}

// handleRestart re-keys the session: the old ID stops resolving.
func (h *SessionHandler) handleRestart(w http.ResponseWriter, r *http.Request, g *game.Game) {
	oldID := g.Session().ID
	text := g.RestartAdventure()
	s := g.Session()
	if !h.save(r.Context(), w, s) {
		return
	}
	if err := h.storage.DeleteSession(r.Context(), oldID); err != nil {
		h.logger.Warn("Failed to delete restarted session", "session_id", oldID, "error", err)
	}
	writeJSON(w, h.logger, http.StatusOK, NarrationResponse{SessionID: s.ID.String(), Narration: text})
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.DeleteSession(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete session", "session_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
