package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/internal/session"
	"github.com/jwebster45206/adventure-engine/pkg/engine"
	"github.com/jwebster45206/adventure-engine/pkg/story"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// TurnResponse is the result of creating, playing, or restoring a game.
type TurnResponse struct {
	GameStateID uuid.UUID `json:"game_state_id"`
	Narration   string    `json:"narration"`
	Location    string    `json:"location"`
	Moves       int       `json:"moves"`
	Score       int       `json:"score"`
	Deaths      int       `json:"deaths"`
	Ended       bool      `json:"ended,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
}

func newTurnResponse(id uuid.UUID, res engine.TurnResult) TurnResponse {
	return TurnResponse{
		GameStateID: id,
		Narration:   res.Narration,
		Location:    res.Location,
		Moves:       res.Moves,
		Score:       res.Score,
		Deaths:      res.Deaths,
		Ended:       res.Ended,
		Warnings:    res.Warnings,
	}
}

// CreateGameStateRequest defines the request body for creating a new game.
// An empty body starts the default story.
type CreateGameStateRequest struct {
	Story string `json:"story,omitempty"`
}

type GameStateHandler struct {
	sessions *session.Service
	logger   *slog.Logger
}

func NewGameStateHandler(sessions *session.Service, logger *slog.Logger) *GameStateHandler {
	return &GameStateHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// ServeHTTP handles HTTP requests for game state operations
// Routes:
// POST /v1/gamestate                - Create a new game
// GET /v1/gamestate/{id}            - Read a game summary
// DELETE /v1/gamestate/{id}         - Delete a game
// GET /v1/gamestate/{id}/save       - Export the game as a blob
// POST /v1/gamestate/{id}/restore   - Replace the game with a blob
func (h *GameStateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/gamestate"), "/")
	if rest == "" {
		if r.Method != http.MethodPost {
			h.logger.Warn("Method not allowed for game state endpoint", "method", r.Method)
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.Split(rest, "/")
	gameStateID, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid game state ID", "id", parts[0], "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid game state ID format")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleRead(w, r, gameStateID)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.handleDelete(w, r, gameStateID)
	case len(parts) == 1:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, DELETE")
	case len(parts) == 2 && parts[1] == "save" && r.Method == http.MethodGet:
		h.handleSave(w, r, gameStateID)
	case len(parts) == 2 && parts[1] == "restore" && r.Method == http.MethodPost:
		h.handleRestore(w, r, gameStateID)
	case len(parts) == 2 && (parts[1] == "save" || parts[1] == "restore"):
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed.")
	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	}
}

// normalizeID lowercases a story name and turns spaces, hyphens, and
// underscores into single underscores.
func normalizeID(s string) string {
	var out strings.Builder
	prevUnderscore := false
	for i, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r == ' ' || r == '-' || r == '_':
			if !prevUnderscore && i > 0 {
				out.WriteRune('_')
				prevUnderscore = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			out.WriteRune(r)
			prevUnderscore = false
		}
	}
	return out.String()
}

func (h *GameStateHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateGameStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	req.Story = normalizeID(req.Story)

	id, res, err := h.sessions.Start(r.Context(), req.Story)
	if errors.Is(err, story.ErrUnknownStory) {
		h.logger.Warn("Unknown story requested", "story", req.Story)
		writeError(w, h.logger, http.StatusBadRequest, "Unknown story: "+req.Story)
		return
	}
	if err != nil {
		h.logger.Error("Failed to create game", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create game state")
		return
	}

	h.logger.Debug("Game state created successfully", "id", id.String())
	writeJSON(w, h.logger, http.StatusCreated, newTurnResponse(id, res))
}

func (h *GameStateHandler) handleRead(w http.ResponseWriter, r *http.Request, gameStateID uuid.UUID) {
	sum, err := h.sessions.Summary(r.Context(), gameStateID)
	if err != nil {
		h.writeSessionError(w, gameStateID, err, "Failed to load game state")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, sum)
}

func (h *GameStateHandler) handleDelete(w http.ResponseWriter, r *http.Request, gameStateID uuid.UUID) {
	if err := h.sessions.Delete(r.Context(), gameStateID); err != nil {
		h.writeSessionError(w, gameStateID, err, "Failed to delete game state")
		return
	}
	h.logger.Debug("Game state deleted successfully", "id", gameStateID.String())
	w.WriteHeader(http.StatusNoContent)
}

// writeSessionError maps session errors onto status codes.
func (h *GameStateHandler) writeSessionError(w http.ResponseWriter, id uuid.UUID, err error, msg string) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		h.logger.Warn("Game state not found", "id", id.String())
		writeError(w, h.logger, http.StatusNotFound, "Game state not found")
	case errors.Is(err, session.ErrBusy):
		writeError(w, h.logger, http.StatusConflict, err.Error())
	default:
		h.logger.Error(msg, "error", err, "id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, msg)
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}
