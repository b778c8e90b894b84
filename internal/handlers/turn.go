package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/internal/services/events"
	"github.com/jwebster45206/adventure-engine/internal/services/queue"
	"github.com/jwebster45206/adventure-engine/internal/session"
	queuePkg "github.com/jwebster45206/adventure-engine/pkg/queue"
)

type TurnRequest struct {
	GameStateID uuid.UUID `json:"game_state_id"`
	Input       string    `json:"input"`
}

type AsyncTurnResponse struct {
	RequestID   string    `json:"request_id"`
	GameStateID uuid.UUID `json:"game_state_id"`
}

// TurnHandler plays turns. Synchronous turns run in the request; async turns
// are queued for a worker and reported over the game's event stream.
type TurnHandler struct {
	sessions    *session.Service
	queue       *queue.TurnQueue
	broadcaster *events.Broadcaster
	logger      *slog.Logger
}

func NewTurnHandler(sessions *session.Service, logger *slog.Logger) *TurnHandler {
	return &TurnHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// WithQueue enables POST /v1/turn/async.
func (h *TurnHandler) WithQueue(q *queue.TurnQueue, b *events.Broadcaster) *TurnHandler {
	h.queue = q
	h.broadcaster = b
	return h
}

// ServeHTTP routes:
// POST /v1/turn         - Play a turn and return its result
// POST /v1/turn/async   - Queue a turn; 202 with the request id
func (h *TurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for turn endpoint",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var async bool
	switch strings.TrimSuffix(r.URL.Path, "/") {
	case "/v1/turn":
	case "/v1/turn/async":
		async = true
	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found")
		return
	}

	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'game_state_id' and 'input' fields.")
		return
	}
	if req.GameStateID == uuid.Nil {
		writeError(w, h.logger, http.StatusBadRequest, "game_state_id is required")
		return
	}

	if async {
		h.handleAsync(w, r, req)
		return
	}

	res, err := h.sessions.Submit(r.Context(), req.GameStateID, req.Input)
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, h.logger, http.StatusNotFound, "Game state not found")
		return
	case errors.Is(err, session.ErrBusy):
		h.logger.Info("Turn rejected, game is busy", "game_state_id", req.GameStateID)
		writeError(w, h.logger, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.logger.Error("Failed to play turn", "game_state_id", req.GameStateID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to play turn. Please try again.")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, newTurnResponse(req.GameStateID, res))
}

func (h *TurnHandler) handleAsync(w http.ResponseWriter, r *http.Request, req TurnRequest) {
	if h.queue == nil {
		writeError(w, h.logger, http.StatusServiceUnavailable, "Async turns are not enabled on this server.")
		return
	}
	if _, err := h.sessions.Summary(r.Context(), req.GameStateID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Game state not found")
			return
		}
		h.logger.Error("Failed to load game before queueing", "game_state_id", req.GameStateID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to queue turn")
		return
	}

	qr := queuePkg.NewTurnRequest(req.GameStateID, req.Input)
	if err := h.queue.EnqueueRequest(r.Context(), qr); err != nil {
		h.logger.Error("Failed to enqueue turn", "game_state_id", req.GameStateID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to queue turn")
		return
	}
	if h.broadcaster != nil {
		if err := h.broadcaster.PublishRequestQueued(r.Context(), req.GameStateID, qr.RequestID); err != nil {
			h.logger.Error("Failed to publish queued event", "error", err)
		}
	}

	h.logger.Debug("Turn queued", "request_id", qr.RequestID, "game_state_id", req.GameStateID)
	writeJSON(w, h.logger, http.StatusAccepted, AsyncTurnResponse{RequestID: qr.RequestID, GameStateID: req.GameStateID})
}
