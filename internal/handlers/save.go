package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// SaveResponse carries a serialized game. Blob is base64 on the wire.
type SaveResponse struct {
	GameStateID uuid.UUID `json:"game_state_id"`
	Blob        []byte    `json:"blob"`
}

type RestoreRequest struct {
	Blob []byte `json:"blob"`
}

func (h *GameStateHandler) handleSave(w http.ResponseWriter, r *http.Request, gameStateID uuid.UUID) {
	blob, err := h.sessions.Save(r.Context(), gameStateID)
	if err != nil {
		h.writeSessionError(w, gameStateID, err, "Failed to save game state")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, SaveResponse{GameStateID: gameStateID, Blob: blob})
}

// handleRestore replaces a game with an exported blob. The id need not exist
// yet. A blob the engine cannot use still succeeds, with a fresh game and a
// narration saying the restore failed.
func (h *GameStateHandler) handleRestore(w http.ResponseWriter, r *http.Request, gameStateID uuid.UUID) {
	var req RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid restore request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with base64 'blob' field.")
		return
	}
	if len(req.Blob) == 0 {
		writeError(w, h.logger, http.StatusBadRequest, "blob field is required")
		return
	}

	res, err := h.sessions.Restore(r.Context(), gameStateID, req.Blob)
	if err != nil {
		h.writeSessionError(w, gameStateID, err, "Failed to restore game state")
		return
	}
	h.logger.Info("Game state restored", "id", gameStateID.String(), "location", res.Location)
	writeJSON(w, h.logger, http.StatusOK, newTurnResponse(gameStateID, res))
}
