package queue

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// RequestType identifies the type of request in the queue
type RequestType string

const (
	// RequestTypeTurn is one line of player input for a session
	RequestTypeTurn RequestType = "turn"
)

// Request is an asynchronous turn waiting for a worker.
type Request struct {
	RequestID   string      `json:"request_id"`
	Type        RequestType `json:"type"`
	GameStateID uuid.UUID   `json:"game_state_id"`
	Input       string      `json:"input"`
	Attempts    int         `json:"attempts,omitempty"`
	EnqueuedAt  time.Time   `json:"enqueued_at"`
}

// NewTurnRequest builds a turn request with a fresh request id.
func NewTurnRequest(gameStateID uuid.UUID, input string) *Request {
	return &Request{
		RequestID:   uuid.NewString(),
		Type:        RequestTypeTurn,
		GameStateID: gameStateID,
		Input:       input,
		EnqueuedAt:  time.Now().UTC(),
	}
}

// ToJSON converts the request to JSON bytes for Redis
func (r *Request) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON parses a request from JSON bytes
func FromJSON(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	if req.GameStateID == uuid.Nil {
		return nil, errors.New("request has no game_state_id")
	}
	return &req, nil
}
