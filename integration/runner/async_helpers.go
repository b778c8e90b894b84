package runner

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/internal/handlers"
	"github.com/jwebster45206/adventure-engine/internal/services/events"
	"github.com/jwebster45206/adventure-engine/internal/session"
	"github.com/jwebster45206/adventure-engine/pkg/engine"
)

const (
	// TurnTimeout is max time to wait for a queued turn to complete
	TurnTimeout = 30 * time.Second
)

// PostTurnAsync queues a turn and returns its request_id
func PostTurnAsync(ctx context.Context, client *http.Client, baseURL string, gameStateID uuid.UUID, input string) (string, error) {
	var resp handlers.AsyncTurnResponse
	if err := postJSON(ctx, client, baseURL+"/v1/turn/async", handlers.TurnRequest{GameStateID: gameStateID, Input: input}, http.StatusAccepted, &resp); err != nil {
		return "", fmt.Errorf("async turn: %w", err)
	}
	return resp.RequestID, nil
}

// PostTurn plays a turn synchronously
func PostTurn(ctx context.Context, client *http.Client, baseURL string, gameStateID uuid.UUID, input string) (*handlers.TurnResponse, error) {
	var resp handlers.TurnResponse
	if err := postJSON(ctx, client, baseURL+"/v1/turn", handlers.TurnRequest{GameStateID: gameStateID, Input: input}, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("turn: %w", err)
	}
	return &resp, nil
}

// GetGameState retrieves the current game summary
func GetGameState(ctx context.Context, client *http.Client, baseURL string, gameStateID uuid.UUID) (*session.GameSummary, error) {
	url := fmt.Sprintf("%s/v1/gamestate/%s", baseURL, gameStateID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gamestate request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send gamestate request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gamestate endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var sum session.GameSummary
	if err := json.NewDecoder(resp.Body).Decode(&sum); err != nil {
		return nil, fmt.Errorf("failed to decode gamestate: %w", err)
	}
	return &sum, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, body any, want int, out any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != want {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned %d (expected %d): %s", url, resp.StatusCode, want, string(data))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// EventStream reads Server-Sent Events for one game.
type EventStream struct {
	resp   *http.Response
	reader *bufio.Reader
	cancel context.CancelFunc
}

// OpenEventStream connects to the game's event stream and waits for the
// "connected" event, after which no published event is missed.
func OpenEventStream(ctx context.Context, baseURL string, gameStateID uuid.UUID) (*EventStream, error) {
	ctx, cancel := context.WithTimeout(ctx, TurnTimeout)
	url := fmt.Sprintf("%s/v1/events/gamestate/%s", baseURL, gameStateID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create events request: %w", err)
	}

	// No client timeout: the stream stays open until the context ends.
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open event stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("events endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	s := &EventStream{resp: resp, reader: bufio.NewReader(resp.Body), cancel: cancel}
	name, _, err := s.Next()
	if err != nil {
		s.Close()
		return nil, err
	}
	if name != "connected" {
		s.Close()
		return nil, fmt.Errorf("expected connected event, got %q", name)
	}
	return s, nil
}

// Next returns the name and data of the next event, skipping keepalive comments.
func (s *EventStream) Next() (string, []byte, error) {
	var name string
	var data []byte
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return "", nil, fmt.Errorf("event stream closed: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		switch {
		case line == "":
			if name != "" || data != nil {
				return name, data, nil
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = append(data, strings.TrimPrefix(line, "data: ")...)
		}
	}
}

// WaitForTurn blocks until the request completes or fails.
func (s *EventStream) WaitForTurn(requestID string) (*engine.TurnResult, error) {
	for {
		name, data, err := s.Next()
		if err != nil {
			return nil, fmt.Errorf("timeout waiting for turn %s: %w", requestID, err)
		}
		var ev events.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("failed to decode %s event: %w", name, err)
		}
		if ev.RequestID != requestID {
			continue
		}
		switch ev.Type {
		case events.EventTypeTurnCompleted:
			if ev.Result == nil {
				return nil, fmt.Errorf("turn %s completed without a result", requestID)
			}
			return ev.Result, nil
		case events.EventTypeRequestFailed:
			return nil, fmt.Errorf("turn %s failed: %s", requestID, ev.Error)
		}
	}
}

// Close ends the stream.
func (s *EventStream) Close() {
	s.cancel()
	_ = s.resp.Body.Close()
}
