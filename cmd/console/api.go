package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/internal/handlers"
	"github.com/jwebster45206/adventure-engine/internal/session"
)

// apiClient talks to the adventure engine API.
type apiClient struct {
	http    *http.Client
	baseURL string
}

func (c *apiClient) testConnection() bool {
	resp, err := c.http.Get(c.baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func (c *apiClient) listStories() ([]handlers.StoryInfo, error) {
	var stories []handlers.StoryInfo
	err := c.do(http.MethodGet, "/v1/stories", nil, http.StatusOK, &stories)
	return stories, err
}

func (c *apiClient) createGame(story string) (*handlers.TurnResponse, error) {
	var resp handlers.TurnResponse
	if err := c.do(http.MethodPost, "/v1/gamestate", handlers.CreateGameStateRequest{Story: story}, http.StatusCreated, &resp); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return &resp, nil
}

func (c *apiClient) getGame(id uuid.UUID) (*session.GameSummary, error) {
	var sum session.GameSummary
	if err := c.do(http.MethodGet, "/v1/gamestate/"+id.String(), nil, http.StatusOK, &sum); err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}
	return &sum, nil
}

func (c *apiClient) playTurn(id uuid.UUID, input string) (*handlers.TurnResponse, error) {
	var resp handlers.TurnResponse
	if err := c.do(http.MethodPost, "/v1/turn", handlers.TurnRequest{GameStateID: id, Input: input}, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) saveGame(id uuid.UUID) ([]byte, error) {
	var resp handlers.SaveResponse
	if err := c.do(http.MethodGet, "/v1/gamestate/"+id.String()+"/save", nil, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}
	return resp.Blob, nil
}

func (c *apiClient) restoreGame(id uuid.UUID, blob []byte) (*handlers.TurnResponse, error) {
	var resp handlers.TurnResponse
	if err := c.do(http.MethodPost, "/v1/gamestate/"+id.String()+"/restore", handlers.RestoreRequest{Blob: blob}, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("failed to restore game: %w", err)
	}
	return &resp, nil
}

// do sends body as JSON and decodes a response with the wanted status into out.
func (c *apiClient) do(method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != want {
		var errorResp handlers.ErrorResponse
		if err := json.Unmarshal(data, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(data))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
