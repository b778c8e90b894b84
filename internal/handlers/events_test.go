package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/internal/services/events"
	"github.com/jwebster45206/adventure-engine/pkg/engine"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventsHandler_BadRequests(t *testing.T) {
	handler := NewEventsHandler(nil, testLogger())

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"wrong method", http.MethodPost, "/v1/events/gamestate/" + uuid.NewString(), http.StatusMethodNotAllowed},
		{"wrong path", http.MethodGet, "/v1/events/games/" + uuid.NewString(), http.StatusBadRequest},
		{"missing id", http.MethodGet, "/v1/events/gamestate", http.StatusBadRequest},
		{"invalid id", http.MethodGet, "/v1/events/gamestate/nope", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestEventsHandler_Stream(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	b := events.NewBroadcaster(rdb, testLogger())

	server := httptest.NewServer(NewEventsHandler(b, testLogger()))
	defer server.Close()

	gameID := uuid.New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/v1/events/gamestate/"+gameID.String(), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var name, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && name != "":
				return name, data
			}
		}
	}

	name, data := readEvent()
	assert.Equal(t, "connected", name)
	assert.Contains(t, data, gameID.String())

	// The handler subscribes before sending "connected".
	require.NoError(t, b.PublishTurnCompleted(ctx, gameID, "req-1", "look", engine.TurnResult{
		Narration: "West of House",
		Location:  "West of House",
	}))

	name, data = readEvent()
	assert.Equal(t, string(events.EventTypeTurnCompleted), name)
	assert.Contains(t, data, `"request_id":"req-1"`)
	assert.Contains(t, data, `"narration":"West of House"`)
}
