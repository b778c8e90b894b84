package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoriesHandler(t *testing.T) {
	handler := NewStoriesHandler(testLogger())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/stories", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var stories []StoryInfo
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&stories))
	require.Len(t, stories, 1)
	assert.Equal(t, "zork", stories[0].Name)
	assert.Equal(t, "ZORK I: The Great Underground Empire", stories[0].Title)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/stories", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
