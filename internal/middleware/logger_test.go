package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	h := LoggerWith(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/turn", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
	out := buf.String()
	assert.True(t, strings.Contains(out, "status=418"), out)
	assert.True(t, strings.Contains(out, "request_id=abc"), out)
	assert.True(t, strings.Contains(out, "path=/v1/turn"), out)
}

func TestLoggerWith_GeneratesRequestID(t *testing.T) {
	h := LoggerWith(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestStatusWriter_Flushes(t *testing.T) {
	w := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: w}
	var _ http.Flusher = sw
	sw.Flush()
	assert.True(t, w.Flushed)
}
