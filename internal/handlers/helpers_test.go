package handlers

import (
	"log/slog"
	"os"
	"testing"

	"github.com/jwebster45206/adventure-engine/internal/session"
	"github.com/jwebster45206/adventure-engine/pkg/engine"
	"github.com/jwebster45206/adventure-engine/pkg/storage"
	"github.com/jwebster45206/adventure-engine/pkg/story"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func newTestSessions(t *testing.T) (*session.Service, *storage.MockStorage, *session.MemoryLocker) {
	t.Helper()
	store := storage.NewMockStorage()
	locker := session.NewMemoryLocker()
	build := func(name string) (*engine.Engine, error) {
		def, err := story.Load(name)
		if err != nil {
			return nil, err
		}
		return engine.New(def, engine.WithLogger(testLogger()), engine.WithSaveSlots(store)), nil
	}
	return session.NewService(build, "zork", store, locker, testLogger()), store, locker
}
