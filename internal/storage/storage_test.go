package storage

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/pkg/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStorageWithClient(client, time.Hour, quietLogger()), mr
}

func setupSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "adventure.db"), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// exerciseStorage runs the behaviour every backend must share.
func exerciseStorage(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, s.Ping(ctx))

	blob, err := s.LoadSession(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, blob, "missing session is nil, nil")

	require.NoError(t, s.SaveSession(ctx, id, []byte(`{"v":1}`)))
	require.NoError(t, s.SaveSession(ctx, id, []byte(`{"v":2}`)))
	blob, err = s.LoadSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(blob))

	slot, err := s.GetSave(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, slot)

	require.NoError(t, s.PutSave(ctx, id, []byte("slot")))
	slot, err = s.GetSave(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "slot", string(slot))

	other := uuid.New()
	blob, err = s.LoadSession(ctx, other)
	require.NoError(t, err)
	assert.Nil(t, blob, "sessions are keyed by id")

	require.NoError(t, s.DeleteSession(ctx, id))
	blob, err = s.LoadSession(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, blob)
	slot, err = s.GetSave(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, slot)
}

func TestRedisStorage(t *testing.T) {
	s, _ := setupRedis(t)
	exerciseStorage(t, s)
}

func TestSQLiteStorage(t *testing.T) {
	exerciseStorage(t, setupSQLite(t))
}

func TestSQLiteStorage_Memory(t *testing.T) {
	s, err := OpenSQLite(":memory:", quietLogger())
	require.NoError(t, err)
	defer s.Close()
	exerciseStorage(t, s)
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adventure.db")
	id := uuid.New()

	s, err := OpenSQLite(path, quietLogger())
	require.NoError(t, err)
	require.NoError(t, s.SaveSession(context.Background(), id, []byte("kept")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path, quietLogger())
	require.NoError(t, err)
	defer s.Close()
	blob, err := s.LoadSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "kept", string(blob))
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite("  ", quietLogger())
	assert.Error(t, err)
}

func TestRedisStorage_TTL(t *testing.T) {
	s, mr := setupRedis(t)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, s.SaveSession(ctx, id, []byte("x")))
	require.NoError(t, s.PutSave(ctx, id, []byte("y")))
	assert.Equal(t, time.Hour, mr.TTL(sessionKeyPrefix+id.String()))
	assert.Equal(t, time.Hour, mr.TTL(saveKeyPrefix+id.String()))

	mr.FastForward(2 * time.Hour)
	blob, err := s.LoadSession(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestRedisStorage_Unavailable(t *testing.T) {
	s, mr := setupRedis(t)
	mr.Close()

	ctx := context.Background()
	assert.Error(t, s.Ping(ctx))
	assert.Error(t, s.SaveSession(ctx, uuid.New(), []byte("x")))
	_, err := s.LoadSession(ctx, uuid.New())
	assert.Error(t, err)
}

func TestNewRedisStorage_BadURL(t *testing.T) {
	_, err := NewRedisStorage("not a url", time.Hour, quietLogger())
	assert.Error(t, err)
}
