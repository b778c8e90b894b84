package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Session operations (Redis-backed)

func (r *RedisStorage) SaveSession(ctx context.Context, id uuid.UUID, blob []byte) error {
	if err := r.client.Set(ctx, sessionKeyPrefix+id.String(), blob, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save session", "game_state_id", id, "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadSession(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return r.get(ctx, sessionKeyPrefix, id)
}

// DeleteSession removes the session together with its save slot.
func (r *RedisStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+id.String(), saveKeyPrefix+id.String()).Err(); err != nil {
		r.logger.Error("Failed to delete session", "game_state_id", id, "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Save slot operations

func (r *RedisStorage) PutSave(ctx context.Context, id uuid.UUID, blob []byte) error {
	if err := r.client.Set(ctx, saveKeyPrefix+id.String(), blob, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to write save slot", "game_state_id", id, "error", err)
		return fmt.Errorf("failed to write save slot: %w", err)
	}
	return nil
}

func (r *RedisStorage) GetSave(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return r.get(ctx, saveKeyPrefix, id)
}

func (r *RedisStorage) get(ctx context.Context, prefix string, id uuid.UUID) ([]byte, error) {
	data, err := r.client.Get(ctx, prefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Key not found", "key", prefix+id.String())
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to read key", "key", prefix+id.String(), "error", err)
		return nil, fmt.Errorf("failed to load %s%s: %w", prefix, id, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}
