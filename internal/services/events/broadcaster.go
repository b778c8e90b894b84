package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/pkg/engine"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeRequestQueued     EventType = "request.queued"
	EventTypeRequestProcessing EventType = "request.processing"
	EventTypeTurnCompleted     EventType = "turn.completed"
	EventTypeRequestFailed     EventType = "request.failed"
)

// Event is the payload published on a game's channel.
type Event struct {
	Type      EventType          `json:"type"`
	RequestID string             `json:"request_id,omitempty"`
	GameID    string             `json:"game_id"`
	Input     string             `json:"input,omitempty"`
	Result    *engine.TurnResult `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// Channel is the pub/sub channel for one game.
func Channel(gameID uuid.UUID) string {
	return "game-events:" + gameID.String()
}

// Broadcaster publishes events to Redis Pub/Sub for SSE distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// PublishRequestQueued publishes a request.queued event
func (b *Broadcaster) PublishRequestQueued(ctx context.Context, gameID uuid.UUID, requestID string) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:      EventTypeRequestQueued,
		RequestID: requestID,
		GameID:    gameID.String(),
	})
}

// PublishRequestProcessing publishes a request.processing event
func (b *Broadcaster) PublishRequestProcessing(ctx context.Context, gameID uuid.UUID, requestID string, input string) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:      EventTypeRequestProcessing,
		RequestID: requestID,
		GameID:    gameID.String(),
		Input:     input,
	})
}

// PublishTurnCompleted publishes the outcome of an asynchronous turn.
func (b *Broadcaster) PublishTurnCompleted(ctx context.Context, gameID uuid.UUID, requestID string, input string, result engine.TurnResult) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:      EventTypeTurnCompleted,
		RequestID: requestID,
		GameID:    gameID.String(),
		Input:     input,
		Result:    &result,
	})
}

// PublishRequestFailed publishes a request.failed event
func (b *Broadcaster) PublishRequestFailed(ctx context.Context, gameID uuid.UUID, requestID string, errorMsg string) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:      EventTypeRequestFailed,
		RequestID: requestID,
		GameID:    gameID.String(),
		Error:     errorMsg,
	})
}

// Subscribe opens a subscription to one game's channel. The caller closes it.
func (b *Broadcaster) Subscribe(ctx context.Context, gameID uuid.UUID) *redis.PubSub {
	return b.redisClient.Subscribe(ctx, Channel(gameID))
}

// publishToGame publishes an event to the game-specific channel
func (b *Broadcaster) publishToGame(ctx context.Context, gameID uuid.UUID, event Event) error {
	channel := Channel(gameID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
		"request_id", event.RequestID,
	)
	return nil
}
