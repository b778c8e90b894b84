package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/internal/logger"
	"github.com/jwebster45206/adventure-engine/internal/services/events"
	"github.com/jwebster45206/adventure-engine/internal/services/queue"
	"github.com/jwebster45206/adventure-engine/internal/session"
	queuePkg "github.com/jwebster45206/adventure-engine/pkg/queue"
)

const (
	workerTimeout = 5 * time.Second
	maxAttempts   = 20
	busyBackoff   = 100 * time.Millisecond
)

// Worker plays queued turns. Each turn runs under the same per-session lock
// as the synchronous API, so a game never sees two turns at once.
type Worker struct {
	id          string
	queue       *queue.TurnQueue
	sessions    *session.Service
	broadcaster *events.Broadcaster
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new worker instance
func New(turnQueue *queue.TurnQueue, sessions *session.Service, broadcaster *events.Broadcaster, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:          workerID,
		queue:       turnQueue,
		sessions:    sessions,
		broadcaster: broadcaster,
		log:         log.With("worker_id", workerID),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// ID returns the worker's identifier.
func (w *Worker) ID() string {
	return w.id
}

// Start processes requests until Stop is called.
func (w *Worker) Start() error {
	w.log.Info("Worker starting")

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down")
			return nil
		default:
			if err := w.processNextRequest(); err != nil {
				if w.ctx.Err() != nil {
					continue
				}
				w.log.Error("Error processing request", "error", err)
				time.Sleep(1 * time.Second)
			}
		}
	}
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested")
	w.cancel()
}

// processNextRequest waits briefly for a request and plays it.
func (w *Worker) processNextRequest() error {
	req, err := w.queue.BlockingDequeueRequest(w.ctx, workerTimeout)
	if err != nil {
		return fmt.Errorf("failed to dequeue request: %w", err)
	}
	if req == nil {
		return nil
	}

	w.log.Info("Received request from queue",
		"request_id", req.RequestID,
		"type", req.Type,
		"game_state_id", req.GameStateID,
	)
	return w.processRequest(req)
}

func (w *Worker) processRequest(req *queuePkg.Request) error {
	if req.Type != queuePkg.RequestTypeTurn {
		w.fail(req, fmt.Sprintf("unknown request type %q", req.Type))
		return fmt.Errorf("unknown request type: %s", req.Type)
	}

	start := time.Now()
	log := logger.WithGameID(w.log, req.GameStateID).With("request_id", req.RequestID)
	if err := w.broadcaster.PublishRequestProcessing(w.ctx, req.GameStateID, req.RequestID, req.Input); err != nil {
		logger.WithError(log, err).Error("Failed to publish processing event")
	}
	res, err := w.sessions.Submit(w.ctx, req.GameStateID, req.Input)
	switch {
	case errors.Is(err, session.ErrBusy):
		return w.requeue(req)
	case errors.Is(err, session.ErrNotFound):
		w.fail(req, err.Error())
		return nil
	case err != nil:
		w.fail(req, "turn could not be played")
		return fmt.Errorf("failed to play turn: %w", err)
	}

	if err := w.broadcaster.PublishTurnCompleted(w.ctx, req.GameStateID, req.RequestID, req.Input, res); err != nil {
		logger.WithError(log, err).Error("Failed to publish completion event")
	}

	log.Info("Turn processed",
		"moves", res.Moves,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// requeue puts a request whose game is locked back at the end of the queue.
func (w *Worker) requeue(req *queuePkg.Request) error {
	req.Attempts++
	if req.Attempts >= maxAttempts {
		w.fail(req, session.ErrBusy.Error())
		return nil
	}

	w.log.Info("Game already locked, re-queueing request",
		"request_id", req.RequestID,
		"game_state_id", req.GameStateID,
		"attempts", req.Attempts,
	)
	time.Sleep(busyBackoff)
	if err := w.queue.EnqueueRequest(w.ctx, req); err != nil {
		return fmt.Errorf("failed to re-queue request: %w", err)
	}
	return nil
}

func (w *Worker) fail(req *queuePkg.Request, msg string) {
	w.log.Warn("Request failed", "request_id", req.RequestID, "game_state_id", req.GameStateID, "error", msg)
	if err := w.broadcaster.PublishRequestFailed(w.ctx, req.GameStateID, req.RequestID, msg); err != nil {
		w.log.Error("Failed to publish failure event", "error", err)
	}
}
