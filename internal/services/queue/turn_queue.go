package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jwebster45206/adventure-engine/pkg/queue"
	"github.com/redis/go-redis/v9"
)

const requestsKey = "turn-requests"

// TurnQueue is the global FIFO of asynchronous turn requests.
type TurnQueue struct {
	client *Client
}

func NewTurnQueue(client *Client) *TurnQueue {
	return &TurnQueue{client: client}
}

// EnqueueRequest appends a request to the end of the queue.
func (q *TurnQueue) EnqueueRequest(ctx context.Context, req *queue.Request) error {
	data, err := req.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}
	if err := q.client.rdb.RPush(ctx, requestsKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue request: %w", err)
	}
	return nil
}

// DequeueRequest removes and returns the next request. It returns nil when
// the queue is empty.
func (q *TurnQueue) DequeueRequest(ctx context.Context) (*queue.Request, error) {
	result, err := q.client.rdb.LPop(ctx, requestsKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue request: %w", err)
	}
	return q.parse(result)
}

// BlockingDequeueRequest waits up to timeout for a request. It returns nil
// when the wait times out.
func (q *TurnQueue) BlockingDequeueRequest(ctx context.Context, timeout time.Duration) (*queue.Request, error) {
	result, err := q.client.rdb.BLPop(ctx, timeout, requestsKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue request: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPop result: %v", result)
	}
	return q.parse(result[1])
}

// RequestQueueDepth returns the number of waiting requests.
func (q *TurnQueue) RequestQueueDepth(ctx context.Context) (int, error) {
	count, err := q.client.rdb.LLen(ctx, requestsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get request queue depth: %w", err)
	}
	return int(count), nil
}

// parse drops entries that cannot be decoded so one bad payload cannot wedge the queue.
func (q *TurnQueue) parse(data string) (*queue.Request, error) {
	req, err := queue.FromJSON([]byte(data))
	if err != nil {
		q.client.logger.Error("Dropping malformed queue entry", "error", err, "payload", data)
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return req, nil
}
