package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/internal/services/queue"
	queuePkg "github.com/jwebster45206/adventure-engine/pkg/queue"
)

// test-enqueue pushes turn requests straight onto the queue, bypassing the
// API, to exercise a running worker.
func main() {
	redisURL := flag.String("redis", "redis://localhost:6379", "Redis URL")
	game := flag.String("game", "", "game state id (required)")
	flag.Parse()

	inputs := flag.Args()
	if *game == "" || len(inputs) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s -game <game_state_id> <input> [input...]\n", os.Args[0])
		os.Exit(1)
	}
	gameID, err := uuid.Parse(*game)
	if err != nil {
		log.Fatal("Invalid game state id: ", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client, err := queue.NewClient(*redisURL, logger)
	if err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
	defer client.Close()

	fmt.Println("Connected to Redis successfully!")

	ctx := context.Background()
	q := queue.NewTurnQueue(client)
	for _, input := range inputs {
		req := queuePkg.NewTurnRequest(gameID, input)
		if err := q.EnqueueRequest(ctx, req); err != nil {
			log.Fatal("Failed to enqueue request: ", err)
		}
		fmt.Printf("✅ Enqueued %q: %s\n", input, req.RequestID)
	}

	depth, err := q.RequestQueueDepth(ctx)
	if err != nil {
		log.Fatal("Failed to get queue depth: ", err)
	}

	fmt.Printf("\n📊 Queue depth: %d requests\n", depth)
	fmt.Println("\n💡 Now start the worker to see it process these requests!")
	fmt.Println("   Run: go run ./cmd/worker")
}
