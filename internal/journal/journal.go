// internal/journal/journal.go
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list the journal pushes room action records onto.
const DefaultQueueName = "promptduel_actions"

// ActionRecord is one applied room mutation, enough to reconstruct who did what
// when. Hands and prompts are deliberately excluded; the journal is an audit
// trail, not a state store.
type ActionRecord struct {
	RoomCode  string    `json:"room_code"`
	ActorID   uuid.UUID `json:"actor_id"`
	Action    string    `json:"action"`
	Timestamp int64     `json:"timestamp"`
}

// Journal is a fire-and-forget feed of room actions into a Redis queue. A nil
// *Journal is valid and publishes nothing, so the server runs without Redis by
// default.
type Journal struct {
	client *redis.Client
	queue  string
}

// Connect builds a Journal from environment variables:
//   - REDIS_ADDR (journal disabled when unset)
//   - REDIS_DB (optional, default 0)
//   - JOURNAL_QUEUE_NAME (optional)
//
// Returns (nil, nil) when no address is configured.
func Connect() (*Journal, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}
	dbIdx := 0
	if s := os.Getenv("REDIS_DB"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			dbIdx = n
		}
	}
	queue := os.Getenv("JOURNAL_QUEUE_NAME")
	if queue == "" {
		queue = DefaultQueueName
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &Journal{client: client, queue: queue}, nil
}

// Publish serializes the record and pushes it onto the queue. Quick network
// send only; failures are returned for logging, never propagated into game flow.
func (j *Journal) Publish(ctx context.Context, rec ActionRecord) error {
	if j == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal ActionRecord: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := j.client.LPush(ctx, j.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to push action record: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.client.Close()
}
