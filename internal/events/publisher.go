// Package events publishes goal lifecycle events to a Redis stream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultStream = "savings:goals"

const (
	TypeGoalCreated   = "goal.created"
	TypeGoalSaved     = "goal.saved"
	TypeGoalWithdrawn = "goal.withdrawn"
	TypeGoalDeleted   = "goal.deleted"
)

type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// GoalEvent is the payload of every goal.* event. Amounts are base units.
type GoalEvent struct {
	OperationID string   `json:"operationId"`
	Mode        string   `json:"mode"`
	Owner       string   `json:"owner"`
	GoalID      string   `json:"goalId,omitempty"`
	Amount      string   `json:"amount,omitempty"`
	TxHashes    []string `json:"txHashes,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, data any) error
}

type RedisPublisher struct {
	client *redis.Client
	stream string
}

func NewRedisPublisher(client *redis.Client, stream string) *RedisPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisPublisher{client: client, stream: stream}
}

func (p *RedisPublisher) Publish(ctx context.Context, eventType string, data any) error {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"type":  eventType,
			"event": eventJSON,
		},
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// NoopPublisher drops events when Redis is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, eventType string, data any) error {
	return nil
}
