package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Envelope is the wire format published to Redis. Subscribers (the SSE or
// websocket edge serving admin dashboards) decode it and forward the payload.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
	At      time.Time       `json:"at"`
}

// Channel is the single pub/sub channel carrying all dashboard events.
const Channel = "hospital:events"

// RedisPublisher broadcasts events over Redis pub/sub.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, event string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	data, err := json.Marshal(Envelope{
		Event:   event,
		Payload: body,
		At:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	if err := p.client.Publish(ctx, Channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", event, err)
	}
	return nil
}
