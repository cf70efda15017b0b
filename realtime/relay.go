package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const DefaultRelayChannel = "matchday:broadcast"

type relayEnvelope struct {
	Room string          `json:"room"`
	Data json.RawMessage `json:"data"`
}

// RedisRelay is a Broker over a single Redis Pub/Sub channel, so sessions connected to
// different instances see the same stream.
type RedisRelay struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisRelay(client *redis.Client, channel string, logger *slog.Logger) *RedisRelay {
	if channel == "" {
		channel = DefaultRelayChannel
	}
	return &RedisRelay{client: client, channel: channel, logger: logger}
}

func (r *RedisRelay) Publish(ctx context.Context, room string, data []byte) error {
	payload, err := json.Marshal(relayEnvelope{Room: room, Data: data})
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to redis channel %s: %w", r.channel, err)
	}
	return nil
}

// Listen delivers relayed messages until ctx is cancelled or the subscription drops.
func (r *RedisRelay) Listen(ctx context.Context, ready func(), deliver func(room string, data []byte)) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to redis channel %s: %w", r.channel, err)
	}
	r.logger.Info("redis relay subscribed", slog.String("channel", r.channel))
	ready()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("redis channel %s subscription closed", r.channel)
			}
			var env relayEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil || env.Room == "" {
				r.logger.Warn("ignoring malformed relay message", slog.String("channel", r.channel))
				continue
			}
			deliver(env.Room, env.Data)
		}
	}
}
