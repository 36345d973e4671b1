package realtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

// DefaultChannel is the pub/sub channel carrying changed paths.
const DefaultChannel = "storefront:changes"

var _ model.ChangeFeed = (*RedisBroadcaster)(nil)

// RedisBroadcaster shares changed paths between server instances. Local
// changes go to the hub immediately and are published for the others;
// messages from other instances are replayed into the local hub.
type RedisBroadcaster struct {
	hub        *Hub
	client     *redis.Client
	channel    string
	instanceID string
	logger     *logger.Logger
}

func NewRedisBroadcaster(hub *Hub, client *redis.Client, channel string, logger *logger.Logger) *RedisBroadcaster {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBroadcaster{
		hub:        hub,
		client:     client,
		channel:    channel,
		instanceID: uuid.NewString(),
		logger:     logger,
	}
}

// NewRedisClient parses url and pings the server before returning.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func (b *RedisBroadcaster) Notify(ctx context.Context, path model.Path) {
	b.hub.Notify(ctx, path)

	if err := b.client.Publish(ctx, b.channel, b.instanceID+"|"+string(path)).Err(); err != nil {
		b.logger.Error("Realtime broadcaster: failed to publish change",
			"path", path,
			"error", err.Error())
	}
}

func (b *RedisBroadcaster) Watch(ctx context.Context, path model.Path) <-chan model.Snapshot {
	return b.hub.Watch(ctx, path)
}

// Start subscribes to the channel and relays remote changes until ctx is
// done. It returns once the subscription is confirmed.
func (b *RedisBroadcaster) Start(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	go func() {
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				b.relay(ctx, msg.Payload)
			}
		}
	}()

	b.logger.Info("Realtime broadcaster: subscribed",
		"channel", b.channel,
		"instance_id", b.instanceID)

	return nil
}

func (b *RedisBroadcaster) relay(ctx context.Context, payload string) {
	origin, raw, ok := strings.Cut(payload, "|")
	if !ok {
		b.logger.Warn("Realtime broadcaster: malformed message",
			"payload", payload)
		return
	}
	if origin == b.instanceID {
		return
	}

	path, err := model.ParsePath(raw)
	if err != nil {
		b.logger.Warn("Realtime broadcaster: invalid path in message",
			"payload", payload,
			"error", err.Error())
		return
	}

	b.hub.Notify(ctx, path)
}
