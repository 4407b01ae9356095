package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"matchchat/internal/common"
	"matchchat/internal/config"
)

// RedisChannel implements Channel over Redis pub/sub. One subscription runs
// one receive goroutine, so handlers see events in arrival order per channel.
type RedisChannel struct {
	client  *redis.Client
	timeout time.Duration
}

// NewChannel builds the transport from config: a Redis-backed channel when
// the address is configured, otherwise the disabled fallback that forces
// clients onto polling.
func NewChannel(cfg *config.Config) Channel {
	if !cfg.Realtime.Configured() {
		return &DisabledChannel{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Realtime.Addr,
		Password: cfg.Realtime.Password,
		DB:       cfg.Realtime.DB,
	})
	timeout := cfg.Realtime.PublishTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &RedisChannel{client: client, timeout: timeout}
}

func (c *RedisChannel) IsAvailable() bool {
	return true
}

// Publish sends one enveloped event, bounded by the configured timeout.
// Failures come back as ErrTransientTransport: the caller's durable write
// already happened and must not be rolled back over a lost notification.
func (c *RedisChannel) Publish(ctx context.Context, channel, event string, payload interface{}) error {
	raw, err := EncodeEnvelope(event, payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.client.Publish(ctx, channel, raw).Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrTransientTransport, err)
	}
	return nil
}

func (c *RedisChannel) Subscribe(ctx context.Context, channel, event string, handler func(data []byte)) (Unsubscribe, error) {
	pubsub := c.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("%w: subscribe %s: %v", common.ErrTransientTransport, channel, err)
	}

	done := make(chan struct{})
	go func() {
		ch := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					log.Printf("realtime: dropping malformed frame on %s: %v", channel, err)
					continue
				}
				if env.Event != event {
					continue
				}
				handler(env.Data)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			pubsub.Close()
		})
	}, nil
}
