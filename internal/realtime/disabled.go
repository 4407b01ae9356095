package realtime

import (
	"context"
	"fmt"
)

// DisabledChannel stands in when push credentials are absent. Publishing is
// a silent no-op so fire-and-forget callers still succeed; the peer converges
// through the polling fallback instead.
type DisabledChannel struct{}

func (DisabledChannel) IsAvailable() bool {
	return false
}

func (DisabledChannel) Publish(ctx context.Context, channel, event string, payload interface{}) error {
	return nil
}

func (DisabledChannel) Subscribe(ctx context.Context, channel, event string, handler func(data []byte)) (Unsubscribe, error) {
	return nil, fmt.Errorf("push transport not configured")
}
