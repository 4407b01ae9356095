// Package realtime abstracts the push transport used for conversation
// fan-out. The durable store is always the source of truth; everything
// published here is a best-effort notification on top of it.
package realtime

import (
	"context"
	"encoding/json"
)

// Unsubscribe tears down a subscription. Safe to call more than once.
type Unsubscribe func()

// Channel is the contract the rest of the system programs against.
//
// Publish is best-effort and bounded by a timeout; publishing to a channel
// with no subscribers is not an error. Subscribe delivers events at least
// once, in arrival order per channel, with no cross-channel ordering
// guarantee. IsAvailable is the single switch the rest of the system uses to
// decide push vs. poll.
type Channel interface {
	Publish(ctx context.Context, channel, event string, payload interface{}) error
	Subscribe(ctx context.Context, channel, event string, handler func(data []byte)) (Unsubscribe, error)
	IsAvailable() bool
}

// Envelope is the wire frame for one event on a channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// EncodeEnvelope wraps an event payload for the wire.
func EncodeEnvelope(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
