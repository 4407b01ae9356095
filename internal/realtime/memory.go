package realtime

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryChannel is an in-process Channel for single-node development and
// tests. Events are delivered synchronously to current subscribers only;
// there is no backlog, so a late subscriber never replays old events.
type MemoryChannel struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]*memorySub
}

type memorySub struct {
	event   string
	handler func(data []byte)
}

func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{subs: make(map[string]map[int]*memorySub)}
}

func (c *MemoryChannel) IsAvailable() bool {
	return true
}

func (c *MemoryChannel) Publish(ctx context.Context, channel, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	c.mu.RLock()
	matched := make([]*memorySub, 0, len(c.subs[channel]))
	for _, sub := range c.subs[channel] {
		if sub.event == event {
			matched = append(matched, sub)
		}
	}
	c.mu.RUnlock()

	for _, sub := range matched {
		sub.handler(data)
	}
	return nil
}

func (c *MemoryChannel) Subscribe(ctx context.Context, channel, event string, handler func(data []byte)) (Unsubscribe, error) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	if c.subs[channel] == nil {
		c.subs[channel] = make(map[int]*memorySub)
	}
	c.subs[channel][id] = &memorySub{event: event, handler: handler}
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs[channel], id)
			c.mu.Unlock()
		})
	}, nil
}
