// Copyright (c) 2026 Satori HQ. All rights reserved.

package events

import (
	"context"
	"sync"
)

// MemorySink collects events in memory for test assertions.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Emit appends the event to the in-memory list.
func (sink *MemorySink) Emit(_ context.Context, event Event) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.events = append(sink.events, event)
	return nil
}

// Events returns a copy of all emitted events in order.
func (sink *MemorySink) Events() []Event {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	out := make([]Event, len(sink.events))
	copy(out, sink.events)
	return out
}
