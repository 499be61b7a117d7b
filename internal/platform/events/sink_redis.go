// Copyright (c) 2026 Satori HQ. All rights reserved.

package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/satori-hq/nft-series/internal/platform/constants"
)

// StreamSink appends events to a Redis stream for downstream consumers.
type StreamSink struct {
	client *redis.Client
	stream string
}

// NewStreamSink creates a StreamSink writing to the default event stream.
func NewStreamSink(client *redis.Client) *StreamSink {
	return &StreamSink{client: client, stream: constants.RedisStreamEvents}
}

// Emit appends the event to the stream as a single JSON payload field.
func (sink *StreamSink) Emit(context context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: failed to marshal event: %w", err)
	}

	err = sink.client.XAdd(context, &redis.XAddArgs{
		Stream: sink.stream,
		Values: map[string]any{
			"event":   event.Event,
			"payload": string(payload),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("events: failed to append to stream: %w", err)
	}

	return nil
}
