// Package services contains the schema extraction pipeline and its
// collaborators.
package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/tablemind-ai/tablemind-engine/pkg/models"
)

// EventSink receives pipeline progress events. Emit must not block the
// pipeline on a slow consumer; implementations drop rather than stall.
type EventSink interface {
	Emit(ctx context.Context, event models.ProgressEvent)
}

// ChannelSink bridges pipeline events onto a channel consumed by the SSE
// handler. Writes are best effort: once the consumer is gone or the buffer
// is full the event is dropped and the pipeline keeps going.
type ChannelSink struct {
	ch     chan models.ProgressEvent
	logger *zap.Logger
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(buffer int, logger *zap.Logger) *ChannelSink {
	return &ChannelSink{
		ch:     make(chan models.ProgressEvent, buffer),
		logger: logger,
	}
}

// Events returns the consumer side of the sink.
func (s *ChannelSink) Events() <-chan models.ProgressEvent {
	return s.ch
}

// Close signals the consumer that no more events will arrive.
func (s *ChannelSink) Close() {
	close(s.ch)
}

// Emit sends the event unless the consumer has gone away.
func (s *ChannelSink) Emit(ctx context.Context, event models.ProgressEvent) {
	select {
	case s.ch <- event:
	case <-ctx.Done():
	default:
		s.logger.Warn("Dropping pipeline event, consumer too slow",
			zap.String("status", string(event.Status)))
	}
}

var _ EventSink = (*ChannelSink)(nil)
