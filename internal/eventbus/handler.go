// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package eventbus

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/autoban/internal/detection"
	"github.com/tomtom215/autoban/internal/logging"
	"github.com/tomtom215/autoban/internal/metrics"
	"github.com/tomtom215/autoban/internal/protocol"
)

// Processor is the part of the detection engine the handler drives.
type Processor interface {
	Handle(ctx context.Context, ev detection.Event) ([]detection.Alert, error)
}

// TelemetryHandler decodes frames and feeds them to the engine.
//
// Every message is acked: a frame that cannot be decoded will never
// decode, and detection is not retried.
type TelemetryHandler struct {
	decoder   *protocol.Decoder
	processor Processor
	registry  *protocol.StatusRegistry

	received  atomic.Int64
	malformed atomic.Int64
	failed    atomic.Int64
}

// NewTelemetryHandler creates a handler. registry may be nil, in which case
// status frames are dropped.
func NewTelemetryHandler(decoder *protocol.Decoder, processor Processor, registry *protocol.StatusRegistry) *TelemetryHandler {
	return &TelemetryHandler{
		decoder:   decoder,
		processor: processor,
		registry:  registry,
	}
}

// Handle processes one frame. It satisfies message.NoPublishHandlerFunc.
func (h *TelemetryHandler) Handle(msg *message.Message) error {
	h.received.Add(1)

	ctx := msg.Context()
	if id := msg.Metadata.Get(MetadataCorrelationID); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	}

	frame, err := h.decoder.Decode(msg.Payload)
	if err != nil {
		h.malformed.Add(1)
		metrics.RecordSkip("malformed_frame")
		logging.Ctx(ctx).Debug().Err(err).Str("message_uuid", msg.UUID).Msg("dropping malformed frame")
		return nil
	}

	switch frame.Type {
	case protocol.TypeStatus:
		if h.registry != nil {
			h.registry.Apply(frame)
		}
		return nil
	case protocol.TypeLeave:
		if h.registry != nil {
			h.registry.Clear(detection.EntityID(frame.Entity))
		}
	}

	ev, ok := frame.Event()
	if !ok {
		return nil
	}
	if _, err := h.processor.Handle(ctx, ev); err != nil {
		h.failed.Add(1)
		level := logging.Ctx(ctx).Warn()
		if errors.Is(err, detection.ErrUnknownEvent) {
			level = logging.Ctx(ctx).Debug()
		}
		level.Err(err).Str("type", frame.Type).Str("entity", frame.Entity).Msg("detection failed for frame")
	}
	return nil
}

// Stats returns counters for health reporting.
func (h *TelemetryHandler) Stats() (received, malformed, failed int64) {
	return h.received.Load(), h.malformed.Load(), h.failed.Load()
}
