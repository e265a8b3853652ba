// Package ws implements the realtime channel: a persistent websocket per
// client carrying detection submissions upstream and event broadcasts
// downstream.
package ws

import (
	"encoding/json"
	"fmt"

	"github.com/joltlabs/jolt/internal/domain/model"
)

// Message kinds carried on the channel.
const (
	// KindSubmitDetection is sent client -> server when a detection fires.
	KindSubmitDetection = "submit-detection"

	// KindBroadcastEvent is pushed server -> every connected client,
	// including the submitter.
	KindBroadcastEvent = "broadcast-event"
)

// Envelope frames every channel message as a named kind plus payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// NewSubmission frames an upstream submission.
func NewSubmission(sub model.Submission) (Envelope, error) {
	data, err := json.Marshal(sub)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode submission: %w", err)
	}
	return Envelope{Event: KindSubmitDetection, Data: data}, nil
}

// NewBroadcast frames a downstream event broadcast.
func NewBroadcast(e model.Event) (Envelope, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode event: %w", err)
	}
	return Envelope{Event: KindBroadcastEvent, Data: data}, nil
}

// DecodeSubmission extracts the submission payload from an upstream
// envelope.
func (e Envelope) DecodeSubmission() (model.Submission, error) {
	if e.Event != KindSubmitDetection {
		return model.Submission{}, fmt.Errorf("%w: %s", ErrUnknownKind, e.Event)
	}
	var sub model.Submission
	if err := json.Unmarshal(e.Data, &sub); err != nil {
		return model.Submission{}, fmt.Errorf("decode submission: %w", err)
	}
	return sub, nil
}

// DecodeEvent extracts the event payload from a downstream envelope.
func (e Envelope) DecodeEvent() (model.Event, error) {
	if e.Event != KindBroadcastEvent {
		return model.Event{}, fmt.Errorf("%w: %s", ErrUnknownKind, e.Event)
	}
	var ev model.Event
	if err := json.Unmarshal(e.Data, &ev); err != nil {
		return model.Event{}, fmt.Errorf("decode event: %w", err)
	}
	return ev, nil
}
