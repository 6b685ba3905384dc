package core

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned by session stores for unknown session IDs.
var ErrSessionNotFound = errors.New("session not found")

// ErrMissingField indicates a payload arrived without a required field.
var ErrMissingField = errors.New("missing required field")

// UnknownReceiverError is recorded by the dispatch kernel when an envelope
// addresses a name no registered agent answers to. Delivery of the envelope
// is abandoned; the run continues.
type UnknownReceiverError struct {
	Receiver   string
	EnvelopeID string
}

func (e *UnknownReceiverError) Error() string {
	return fmt.Sprintf("no agent registered for receiver %q (envelope %s)", e.Receiver, e.EnvelopeID)
}

// UnexpectedPayloadError is returned by agents handed a payload kind outside
// their contract. It surfaces mis-wiring as a contained handler fault.
type UnexpectedPayloadError struct {
	Agent string
	Kind  Kind
}

func (e *UnexpectedPayloadError) Error() string {
	return fmt.Sprintf("agent %s cannot handle payload kind %s", e.Agent, e.Kind)
}
