// Package trace carries per-mission correlation metadata through the
// reasoning gateway and into provider calls.
package trace

import "github.com/google/uuid"

// Context is the correlation metadata for one logical operation. The
// correlation id is fixed for the life of a mission; the request id is
// regenerated for each individual provider attempt. Context values are
// immutable; deriving a fresh request id produces a new value.
type Context struct {
	// CorrelationID is unique per mission and shared by every attempt
	CorrelationID string

	// RequestID identifies one provider attempt; empty until derived
	RequestID string
}

// NewMission creates the trace context for one inbound mission with a fresh
// correlation identifier.
func NewMission() Context {
	return Context{CorrelationID: uuid.NewString()}
}

// WithCorrelationID builds a mission context around an externally supplied
// correlation id (e.g. from an inbound header), falling back to a fresh one
// when blank.
func WithCorrelationID(correlationID string) Context {
	if correlationID == "" {
		return NewMission()
	}
	return Context{CorrelationID: correlationID}
}

// NextAttempt derives a per-attempt context: same correlation id, fresh
// request id.
func (c Context) NextAttempt() Context {
	return Context{CorrelationID: c.CorrelationID, RequestID: uuid.NewString()}
}
