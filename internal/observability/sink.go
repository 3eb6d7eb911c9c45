package observability

import (
	"time"

	"go.uber.org/zap"

	"github.com/upb/reasoning-gateway/services/providers"
)

// Outcome is the terminal state of one provider attempt.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeRetryableFailure Outcome = "retryable_failure"
	OutcomeFatalFailure     Outcome = "fatal_failure"
)

// AttemptEvent is emitted once per provider attempt. The sink owns its own
// transport; the router only emits.
type AttemptEvent struct {
	// CorrelationID is the mission correlation id shared by all attempts
	CorrelationID string

	// RequestID identifies this individual attempt
	RequestID string

	// Model that was attempted
	Model providers.ModelIdentity

	// Outcome of the attempt
	Outcome Outcome

	// Latency of the attempt
	Latency time.Duration

	// Usage is the token accounting, when the provider reported it
	Usage *providers.TokenMetric

	// Error message for failed attempts
	Error string
}

// Sink receives per-attempt events from the router.
type Sink interface {
	ObserveAttempt(event AttemptEvent)
}

// ZapSink logs attempt events through a zap logger.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a sink that writes attempt events as structured logs.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

// ObserveAttempt implements Sink.
func (s *ZapSink) ObserveAttempt(event AttemptEvent) {
	fields := []zap.Field{
		zap.String("correlation_id", event.CorrelationID),
		zap.String("request_id", event.RequestID),
		zap.String("model", event.Model.QualifiedName()),
		zap.String("outcome", string(event.Outcome)),
		zap.Duration("latency", event.Latency),
	}
	if event.Usage != nil {
		fields = append(fields,
			zap.Int("input_tokens", event.Usage.InputTokens),
			zap.Int("output_tokens", event.Usage.OutputTokens),
			zap.Int("total_tokens", event.Usage.TotalTokens))
	}
	if event.Error != "" {
		fields = append(fields, zap.String("error", event.Error))
	}

	if event.Outcome == OutcomeSuccess {
		s.logger.Info("provider attempt completed", fields...)
		return
	}
	s.logger.Warn("provider attempt failed", fields...)
}

// NopSink discards all events.
type NopSink struct{}

// ObserveAttempt implements Sink.
func (NopSink) ObserveAttempt(AttemptEvent) {}
