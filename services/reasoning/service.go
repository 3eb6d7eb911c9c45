package reasoning

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/upb/reasoning-gateway/internal/observability"
	"github.com/upb/reasoning-gateway/internal/trace"
	"github.com/upb/reasoning-gateway/services/providers"
)

// Config holds router settings.
type Config struct {
	// AttemptTimeout bounds each individual provider attempt. Zero disables
	// the per-attempt deadline.
	AttemptTimeout time.Duration
}

// Attempt is the record of one candidate attempt, kept for observability
// whether it succeeded or failed.
type Attempt struct {
	// Model that was attempted
	Model providers.ModelIdentity

	// Trace of this attempt (same correlation id as the mission, fresh
	// request id)
	Trace trace.Context

	// Outcome of the attempt
	Outcome observability.Outcome

	// Latency of the attempt
	Latency time.Duration

	// Usage reported by the provider, when available
	Usage *providers.TokenMetric

	// Err holds the failure for non-success outcomes
	Err error

	// response is set on the winning attempt only
	response *providers.GenerateResponse
}

// Result pairs the winning response with the full attempt record of the
// fallback sequence.
type Result struct {
	// Response from the first candidate that succeeded
	Response *providers.GenerateResponse

	// Attempts in order, including the failures that preceded the success
	Attempts []Attempt
}

// TotalUsage sums the token metrics of every attempt that reported one,
// giving the cost of the whole fallback sequence rather than just the
// winning call.
func (r *Result) TotalUsage() providers.TokenMetric {
	var total providers.TokenMetric
	for _, a := range r.Attempts {
		if a.Usage == nil {
			continue
		}
		total.InputTokens += a.Usage.InputTokens
		total.OutputTokens += a.Usage.OutputTokens
		total.TotalTokens += a.Usage.TotalTokens
	}
	return total
}

// Service is the priority router: it turns a prompt into a validated,
// metered response from the first candidate model that succeeds, falling
// back across the configured priority list when providers fail.
//
// The service holds no mutable state between calls and is safe for use
// across concurrent missions; within one Reason call, candidates are tried
// strictly one at a time in priority order.
type Service struct {
	registry       *providers.Registry
	allowlist      *providers.Allowlist
	classifier     Classifier
	attemptTimeout time.Duration
	logger         *zap.Logger
	sink           observability.Sink
}

// NewService creates the reasoning router.
func NewService(registry *providers.Registry, allowlist *providers.Allowlist, cfg Config, logger *zap.Logger, sink observability.Sink) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		sink = observability.NopSink{}
	}
	return &Service{
		registry:       registry,
		allowlist:      allowlist,
		attemptTimeout: cfg.AttemptTimeout,
		logger:         logger,
		sink:           sink,
	}
}

// Reason attempts each candidate in list order and returns the first
// success. Candidate order is a total order respected exactly: no
// reordering, no deduplication, no speculative racing. A candidate's
// failure is recorded and the next one is tried, unless the failure is
// independent of the model (sequence-fatal), in which case it propagates
// immediately. When every candidate has failed, an AllModelsExhaustedError
// enumerating the per-model failures is returned.
func (s *Service) Reason(ctx context.Context, prompt providers.Prompt, candidates []providers.ModelIdentity, tc trace.Context) (*Result, error) {
	if len(candidates) == 0 {
		return nil, providers.NewConfigurationError("no candidate models configured")
	}
	if err := prompt.Validate(); err != nil {
		return nil, &providers.ConfigurationError{Message: "invalid prompt", Cause: err}
	}
	if s.allowlist.IsEmpty() {
		return nil, providers.NewConfigurationError("model allowlist is empty; no model can ever be attempted")
	}

	s.logger.Info("starting reasoning sequence",
		zap.String("correlation_id", tc.CorrelationID),
		zap.Int("candidates", len(candidates)))
	s.logEstimatedTokens(prompt, tc)

	attempts := make([]Attempt, 0, len(candidates))

	for _, candidate := range candidates {
		if err := s.allowlist.AssertAllowed(candidate); err != nil {
			// Model-specific rejection: skip without spending a network
			// call, but keep it in the failure record.
			attempts = append(attempts, s.recordFailure(candidate, tc, 0, err, observability.OutcomeFatalFailure))
			continue
		}

		adapter, err := s.registry.AdapterFor(candidate)
		if err != nil {
			attempts = append(attempts, s.recordFailure(candidate, tc, 0, err, observability.OutcomeFatalFailure))
			continue
		}

		attempt, err := s.attempt(ctx, adapter, prompt, candidate, tc)
		attempts = append(attempts, attempt)

		if err == nil {
			s.logger.Info("reasoning sequence completed",
				zap.String("correlation_id", tc.CorrelationID),
				zap.String("model", candidate.QualifiedName()),
				zap.Int("attempts", len(attempts)))
			return &Result{Response: attempt.response, Attempts: attempts}, nil
		}

		// The caller aborting the mission trumps any per-attempt verdict.
		if ctx.Err() != nil {
			s.logger.Warn("reasoning sequence canceled",
				zap.String("correlation_id", tc.CorrelationID),
				zap.Int("attempts", len(attempts)))
			return nil, &CanceledError{Cause: ctx.Err()}
		}

		if s.classifier.Classify(err) == ClassSequenceFatal {
			s.logger.Error("reasoning sequence aborted",
				zap.String("correlation_id", tc.CorrelationID),
				zap.String("model", candidate.QualifiedName()),
				zap.Error(err))
			return nil, err
		}

		s.logger.Warn("candidate failed, falling back",
			zap.String("correlation_id", tc.CorrelationID),
			zap.String("model", candidate.QualifiedName()),
			zap.Error(err))
	}

	failures := make([]AttemptFailure, len(attempts))
	for i, a := range attempts {
		failures[i] = AttemptFailure{Model: a.Model, Message: a.Err.Error()}
	}

	s.logger.Error("all candidate models exhausted",
		zap.String("correlation_id", tc.CorrelationID),
		zap.Int("attempts", len(attempts)))
	return nil, &AllModelsExhaustedError{Failures: failures}
}

// attempt runs a single provider call with a fresh per-attempt trace and
// the configured timeout, and emits its observability event.
func (s *Service) attempt(ctx context.Context, adapter providers.Adapter, prompt providers.Prompt, candidate providers.ModelIdentity, tc trace.Context) (Attempt, error) {
	attemptTrace := tc.NextAttempt()

	attemptCtx := ctx
	if s.attemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, s.attemptTimeout)
		defer cancel()
	}

	s.logger.Debug("attempting candidate",
		zap.String("correlation_id", attemptTrace.CorrelationID),
		zap.String("request_id", attemptTrace.RequestID),
		zap.String("model", candidate.QualifiedName()))

	start := time.Now()
	resp, err := adapter.Generate(attemptCtx, &providers.GenerateRequest{
		Prompt: prompt,
		Model:  candidate,
		Trace:  attemptTrace,
	})
	latency := time.Since(start)

	if err != nil {
		outcome := observability.OutcomeFatalFailure
		if s.classifier.Classify(err) == ClassRetryable {
			outcome = observability.OutcomeRetryableFailure
		}
		attempt := s.recordFailure(candidate, attemptTrace, latency, err, outcome)
		return attempt, err
	}

	attempt := Attempt{
		Model:    candidate,
		Trace:    attemptTrace,
		Outcome:  observability.OutcomeSuccess,
		Latency:  latency,
		Usage:    resp.Usage,
		response: resp,
	}
	s.sink.ObserveAttempt(observability.AttemptEvent{
		CorrelationID: attemptTrace.CorrelationID,
		RequestID:     attemptTrace.RequestID,
		Model:         candidate,
		Outcome:       observability.OutcomeSuccess,
		Latency:       latency,
		Usage:         resp.Usage,
	})
	return attempt, nil
}

// recordFailure builds the attempt record for a failed (or skipped)
// candidate and emits its observability event.
func (s *Service) recordFailure(candidate providers.ModelIdentity, tc trace.Context, latency time.Duration, err error, outcome observability.Outcome) Attempt {
	s.sink.ObserveAttempt(observability.AttemptEvent{
		CorrelationID: tc.CorrelationID,
		RequestID:     tc.RequestID,
		Model:         candidate,
		Outcome:       outcome,
		Latency:       latency,
		Error:         err.Error(),
	})
	return Attempt{
		Model:   candidate,
		Trace:   tc,
		Outcome: outcome,
		Latency: latency,
		Err:     err,
	}
}

// logEstimatedTokens logs a rough prompt size estimate (4 characters per
// token) before dispatch.
func (s *Service) logEstimatedTokens(prompt providers.Prompt, tc trace.Context) {
	totalChars := 0
	for _, msg := range prompt.Messages {
		totalChars += len(msg.Content)
	}
	s.logger.Debug("estimated prompt tokens",
		zap.String("correlation_id", tc.CorrelationID),
		zap.Int("estimated_tokens", totalChars/4))
}
