package reasoning

import (
	"context"
	"errors"

	"github.com/upb/reasoning-gateway/services/providers"
)

// FailureClass is the classification of one attempt's failure. It decides
// whether the router advances to the next candidate or aborts the sequence.
type FailureClass int

const (
	// ClassRetryable is a transient provider-side condition: rate limiting,
	// timeout, 5xx-equivalent, connection failure. The router advances to
	// the next candidate.
	ClassRetryable FailureClass = iota

	// ClassModelFatal is specific to the attempted model (e.g. the model is
	// disabled or the request was rejected outright). Retrying the same
	// model would not help, but a different candidate might; the router
	// still advances.
	ClassModelFatal

	// ClassSequenceFatal is independent of which model is used: invalid
	// prompt, configuration error. The router aborts immediately without
	// exhausting the remaining candidates.
	ClassSequenceFatal
)

// String returns the class name, for logging.
func (c FailureClass) String() string {
	switch c {
	case ClassRetryable:
		return "retryable"
	case ClassModelFatal:
		return "model_fatal"
	case ClassSequenceFatal:
		return "sequence_fatal"
	default:
		return "unknown"
	}
}

// Classifier maps a failure raised by a provider adapter into a
// FailureClass. Classification is decided once here; it is never revisited.
// The zero value is ready to use; the classifier holds no state and is safe
// for concurrent use.
type Classifier struct{}

// Classify returns the failure class of an attempt error.
//
// Almost every per-model failure advances the sequence, because the
// router's fallback unit is "try another model", not "retry this one".
// Only errors independent of the chosen model abort the whole sequence.
func (Classifier) Classify(err error) FailureClass {
	var cfgErr *providers.ConfigurationError
	if errors.As(err, &cfgErr) {
		return ClassSequenceFatal
	}

	// A per-attempt deadline expiry is a transient provider condition.
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassRetryable
	}

	var provErr *providers.ProviderError
	if errors.As(err, &provErr) {
		if provErr.Retryable {
			return ClassRetryable
		}
		return ClassModelFatal
	}

	// Unknown errors fall back to the next candidate rather than aborting.
	return ClassRetryable
}
