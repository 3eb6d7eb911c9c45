package reasoning

import (
	"fmt"
	"strings"

	"github.com/upb/reasoning-gateway/services/providers"
)

// AttemptFailure records why one candidate model failed, for diagnosis.
type AttemptFailure struct {
	Model   providers.ModelIdentity
	Message string
}

// AllModelsExhaustedError is the terminal failure of a whole fallback
// sequence: every candidate in the priority list failed. Failures preserves
// attempt order so the caller can see which models were tried and why each
// failed, without having observed individual attempts.
//
// Callers should treat this as retryable at the mission level (re-queue the
// mission later), unlike a ConfigurationError, which requires operator
// intervention.
type AllModelsExhaustedError struct {
	Failures []AttemptFailure
}

// Error implements the error interface
func (e *AllModelsExhaustedError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "all %d configured models failed", len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&sb, "; %s: %s", f.Model.QualifiedName(), f.Message)
	}
	return sb.String()
}

// CanceledError is returned when the caller aborted the mission while an
// attempt was in flight. It is distinct from AllModelsExhaustedError so
// callers can tell "gave up due to exhaustion" from "was told to stop".
// It unwraps to the context error, so errors.Is(err, context.Canceled)
// holds.
type CanceledError struct {
	Cause error
}

// Error implements the error interface
func (e *CanceledError) Error() string {
	return fmt.Sprintf("reasoning canceled: %v", e.Cause)
}

// Unwrap implements error unwrapping
func (e *CanceledError) Unwrap() error {
	return e.Cause
}
