package reasoning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/upb/reasoning-gateway/services/providers"
)

func TestAllModelsExhaustedErrorMessage(t *testing.T) {
	err := &AllModelsExhaustedError{
		Failures: []AttemptFailure{
			{
				Model:   providers.ModelIdentity{Provider: providers.ProviderOpenAI, Name: "gpt-4o"},
				Message: "openai: rate limit exceeded (status=429)",
			},
			{
				Model:   providers.ModelIdentity{Provider: providers.ProviderAnthropic, Name: "claude-sonnet-4-5"},
				Message: "anthropic: overloaded (status=529)",
			},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "all 2 configured models failed")
	assert.Contains(t, msg, "openai:gpt-4o: openai: rate limit exceeded (status=429)")
	assert.Contains(t, msg, "anthropic:claude-sonnet-4-5: anthropic: overloaded (status=529)")
}

func TestCanceledErrorUnwrapsToContext(t *testing.T) {
	err := &CanceledError{Cause: context.Canceled}

	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "reasoning canceled")
}
