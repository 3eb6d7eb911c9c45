package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/upb/reasoning-gateway/services/providers"
)

func TestZapSinkSuccess(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := NewZapSink(zap.New(core))

	sink.ObserveAttempt(AttemptEvent{
		CorrelationID: "corr-1",
		RequestID:     "req-1",
		Model:         providers.ModelIdentity{Provider: providers.ProviderOpenAI, Name: "gpt-4o"},
		Outcome:       OutcomeSuccess,
		Latency:       250 * time.Millisecond,
		Usage:         &providers.TokenMetric{InputTokens: 100, OutputTokens: 50, TotalTokens: 150},
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "provider attempt completed", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "corr-1", fields["correlation_id"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "openai:gpt-4o", fields["model"])
	assert.Equal(t, "success", fields["outcome"])
	assert.Equal(t, int64(150), fields["total_tokens"])
}

func TestZapSinkFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := NewZapSink(zap.New(core))

	sink.ObserveAttempt(AttemptEvent{
		CorrelationID: "corr-1",
		RequestID:     "req-2",
		Model:         providers.ModelIdentity{Provider: providers.ProviderAnthropic, Name: "claude-sonnet-4-5"},
		Outcome:       OutcomeRetryableFailure,
		Latency:       time.Second,
		Error:         "anthropic: overloaded (status=529)",
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "provider attempt failed", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "retryable_failure", fields["outcome"])
	assert.Equal(t, "anthropic: overloaded (status=529)", fields["error"])
	assert.NotContains(t, fields, "total_tokens")
}

func TestNopSink(t *testing.T) {
	// Must not panic on a zero event.
	NopSink{}.ObserveAttempt(AttemptEvent{})
}
