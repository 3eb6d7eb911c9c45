package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upb/reasoning-gateway/internal/trace"
	"github.com/upb/reasoning-gateway/services/providers"
)

func TestNewAdapterRequiresBaseURL(t *testing.T) {
	_, err := NewAdapter(providers.AdapterConfig{})
	assert.Error(t, err)

	adapter, err := NewAdapter(providers.AdapterConfig{BaseURL: "http://llm-gateway.internal:8080/v1"})
	require.NoError(t, err)
	assert.Equal(t, providers.ProviderGateway, adapter.Name())
}

func TestGenerateAgainstGateway(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "internal answer"}, "finish_reason": "stop"}]}`))
	}))
	defer server.Close()

	adapter, err := NewAdapter(providers.AdapterConfig{BaseURL: server.URL})
	require.NoError(t, err)

	prompt, err := providers.NewPrompt("You are a planner.", "Plan the next step.")
	require.NoError(t, err)

	resp, err := adapter.Generate(context.Background(), &providers.GenerateRequest{
		Prompt: prompt,
		Model:  providers.ModelIdentity{Provider: providers.ProviderGateway, Name: "reasoner"},
		Trace:  trace.Context{CorrelationID: "corr-1", RequestID: "req-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "internal answer", resp.Content)
	assert.Equal(t, "gateway:reasoner", resp.Model.QualifiedName())
}
