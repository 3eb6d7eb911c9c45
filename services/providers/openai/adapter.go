package openai

import (
	"context"

	"github.com/upb/reasoning-gateway/services/providers"
	"github.com/upb/reasoning-gateway/services/providers/openaicompat"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Adapter implements the provider adapter for OpenAI.
type Adapter struct {
	client *openaicompat.Client
}

// NewAdapter creates a new OpenAI adapter.
func NewAdapter(config providers.AdapterConfig) *Adapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return &Adapter{client: openaicompat.NewClient(providers.ProviderOpenAI, config)}
}

// Name returns the provider name.
func (a *Adapter) Name() providers.ProviderType {
	return providers.ProviderOpenAI
}

// Generate performs one chat completion attempt.
func (a *Adapter) Generate(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	return a.client.Generate(ctx, req)
}
