package gateway

import (
	"context"
	"errors"

	"github.com/upb/reasoning-gateway/services/providers"
	"github.com/upb/reasoning-gateway/services/providers/openaicompat"
)

// Adapter implements the provider adapter for an internal OpenAI-compatible
// LLM gateway. Unlike the vendor adapters there is no public default
// endpoint; the base URL must come from configuration.
type Adapter struct {
	client *openaicompat.Client
}

// NewAdapter creates a new gateway adapter.
func NewAdapter(config providers.AdapterConfig) (*Adapter, error) {
	if config.BaseURL == "" {
		return nil, errors.New("gateway adapter requires a base URL")
	}
	return &Adapter{client: openaicompat.NewClient(providers.ProviderGateway, config)}, nil
}

// Name returns the provider name.
func (a *Adapter) Name() providers.ProviderType {
	return providers.ProviderGateway
}

// Generate performs one chat completion attempt.
func (a *Adapter) Generate(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	return a.client.Generate(ctx, req)
}
