package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	provider ProviderType
}

func (s *stubAdapter) Name() ProviderType {
	return s.provider
}

func (s *stubAdapter) Generate(context.Context, *GenerateRequest) (*GenerateResponse, error) {
	return &GenerateResponse{Content: "ok"}, nil
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()
	adapter := &stubAdapter{provider: ProviderOpenAI}

	require.NoError(t, registry.Register(adapter))
	assert.Equal(t, 1, registry.Len())

	found, err := registry.AdapterFor(ModelIdentity{Provider: ProviderOpenAI, Name: "gpt-4o"})
	require.NoError(t, err)
	assert.Same(t, adapter, found.(*stubAdapter))
}

func TestRegistryRejectsDuplicate(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&stubAdapter{provider: ProviderOpenAI}))

	err := registry.Register(&stubAdapter{provider: ProviderOpenAI})
	assert.ErrorIs(t, err, ErrAdapterAlreadyRegistered)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistryRejectsInvalidAdapters(t *testing.T) {
	registry := NewRegistry()

	assert.Error(t, registry.Register(nil))
	assert.Error(t, registry.Register(&stubAdapter{provider: ProviderType("bedrock")}))
	assert.Equal(t, 0, registry.Len())
}

func TestRegistryAdapterNotFound(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&stubAdapter{provider: ProviderOpenAI}))

	_, err := registry.AdapterFor(ModelIdentity{Provider: ProviderAnthropic, Name: "claude-sonnet-4-5"})
	assert.ErrorIs(t, err, ErrAdapterNotFound)
}

func TestRegistryProvidersSorted(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&stubAdapter{provider: ProviderOpenAI}))
	require.NoError(t, registry.Register(&stubAdapter{provider: ProviderAnthropic}))
	require.NoError(t, registry.Register(&stubAdapter{provider: ProviderGateway}))

	assert.Equal(t, []ProviderType{ProviderAnthropic, ProviderGateway, ProviderOpenAI}, registry.Providers())
}
