package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelIdentity(t *testing.T) {
	tests := []struct {
		name     string
		provider ProviderType
		model    string
		wantErr  bool
	}{
		{
			name:     "valid openai model",
			provider: ProviderOpenAI,
			model:    "gpt-4o",
			wantErr:  false,
		},
		{
			name:     "valid gateway model",
			provider: ProviderGateway,
			model:    "internal-reasoner-v2",
			wantErr:  false,
		},
		{
			name:     "unknown provider",
			provider: ProviderType("mistral"),
			model:    "mistral-large",
			wantErr:  true,
		},
		{
			name:     "empty model name",
			provider: ProviderAnthropic,
			model:    "",
			wantErr:  true,
		},
		{
			name:     "whitespace model name",
			provider: ProviderAnthropic,
			model:    "   ",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := NewModelIdentity(tt.provider, tt.model)
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidIdentity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.provider, identity.Provider)
			assert.Equal(t, tt.model, identity.Name)
		})
	}
}

func TestParseQualifiedName(t *testing.T) {
	tests := []struct {
		name         string
		qualified    string
		wantProvider ProviderType
		wantModel    string
		wantErr      bool
	}{
		{
			name:         "openai model",
			qualified:    "openai:gpt-4o",
			wantProvider: ProviderOpenAI,
			wantModel:    "gpt-4o",
		},
		{
			name:         "anthropic model",
			qualified:    "anthropic:claude-sonnet-4-5",
			wantProvider: ProviderAnthropic,
			wantModel:    "claude-sonnet-4-5",
		},
		{
			name:         "model name containing colons",
			qualified:    "gateway:org/reasoner:latest",
			wantProvider: ProviderGateway,
			wantModel:    "org/reasoner:latest",
		},
		{
			name:         "provider is lowercased",
			qualified:    "DeepSeek:deepseek-chat",
			wantProvider: ProviderDeepSeek,
			wantModel:    "deepseek-chat",
		},
		{
			name:         "surrounding whitespace trimmed",
			qualified:    "  gemini:gemini-2.0-flash  ",
			wantProvider: ProviderGemini,
			wantModel:    "gemini-2.0-flash",
		},
		{
			name:      "missing separator",
			qualified: "gpt-4o",
			wantErr:   true,
		},
		{
			name:      "unknown provider",
			qualified: "cohere:command-r",
			wantErr:   true,
		},
		{
			name:      "empty string",
			qualified: "",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := ParseQualifiedName(tt.qualified)
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidIdentity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvider, identity.Provider)
			assert.Equal(t, tt.wantModel, identity.Name)
		})
	}
}

func TestQualifiedName(t *testing.T) {
	identity := ModelIdentity{Provider: ProviderOpenAI, Name: "gpt-4o-mini"}
	assert.Equal(t, "openai:gpt-4o-mini", identity.QualifiedName())
	assert.Equal(t, "openai:gpt-4o-mini", identity.String())
}

func TestQualifiedNameRoundTrip(t *testing.T) {
	original := ModelIdentity{Provider: ProviderGateway, Name: "org/reasoner:latest"}
	parsed, err := ParseQualifiedName(original.QualifiedName())
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestProviderTypeValid(t *testing.T) {
	for _, p := range []ProviderType{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderDeepSeek, ProviderGateway} {
		assert.True(t, p.Valid(), p.String())
	}
	assert.False(t, ProviderType("bedrock").Valid())
	assert.False(t, ProviderType("").Valid())
}
