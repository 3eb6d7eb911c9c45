package deepseek

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/upb/reasoning-gateway/services/providers"
)

func TestNewAdapter(t *testing.T) {
	adapter := NewAdapter(providers.AdapterConfig{APIKey: "test-key"})

	assert.NotNil(t, adapter)
	assert.Equal(t, providers.ProviderDeepSeek, adapter.Name())
}
