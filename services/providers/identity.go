package providers

import (
	"errors"
	"fmt"
	"strings"
)

// ProviderType identifies an LLM vendor.
type ProviderType string

const (
	// ProviderOpenAI is the OpenAI chat completions API
	ProviderOpenAI ProviderType = "openai"

	// ProviderAnthropic is the Anthropic messages API
	ProviderAnthropic ProviderType = "anthropic"

	// ProviderGemini is the Google Gemini generateContent API
	ProviderGemini ProviderType = "gemini"

	// ProviderDeepSeek is the DeepSeek API (OpenAI-compatible)
	ProviderDeepSeek ProviderType = "deepseek"

	// ProviderGateway is an internal OpenAI-compatible LLM gateway
	ProviderGateway ProviderType = "gateway"
)

var (
	// ErrInvalidIdentity is returned when a model identity cannot be constructed
	ErrInvalidIdentity = errors.New("invalid model identity")
)

// knownProviders is the closed set of provider types accepted from configuration
var knownProviders = map[ProviderType]bool{
	ProviderOpenAI:    true,
	ProviderAnthropic: true,
	ProviderGemini:    true,
	ProviderDeepSeek:  true,
	ProviderGateway:   true,
}

// Valid reports whether the provider type is one of the known vendors.
func (p ProviderType) Valid() bool {
	return knownProviders[p]
}

// String returns the provider type as a string.
func (p ProviderType) String() string {
	return string(p)
}

// ModelIdentity names a specific model offered by a specific provider.
// It is a value type; the qualified name is the sole comparison key used
// everywhere else in the system.
type ModelIdentity struct {
	Provider ProviderType
	Name     string
}

// NewModelIdentity constructs a ModelIdentity, validating the provider type
// and that the model name is non-empty.
func NewModelIdentity(provider ProviderType, name string) (ModelIdentity, error) {
	if !provider.Valid() {
		return ModelIdentity{}, fmt.Errorf("%w: unknown provider %q", ErrInvalidIdentity, provider)
	}
	if strings.TrimSpace(name) == "" {
		return ModelIdentity{}, fmt.Errorf("%w: model name must be non-empty", ErrInvalidIdentity)
	}
	return ModelIdentity{Provider: provider, Name: name}, nil
}

// ParseQualifiedName parses a "provider:name" string into a ModelIdentity.
// The model name may itself contain colons (e.g. vendor-prefixed names).
func ParseQualifiedName(qualified string) (ModelIdentity, error) {
	provider, name, found := strings.Cut(strings.TrimSpace(qualified), ":")
	if !found {
		return ModelIdentity{}, fmt.Errorf("%w: %q is not of the form provider:name", ErrInvalidIdentity, qualified)
	}
	return NewModelIdentity(ProviderType(strings.ToLower(strings.TrimSpace(provider))), strings.TrimSpace(name))
}

// QualifiedName returns the canonical "provider:name" key for this identity.
func (m ModelIdentity) QualifiedName() string {
	return string(m.Provider) + ":" + m.Name
}

// String implements fmt.Stringer.
func (m ModelIdentity) String() string {
	return m.QualifiedName()
}
