package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/upb/reasoning-gateway/internal/trace"
)

// Adapter is the capability interface implemented once per vendor. Adapters
// perform the actual network call for one model attempt; they own their
// vendor-specific wire format and raise a *ProviderError with enough
// metadata for classification rather than returning sentinel values.
//
// Adapters are stateless from the caller's perspective and safe for use
// across concurrent missions. Connection pooling, if any, is encapsulated
// inside the adapter.
type Adapter interface {
	// Name returns the vendor this adapter talks to
	Name() ProviderType

	// Generate performs one completion attempt against the given model.
	// The trace context is attached to outbound request metadata for
	// cross-system log correlation.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
}

// Role is the author of one conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleDeveloper Role = "developer"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a conversation. Content must be non-empty;
// construction fails otherwise.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage constructs a message, rejecting empty content.
func NewMessage(role Role, content string) (Message, error) {
	switch role {
	case RoleSystem, RoleDeveloper, RoleUser, RoleAssistant:
	default:
		return Message{}, fmt.Errorf("unknown message role %q", role)
	}
	if content == "" {
		return Message{}, fmt.Errorf("message content must be non-empty (role=%s)", role)
	}
	return Message{Role: role, Content: content}, nil
}

// OutputFormat is a response-format hint passed to the provider.
type OutputFormat string

const (
	// FormatText requests free-form text output
	FormatText OutputFormat = "text"

	// FormatJSON requests native JSON mode where the provider supports it
	FormatJSON OutputFormat = "json"
)

// StructuredSchema is a caller-supplied structured-output contract:
// a name, a JSON-schema document, and a strict flag.
type StructuredSchema struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
	Strict bool            `json:"strict"`
}

// GenerationConfig holds model sampling parameters. Zero values mean
// "provider default".
type GenerationConfig struct {
	// MaxOutputTokens limits the response length
	MaxOutputTokens int

	// Temperature controls randomness (0.0 to 2.0)
	Temperature float64

	// TopP controls nucleus sampling (0.0 to 1.0]
	TopP float64

	// Stop sequences
	Stop []string
}

// Validate checks sampling parameters against provider-accepted ranges.
func (g GenerationConfig) Validate() error {
	if g.MaxOutputTokens < 0 {
		return fmt.Errorf("max output tokens must be positive, got %d", g.MaxOutputTokens)
	}
	if g.Temperature < 0 || g.Temperature > 2.0 {
		return fmt.Errorf("temperature must be in [0.0, 2.0], got %v", g.Temperature)
	}
	if g.TopP < 0 || g.TopP > 1.0 {
		return fmt.Errorf("top_p must be in (0.0, 1.0], got %v", g.TopP)
	}
	return nil
}

// Prompt is the full input to one reasoning call. It is passed by value to
// the router and reused unchanged across fallback attempts against
// different models.
type Prompt struct {
	// Messages in the conversation, in order
	Messages []Message

	// Generation holds sampling parameters
	Generation GenerationConfig

	// Format is an optional response-format hint
	Format OutputFormat

	// Schema is an optional structured-output contract; implies JSON output
	Schema *StructuredSchema
}

// NewPrompt builds a prompt from a system message and a user message, the
// common case for agent reasoning calls.
func NewPrompt(system, user string) (Prompt, error) {
	sys, err := NewMessage(RoleSystem, system)
	if err != nil {
		return Prompt{}, err
	}
	usr, err := NewMessage(RoleUser, user)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{Messages: []Message{sys, usr}, Format: FormatText}, nil
}

// Validate checks that the prompt can be dispatched at all: at least one
// message, every message non-empty, sampling parameters in range.
func (p Prompt) Validate() error {
	if len(p.Messages) == 0 {
		return fmt.Errorf("prompt must contain at least one message")
	}
	for i, msg := range p.Messages {
		if msg.Content == "" {
			return fmt.Errorf("prompt message %d has empty content", i)
		}
	}
	return p.Generation.Validate()
}

// GenerateRequest carries one attempt's inputs to a provider adapter.
type GenerateRequest struct {
	// Prompt is the conversation to complete
	Prompt Prompt

	// Model is the identity to invoke; its provider field already matched
	// this adapter during routing
	Model ModelIdentity

	// Trace carries the mission correlation id and this attempt's request id
	Trace trace.Context
}

// TokenMetric is the usage accounting reported by one completed provider
// call. Providers may omit usage entirely, in which case the response
// carries a nil metric; a zero field means the provider did not report it.
// Totals are provider-reported and are not reconciled against the parts.
type TokenMetric struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// GenerateResponse is a completed provider call.
type GenerateResponse struct {
	// Model that produced the response
	Model ModelIdentity

	// Content is the generated text; non-empty on success
	Content string

	// Usage is the provider-reported token accounting, when available
	Usage *TokenMetric

	// Structured is the structured-output payload when a schema was
	// supplied and the provider honored it
	Structured json.RawMessage

	// FinishReason indicates why the completion stopped, vendor-normalized
	FinishReason string

	// Latency of the provider call
	Latency time.Duration
}

// AdapterConfig holds common configuration for provider adapters.
type AdapterConfig struct {
	// APIKey for authentication
	APIKey string

	// BaseURL for the API (optional override)
	BaseURL string

	// Timeout for individual HTTP calls
	Timeout time.Duration

	// MaxRetries for transient HTTP failures inside the adapter. The
	// router's fallback unit is "try another model", so this defaults low.
	MaxRetries int

	// RetryDelay between internal retries
	RetryDelay time.Duration
}

// DefaultAdapterConfig returns a sensible default configuration.
func DefaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		Timeout:    60 * time.Second,
		MaxRetries: 1,
		RetryDelay: time.Second,
	}
}
