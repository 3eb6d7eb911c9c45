package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		content string
		wantErr bool
	}{
		{name: "system message", role: RoleSystem, content: "You are helpful."},
		{name: "developer message", role: RoleDeveloper, content: "Prefer short answers."},
		{name: "user message", role: RoleUser, content: "Hello"},
		{name: "assistant message", role: RoleAssistant, content: "Hi there"},
		{name: "empty content rejected", role: RoleUser, content: "", wantErr: true},
		{name: "unknown role rejected", role: Role("tool"), content: "output", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewMessage(tt.role, tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.role, msg.Role)
			assert.Equal(t, tt.content, msg.Content)
		})
	}
}

func TestGenerationConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  GenerationConfig
		wantErr bool
	}{
		{name: "zero value is valid", config: GenerationConfig{}},
		{name: "typical settings", config: GenerationConfig{MaxOutputTokens: 2048, Temperature: 0.7, TopP: 0.9}},
		{name: "temperature at upper bound", config: GenerationConfig{Temperature: 2.0}},
		{name: "temperature above bound", config: GenerationConfig{Temperature: 2.1}, wantErr: true},
		{name: "negative temperature", config: GenerationConfig{Temperature: -0.1}, wantErr: true},
		{name: "top_p above bound", config: GenerationConfig{TopP: 1.5}, wantErr: true},
		{name: "negative max tokens", config: GenerationConfig{MaxOutputTokens: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewPrompt(t *testing.T) {
	prompt, err := NewPrompt("You are a planner.", "Plan the next step.")
	require.NoError(t, err)

	require.Len(t, prompt.Messages, 2)
	assert.Equal(t, RoleSystem, prompt.Messages[0].Role)
	assert.Equal(t, RoleUser, prompt.Messages[1].Role)
	assert.Equal(t, FormatText, prompt.Format)
	assert.NoError(t, prompt.Validate())

	_, err = NewPrompt("", "Plan the next step.")
	assert.Error(t, err)

	_, err = NewPrompt("You are a planner.", "")
	assert.Error(t, err)
}

func TestPromptValidate(t *testing.T) {
	tests := []struct {
		name    string
		prompt  Prompt
		wantErr bool
	}{
		{
			name:    "no messages",
			prompt:  Prompt{},
			wantErr: true,
		},
		{
			name: "empty message content",
			prompt: Prompt{Messages: []Message{
				{Role: RoleUser, Content: ""},
			}},
			wantErr: true,
		},
		{
			name: "invalid sampling config",
			prompt: Prompt{
				Messages:   []Message{{Role: RoleUser, Content: "hi"}},
				Generation: GenerationConfig{Temperature: 3.0},
			},
			wantErr: true,
		},
		{
			name: "valid prompt",
			prompt: Prompt{
				Messages: []Message{
					{Role: RoleSystem, Content: "You are helpful."},
					{Role: RoleUser, Content: "hi"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.prompt.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDefaultAdapterConfig(t *testing.T) {
	cfg := DefaultAdapterConfig()
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
}
