package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/upb/reasoning-gateway/services/providers"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"

	// defaultMaxTokens applies when the prompt sets no limit; the messages
	// API requires max_tokens.
	defaultMaxTokens = 1024
)

// Adapter implements the provider adapter for the Anthropic messages API.
type Adapter struct {
	config     providers.AdapterConfig
	httpClient *http.Client
}

// NewAdapter creates a new Anthropic adapter.
func NewAdapter(config providers.AdapterConfig) *Adapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = providers.DefaultAdapterConfig().Timeout
	}
	return &Adapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Name returns the provider name.
func (a *Adapter) Name() providers.ProviderType {
	return providers.ProviderAnthropic
}

// Generate performs one messages-API attempt.
func (a *Adapter) Generate(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	startTime := time.Now()

	body, err := json.Marshal(a.buildRequest(req))
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "MARSHAL_ERROR", "failed to marshal request", 0, false, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "REQUEST_ERROR", "failed to create request", 0, false, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.config.APIKey)
	httpReq.Header.Set("anthropic-version", apiVersion)
	httpReq.Header.Set("X-Correlation-ID", req.Trace.CorrelationID)
	httpReq.Header.Set("X-Request-ID", req.Trace.RequestID)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		retryable := !errors.Is(err, context.Canceled)
		return nil, providers.NewProviderError(a.Name(), "HTTP_ERROR", "HTTP request failed", 0, retryable, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "READ_ERROR", "failed to read response", httpResp.StatusCode, true, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, a.errorFromResponse(httpResp.StatusCode, respBody)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, providers.NewProviderError(a.Name(), "UNMARSHAL_ERROR", "failed to unmarshal response", httpResp.StatusCode, true, err)
	}

	return a.toResponse(&parsed, req, time.Since(startTime))
}

// buildRequest converts the unified prompt into the messages-API shape:
// system and developer turns are joined into the top-level system field,
// the rest become conversation messages.
func (a *Adapter) buildRequest(req *providers.GenerateRequest) *messagesRequest {
	out := &messagesRequest{
		Model:     req.Model.Name,
		MaxTokens: defaultMaxTokens,
		System:    a.systemText(req.Prompt),
	}

	gen := req.Prompt.Generation
	if gen.MaxOutputTokens > 0 {
		out.MaxTokens = gen.MaxOutputTokens
	}
	if gen.Temperature > 0 {
		out.Temperature = &gen.Temperature
	}
	if gen.TopP > 0 {
		out.TopP = &gen.TopP
	}
	if len(gen.Stop) > 0 {
		out.StopSequences = gen.Stop
	}

	for _, msg := range req.Prompt.Messages {
		if msg.Role == providers.RoleSystem || msg.Role == providers.RoleDeveloper {
			continue
		}
		out.Messages = append(out.Messages, wireMessage{Role: string(msg.Role), Content: msg.Content})
	}

	return out
}

// systemText joins system/developer turns and appends the output hint when
// JSON is requested; the messages API has no native response_format.
func (a *Adapter) systemText(prompt providers.Prompt) string {
	var parts []string
	for _, msg := range prompt.Messages {
		if msg.Role == providers.RoleSystem || msg.Role == providers.RoleDeveloper {
			parts = append(parts, msg.Content)
		}
	}
	system := strings.TrimSpace(strings.Join(parts, "\n"))

	switch {
	case prompt.Schema != nil:
		hint := fmt.Sprintf("Return a valid JSON object only, conforming to this JSON schema (%s): %s",
			prompt.Schema.Name, string(prompt.Schema.Schema))
		system = strings.TrimSpace(system + "\n\n" + hint)
	case prompt.Format == providers.FormatJSON:
		system = strings.TrimSpace(system + "\n\nReturn a valid JSON object only.")
	}
	return system
}

func (a *Adapter) toResponse(parsed *messagesResponse, req *providers.GenerateRequest, latency time.Duration) (*providers.GenerateResponse, error) {
	var sb strings.Builder
	for _, block := range parsed.Content {
		sb.WriteString(block.Text)
	}
	content := strings.TrimSpace(sb.String())
	if content == "" {
		return nil, providers.NewProviderError(a.Name(), "EMPTY_RESPONSE", "response did not contain text output", 0, true, nil)
	}

	resp := &providers.GenerateResponse{
		Model:        providers.ModelIdentity{Provider: providers.ProviderAnthropic, Name: req.Model.Name},
		Content:      content,
		FinishReason: parsed.StopReason,
		Latency:      latency,
	}

	if parsed.Usage != nil {
		resp.Usage = &providers.TokenMetric{
			InputTokens:  parsed.Usage.InputTokens,
			OutputTokens: parsed.Usage.OutputTokens,
			TotalTokens:  parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		}
	}

	if req.Prompt.Schema != nil && json.Valid([]byte(content)) {
		resp.Structured = json.RawMessage(content)
	}

	return resp, nil
}

func (a *Adapter) errorFromResponse(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
		return providers.NewProviderError(a.Name(), "UNKNOWN_ERROR", string(body), statusCode, providers.RetryableStatus(statusCode), nil)
	}

	// overloaded_error is Anthropic's transient capacity signal.
	retryable := providers.RetryableStatus(statusCode) || errResp.Error.Type == "overloaded_error"

	return providers.NewProviderError(
		a.Name(),
		errResp.Error.Type,
		errResp.Error.Message,
		statusCode,
		retryable,
		errors.New(errResp.Error.Message),
	)
}

// Wire types

type messagesRequest struct {
	Model         string        `json:"model"`
	MaxTokens     int           `json:"max_tokens"`
	System        string        `json:"system,omitempty"`
	Messages      []wireMessage `json:"messages"`
	Temperature   *float64      `json:"temperature,omitempty"`
	TopP          *float64      `json:"top_p,omitempty"`
	StopSequences []string      `json:"stop_sequences,omitempty"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}
