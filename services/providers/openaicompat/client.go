// Package openaicompat implements the chat-completions wire format shared
// by OpenAI, DeepSeek, and internal OpenAI-compatible gateways.
package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/upb/reasoning-gateway/services/providers"
)

// Client performs chat-completion calls against an OpenAI-compatible API on
// behalf of a named provider. The provider name only affects error
// attribution and response identity; the wire format is identical.
type Client struct {
	provider   providers.ProviderType
	config     providers.AdapterConfig
	httpClient *http.Client
}

// NewClient creates a client for the given provider and endpoint
// configuration. BaseURL must include the /v1 segment where the API expects
// one.
func NewClient(provider providers.ProviderType, config providers.AdapterConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = providers.DefaultAdapterConfig().Timeout
	}
	return &Client{
		provider: provider,
		config:   config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Generate performs one chat-completion attempt.
func (c *Client) Generate(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	startTime := time.Now()

	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return nil, providers.NewProviderError(c.provider, "MARSHAL_ERROR", "failed to marshal request", 0, false, err)
	}

	respBody, statusCode, err := c.post(ctx, req, body)
	if err != nil {
		return nil, err
	}

	if statusCode != http.StatusOK {
		return nil, c.errorFromResponse(statusCode, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		// Malformed body from a live endpoint is treated as recoverable.
		return nil, providers.NewProviderError(c.provider, "UNMARSHAL_ERROR", "failed to unmarshal response", statusCode, true, err)
	}

	return c.toResponse(&parsed, req, time.Since(startTime))
}

// post executes the HTTP call with the adapter-internal retry loop for
// transport failures and 5xx responses. The router owns model-level
// fallback; this loop only smooths over blips on a single attempt.
func (c *Client) post(ctx context.Context, req *providers.GenerateRequest, body []byte) ([]byte, int, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.config.RetryDelay * time.Duration(attempt)):
			case <-ctx.Done():
				return nil, 0, providers.NewProviderError(c.provider, "CANCELED", "request canceled", 0, true, ctx.Err())
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, 0, providers.NewProviderError(c.provider, "REQUEST_ERROR", "failed to create request", 0, false, err)
		}
		c.setHeaders(httpReq, req)

		httpResp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, readErr := io.ReadAll(httpResp.Body)
		httpResp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if httpResp.StatusCode >= 500 && attempt < c.config.MaxRetries {
			lastErr = fmt.Errorf("server error: status %d", httpResp.StatusCode)
			continue
		}

		return respBody, httpResp.StatusCode, nil
	}

	retryable := true
	if errors.Is(lastErr, context.Canceled) {
		retryable = false
	}
	return nil, 0, providers.NewProviderError(c.provider, "HTTP_ERROR", "HTTP request failed", 0, retryable, lastErr)
}

func (c *Client) setHeaders(httpReq *http.Request, req *providers.GenerateRequest) {
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("X-Correlation-ID", req.Trace.CorrelationID)
	httpReq.Header.Set("X-Request-ID", req.Trace.RequestID)
}

func (c *Client) buildRequest(req *providers.GenerateRequest) *chatRequest {
	out := &chatRequest{
		Model:    req.Model.Name,
		Messages: make([]chatMessage, len(req.Prompt.Messages)),
	}
	for i, msg := range req.Prompt.Messages {
		out.Messages[i] = chatMessage{Role: string(msg.Role), Content: msg.Content}
	}

	gen := req.Prompt.Generation
	if gen.MaxOutputTokens > 0 {
		out.MaxTokens = &gen.MaxOutputTokens
	}
	if gen.Temperature > 0 {
		out.Temperature = &gen.Temperature
	}
	if gen.TopP > 0 {
		out.TopP = &gen.TopP
	}
	if len(gen.Stop) > 0 {
		out.Stop = gen.Stop
	}

	switch {
	case req.Prompt.Schema != nil:
		out.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaFormat{
				Name:   req.Prompt.Schema.Name,
				Schema: req.Prompt.Schema.Schema,
				Strict: req.Prompt.Schema.Strict,
			},
		}
	case req.Prompt.Format == providers.FormatJSON:
		out.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	return out
}

func (c *Client) toResponse(parsed *chatResponse, req *providers.GenerateRequest, latency time.Duration) (*providers.GenerateResponse, error) {
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, providers.NewProviderError(c.provider, "EMPTY_RESPONSE", "response did not contain text output", 0, true, nil)
	}

	choice := parsed.Choices[0]
	resp := &providers.GenerateResponse{
		Model:        providers.ModelIdentity{Provider: c.provider, Name: req.Model.Name},
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
		Latency:      latency,
	}

	if parsed.Usage != nil {
		resp.Usage = &providers.TokenMetric{
			InputTokens:  parsed.Usage.PromptTokens,
			OutputTokens: parsed.Usage.CompletionTokens,
			TotalTokens:  parsed.Usage.TotalTokens,
		}
	}

	if req.Prompt.Schema != nil && json.Valid([]byte(choice.Message.Content)) {
		resp.Structured = json.RawMessage(choice.Message.Content)
	}

	return resp, nil
}

// errorFromResponse maps a non-200 body into a classified provider error.
// 429 and 5xx are transient; everything else is fatal for this model.
func (c *Client) errorFromResponse(statusCode int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
		return providers.NewProviderError(c.provider, "UNKNOWN_ERROR", string(body), statusCode, providers.RetryableStatus(statusCode), nil)
	}

	return providers.NewProviderError(
		c.provider,
		errResp.Error.Type,
		errResp.Error.Message,
		statusCode,
		providers.RetryableStatus(statusCode),
		errors.New(errResp.Error.Message),
	)
}

// Wire types

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      *int            `json:"max_tokens,omitempty"`
	Temperature    *float64        `json:"temperature,omitempty"`
	TopP           *float64        `json:"top_p,omitempty"`
	Stop           []string        `json:"stop,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type jsonSchemaFormat struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
	Strict bool            `json:"strict"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
