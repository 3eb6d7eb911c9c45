package gemini

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

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Adapter implements the provider adapter for the Gemini generateContent
// API.
type Adapter struct {
	config     providers.AdapterConfig
	httpClient *http.Client
}

// NewAdapter creates a new Gemini adapter.
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
	return providers.ProviderGemini
}

// Generate performs one generateContent attempt.
func (a *Adapter) Generate(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	startTime := time.Now()

	body, err := json.Marshal(a.buildRequest(req))
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "MARSHAL_ERROR", "failed to marshal request", 0, false, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", a.config.BaseURL, req.Model.Name)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "REQUEST_ERROR", "failed to create request", 0, false, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", a.config.APIKey)
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

	var parsed generateContentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, providers.NewProviderError(a.Name(), "UNMARSHAL_ERROR", "failed to unmarshal response", httpResp.StatusCode, true, err)
	}

	return a.toResponse(&parsed, req, time.Since(startTime))
}

// buildRequest converts the unified prompt into the generateContent shape:
// system/developer turns become the systemInstruction, the rest become
// contents with the assistant role mapped to "model".
func (a *Adapter) buildRequest(req *providers.GenerateRequest) *generateContentRequest {
	out := &generateContentRequest{}

	var systemParts []wirePart
	for _, msg := range req.Prompt.Messages {
		if msg.Role == providers.RoleSystem || msg.Role == providers.RoleDeveloper {
			systemParts = append(systemParts, wirePart{Text: msg.Content})
			continue
		}
		role := "user"
		if msg.Role == providers.RoleAssistant {
			role = "model"
		}
		out.Contents = append(out.Contents, wireContent{Role: role, Parts: []wirePart{{Text: msg.Content}}})
	}
	if len(systemParts) > 0 {
		out.SystemInstruction = &wireContent{Parts: systemParts}
	}

	gen := req.Prompt.Generation
	cfg := &generationConfig{}
	if gen.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = &gen.MaxOutputTokens
	}
	if gen.Temperature > 0 {
		cfg.Temperature = &gen.Temperature
	}
	if gen.TopP > 0 {
		cfg.TopP = &gen.TopP
	}
	if len(gen.Stop) > 0 {
		cfg.StopSequences = gen.Stop
	}

	switch {
	case req.Prompt.Schema != nil:
		cfg.ResponseMimeType = "application/json"
		cfg.ResponseJSONSchema = req.Prompt.Schema.Schema
	case req.Prompt.Format == providers.FormatJSON:
		cfg.ResponseMimeType = "application/json"
	}
	out.GenerationConfig = cfg

	return out
}

func (a *Adapter) toResponse(parsed *generateContentResponse, req *providers.GenerateRequest, latency time.Duration) (*providers.GenerateResponse, error) {
	if len(parsed.Candidates) == 0 {
		return nil, providers.NewProviderError(a.Name(), "EMPTY_RESPONSE", "response did not contain candidates", 0, true, nil)
	}

	candidate := parsed.Candidates[0]
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	content := strings.TrimSpace(sb.String())
	if content == "" {
		return nil, providers.NewProviderError(a.Name(), "EMPTY_RESPONSE", "response did not contain text output", 0, true, nil)
	}

	resp := &providers.GenerateResponse{
		Model:        providers.ModelIdentity{Provider: providers.ProviderGemini, Name: req.Model.Name},
		Content:      content,
		FinishReason: strings.ToLower(candidate.FinishReason),
		Latency:      latency,
	}

	if parsed.UsageMetadata != nil {
		resp.Usage = &providers.TokenMetric{
			InputTokens:  parsed.UsageMetadata.PromptTokenCount,
			OutputTokens: parsed.UsageMetadata.CandidatesTokenCount,
			TotalTokens:  parsed.UsageMetadata.TotalTokenCount,
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
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
		return providers.NewProviderError(a.Name(), "UNKNOWN_ERROR", string(body), statusCode, providers.RetryableStatus(statusCode), nil)
	}

	return providers.NewProviderError(
		a.Name(),
		errResp.Error.Status,
		errResp.Error.Message,
		statusCode,
		providers.RetryableStatus(statusCode),
		errors.New(errResp.Error.Message),
	)
}

// Wire types

type generateContentRequest struct {
	Contents          []wireContent     `json:"contents"`
	SystemInstruction *wireContent      `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type wirePart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens    *int            `json:"maxOutputTokens,omitempty"`
	Temperature        *float64        `json:"temperature,omitempty"`
	TopP               *float64        `json:"topP,omitempty"`
	StopSequences      []string        `json:"stopSequences,omitempty"`
	ResponseMimeType   string          `json:"responseMimeType,omitempty"`
	ResponseJSONSchema json.RawMessage `json:"responseJsonSchema,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      wireContent `json:"content"`
		FinishReason string      `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}
