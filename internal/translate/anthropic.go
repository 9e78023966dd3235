package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AnthropicBackend translates through the Anthropic Messages API
type AnthropicBackend struct {
	apiKey     string
	baseURL    string
	model      string
	source     string
	httpClient *http.Client
}

// Anthropic API structures
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
}

type anthropicError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAnthropicBackend creates a new Anthropic backend
func NewAnthropicBackend(config Config) (*AnthropicBackend, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required: %w", ErrMissingCredentials)
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	model := config.Model
	if model == "" {
		model = "claude-3-5-haiku-20241022"
	}

	return &AnthropicBackend{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		source:     config.sourceLanguage(),
		httpClient: config.httpClient(30 * time.Second),
	}, nil
}

// Name returns the backend name
func (b *AnthropicBackend) Name() string {
	return "anthropic"
}

// Translate asks the model for a translation of text
func (b *AnthropicBackend) Translate(ctx context.Context, text, targetLang string) (string, error) {
	resp, err := b.makeRequest(ctx, anthropicRequest{
		Model:     b.model,
		MaxTokens: maxTokensFor(text),
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: BuildPrompt(text, b.source, targetLang)},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", err
	}

	var parts []string
	for _, c := range resp.Content {
		if c.Type == "text" || c.Type == "" {
			parts = append(parts, c.Text)
		}
	}

	out := cleanOutput(strings.Join(parts, ""))
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return out, nil
}

// makeRequest makes an HTTP request to the Anthropic API
func (b *AnthropicBackend) makeRequest(ctx context.Context, apiReq anthropicRequest) (*anthropicResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/messages", b.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", b.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	httpResp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		apiErr := &APIError{Backend: b.Name(), StatusCode: httpResp.StatusCode}
		var e anthropicError
		if err := json.Unmarshal(respBody, &e); err == nil && e.Error.Message != "" {
			apiErr.Message = e.Error.Type + " - " + e.Error.Message
		}
		return nil, apiErr
	}

	var resp anthropicResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &resp, nil
}

// maxTokensFor sizes the completion budget to the input.
// Devanagari output can take several tokens per source word.
func maxTokensFor(text string) int {
	n := len(strings.Fields(text)) * 8
	if n < 256 {
		return 256
	}
	if n > 4096 {
		return 4096
	}
	return n
}
