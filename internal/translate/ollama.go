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

// OllamaBackend translates with a local Ollama model
type OllamaBackend struct {
	baseURL    string
	model      string
	source     string
	httpClient *http.Client
}

// Ollama API structures
type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	System  string        `json:"system,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"` // Max tokens
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaBackend creates a new Ollama backend
func NewOllamaBackend(config Config) (*OllamaBackend, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("ollama model must be specified (e.g., llama3.1:8b, aya)")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	return &OllamaBackend{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      config.Model,
		source:     config.sourceLanguage(),
		httpClient: config.httpClient(60 * time.Second),
	}, nil
}

// Name returns the backend name
func (b *OllamaBackend) Name() string {
	return "ollama"
}

// Translate asks the local model for a translation of text
func (b *OllamaBackend) Translate(ctx context.Context, text, targetLang string) (string, error) {
	resp, err := b.makeRequest(ctx, ollamaRequest{
		Model:  b.model,
		Prompt: BuildPrompt(text, b.source, targetLang),
		Stream: false,
		System: systemPrompt,
		Options: ollamaOptions{
			Temperature: 0.1,
			NumPredict:  maxTokensFor(text),
		},
	})
	if err != nil {
		return "", err
	}

	out := cleanOutput(resp.Response)
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return out, nil
}

// makeRequest makes an HTTP request to the Ollama API
func (b *OllamaBackend) makeRequest(ctx context.Context, apiReq ollamaRequest) (*ollamaResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/generate", b.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

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
		var e ollamaError
		if err := json.Unmarshal(respBody, &e); err == nil {
			apiErr.Message = e.Error
		}
		return nil, apiErr
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &resp, nil
}
