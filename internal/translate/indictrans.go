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

// IndicTransBackend calls a hosted IndicTrans API for Indian languages
type IndicTransBackend struct {
	url        string
	apiKey     string
	source     string
	httpClient *http.Client
}

type indicRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

type indicResponse struct {
	TranslatedText string `json:"translated_text"`
}

type indicError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// NewIndicTransBackend creates a new IndicTrans backend
func NewIndicTransBackend(config Config) (*IndicTransBackend, error) {
	if config.IndicURL == "" {
		return nil, fmt.Errorf("indictrans: API URL is required: %w", ErrMissingCredentials)
	}
	if config.IndicAPIKey == "" {
		return nil, fmt.Errorf("indictrans: API key is required: %w", ErrMissingCredentials)
	}

	return &IndicTransBackend{
		url:        strings.TrimSuffix(config.IndicURL, "/"),
		apiKey:     config.IndicAPIKey,
		source:     config.sourceLanguage(),
		httpClient: config.httpClient(30 * time.Second),
	}, nil
}

// Name returns the backend name
func (b *IndicTransBackend) Name() string {
	return "indictrans"
}

// Translate posts one text to the IndicTrans API
func (b *IndicTransBackend) Translate(ctx context.Context, text, targetLang string) (string, error) {
	body, err := json.Marshal(indicRequest{
		Text:           text,
		SourceLanguage: b.source,
		TargetLanguage: targetLang,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)

	httpResp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		apiErr := &APIError{Backend: b.Name(), StatusCode: httpResp.StatusCode}
		var e indicError
		if err := json.Unmarshal(respBody, &e); err == nil {
			apiErr.Message = firstNonEmpty(e.Error, e.Message, e.Detail)
		}
		return "", apiErr
	}

	var resp indicResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	out := strings.TrimSpace(resp.TranslatedText)
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
