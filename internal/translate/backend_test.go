package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func TestIndicTransBackend_Translate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer indic-key" {
			t.Errorf("Expected Bearer indic-key, got %s", r.Header.Get("Authorization"))
		}

		var req indicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "Benefits: Rs 6000" || req.SourceLanguage != "en" || req.TargetLanguage != "hi" {
			t.Errorf("Unexpected request: %+v", req)
		}

		_, _ = w.Write([]byte(`{"translated_text": "लाभ: 6000 रुपये"}`))
	}))
	defer server.Close()

	backend, err := NewIndicTransBackend(Config{IndicURL: server.URL, IndicAPIKey: "indic-key", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	out, err := backend.Translate(context.Background(), "Benefits: Rs 6000", "hi")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "लाभ: 6000 रुपये" {
		t.Errorf("Unexpected translation: %s", out)
	}
}

func TestIndicTransBackend_Translate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "non-200",
			status: http.StatusServiceUnavailable,
			body:   `{"error": "model loading"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("Expected APIError, got %T: %v", err, err)
				}
				if apiErr.StatusCode != http.StatusServiceUnavailable || apiErr.Message != "model loading" {
					t.Errorf("Unexpected APIError: %+v", apiErr)
				}
			},
		},
		{
			name:   "empty translation",
			status: http.StatusOK,
			body:   `{"translated_text": "  "}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrEmptyTranslation) {
					t.Errorf("Expected ErrEmptyTranslation, got %v", err)
				}
			},
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `not json`,
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Error("Expected error, got nil")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			backend, err := NewIndicTransBackend(Config{IndicURL: server.URL, IndicAPIKey: "k"})
			if err != nil {
				t.Fatalf("Failed to create backend: %v", err)
			}
			_, err = backend.Translate(context.Background(), "text", "mr")
			tt.check(t, err)
		})
	}
}

func TestNewIndicTransBackend_RequiresCredentials(t *testing.T) {
	if _, err := NewIndicTransBackend(Config{IndicAPIKey: "k"}); err == nil {
		t.Error("Expected error without URL")
	}
	if _, err := NewIndicTransBackend(Config{IndicURL: "http://x"}); err == nil {
		t.Error("Expected error without API key")
	}
}

func TestGoogleBackend_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"translations": [{"translatedText": "किसान &amp; खेती"}]}}`))
	}))
	defer server.Close()

	backend, err := NewGoogleBackend(context.Background(), Config{APIKey: "g-key", BaseURL: server.URL + "/"})
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	out, err := backend.Translate(context.Background(), "Farmers & farming", "hi")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "किसान & खेती" {
		t.Errorf("Unexpected translation: %s", out)
	}
}

func TestGoogleBackend_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "API key not valid"}}`))
	}))
	defer server.Close()

	backend, err := NewGoogleBackend(context.Background(), Config{APIKey: "bad", BaseURL: server.URL + "/"})
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	_, err = backend.Translate(context.Background(), "text", "hi")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403 APIError, got %v", err)
	}
}

func TestOpenAIBackend_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, "to Marathi") {
			t.Errorf("Unexpected messages: %+v", req.Messages)
		}

		resp := openai.ChatCompletionResponse{
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "\"पात्रता\"\n"}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	backend, err := NewOpenAIBackend(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	out, err := backend.Translate(context.Background(), "Eligibility", "mr")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "पात्रता" {
		t.Errorf("Unexpected translation: %q", out)
	}
}

func TestOpenAIBackend_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`))
	}))
	defer server.Close()

	backend, err := NewOpenAIBackend(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	if _, err := backend.Translate(context.Background(), "text", "hi"); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestAnthropicBackend_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "a-key" {
			t.Errorf("Expected x-api-key a-key, got %s", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("Expected anthropic-version header")
		}

		var req anthropicRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.System == "" || req.MaxTokens < 256 {
			t.Errorf("Unexpected request: %+v", req)
		}

		_, _ = w.Write([]byte(`{"content": [{"type": "text", "text": "अंतिम तिथि: 31 मार्च"}], "model": "claude", "stop_reason": "end_turn"}`))
	}))
	defer server.Close()

	backend, err := NewAnthropicBackend(Config{APIKey: "a-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	out, err := backend.Translate(context.Background(), "Deadline: 31 March", "hi")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "अंतिम तिथि: 31 मार्च" {
		t.Errorf("Unexpected translation: %s", out)
	}
}

func TestAnthropicBackend_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`))
	}))
	defer server.Close()

	backend, _ := NewAnthropicBackend(Config{APIKey: "bad", BaseURL: server.URL})
	_, err := backend.Translate(context.Background(), "text", "hi")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || !strings.Contains(apiErr.Message, "invalid x-api-key") {
		t.Errorf("Unexpected APIError: %+v", apiErr)
	}
}

func TestOllamaBackend_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}
		var req ollamaRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "aya" || req.Stream {
			t.Errorf("Unexpected request: %+v", req)
		}
		_, _ = w.Write([]byte(`{"model": "aya", "response": " श्रेणी: कृषि ", "done": true}`))
	}))
	defer server.Close()

	backend, err := NewOllamaBackend(Config{Model: "aya", BaseURL: server.URL + "/"})
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	out, err := backend.Translate(context.Background(), "Category: Agriculture", "hi")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "श्रेणी: कृषि" {
		t.Errorf("Unexpected translation: %q", out)
	}
}

func TestOllamaBackend_ModelNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "model 'aya' not found"}`))
	}))
	defer server.Close()

	backend, _ := NewOllamaBackend(Config{Model: "aya", BaseURL: server.URL})
	_, err := backend.Translate(context.Background(), "text", "hi")

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 APIError, got %v", err)
	}
}

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantNil  bool
		wantErr  bool
		wantName string
	}{
		{name: "disabled", config: Config{}, wantNil: true},
		{name: "none", config: Config{General: "none"}, wantNil: true},
		{name: "unknown", config: Config{General: "babelfish"}, wantErr: true},
		{name: "openai without key", config: Config{General: "openai"}, wantErr: true},
		{name: "google without key", config: Config{General: "google"}, wantErr: true},
		{name: "ollama without model", config: Config{General: "ollama"}, wantErr: true},
		{name: "openai", config: Config{General: "OpenAI", APIKey: "k"}, wantName: "openai"},
		{name: "claude alias", config: Config{General: "claude", APIKey: "k"}, wantName: "anthropic"},
		{name: "ollama", config: Config{General: "ollama", Model: "aya"}, wantName: "ollama"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := NewBackend(context.Background(), tt.config)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.wantNil {
				if backend != nil {
					t.Errorf("Expected nil backend, got %s", backend.Name())
				}
				return
			}
			if backend == nil || backend.Name() != tt.wantName {
				t.Errorf("Expected backend %s, got %v", tt.wantName, backend)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Benefits: Rs 6000", "en", "hi")
	if !strings.Contains(prompt, "from English to Hindi") {
		t.Errorf("Expected language names in prompt, got %q", prompt)
	}
	if !strings.HasSuffix(prompt, "Benefits: Rs 6000") {
		t.Errorf("Expected text at the end of the prompt, got %q", prompt)
	}

	if got := LanguageName("xx"); got != "xx" {
		t.Errorf("Expected unknown code to pass through, got %s", got)
	}
}
