// Package translate produces per-language copies of scheme records.
package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/yojana/internal/model"
	"github.com/ppiankov/yojana/internal/util"
)

// Backend translates text into a target language
type Backend interface {
	// Name returns the backend name
	Name() string

	// Translate returns text rendered in targetLang
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

var (
	// ErrNoBackend means no configured backend can serve a language
	ErrNoBackend = errors.New("no translation backend configured")

	// ErrEmptyTranslation means a backend answered without any text
	ErrEmptyTranslation = errors.New("empty translation")

	// ErrMissingCredentials is returned when a backend lacks its API key or URL
	ErrMissingCredentials = errors.New("missing credentials")
)

// APIError is a non-200 answer from a translation service
type APIError struct {
	Backend    string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s API error (%d)", e.Backend, e.StatusCode)
	}
	return fmt.Sprintf("%s API error (%d): %s", e.Backend, e.StatusCode, e.Message)
}

// Config holds backend configuration
type Config struct {
	// General backend name: "google", "openai", "anthropic", "ollama", ""
	General string

	// Model name for LLM backends
	Model string

	// APIKey for the general backend
	APIKey string

	// BaseURL overrides the general backend endpoint
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// SourceLanguage of canonical records
	SourceLanguage string

	// IndicTrans endpoint, key and supported target languages
	IndicURL       string
	IndicAPIKey    string
	IndicLanguages []string

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// ConfigFromModel converts the translate and HTTP sections into a backend Config
func ConfigFromModel(tc model.TranslateConfig, hc model.HTTPConfig) Config {
	return Config{
		General:        tc.General,
		Model:          tc.Model,
		APIKey:         tc.APIKey,
		BaseURL:        tc.BaseURL,
		Timeout:        tc.Timeout,
		SourceLanguage: tc.SourceLanguage,
		IndicURL:       tc.IndicURL,
		IndicAPIKey:    tc.IndicAPIKey,
		IndicLanguages: tc.IndicLanguages,
		HTTPProxy:      hc.HTTPProxy,
		HTTPSProxy:     hc.HTTPSProxy,
		NoProxy:        hc.NoProxy,
	}
}

func (c Config) sourceLanguage() string {
	if c.SourceLanguage == "" {
		return "en"
	}
	return c.SourceLanguage
}

func (c Config) httpClient(defaultTimeout time.Duration) *http.Client {
	timeout := time.Duration(c.Timeout) * time.Second
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return util.NewHTTPClient(timeout, c.HTTPProxy, c.HTTPSProxy, c.NoProxy)
}

// NewBackend creates the general backend named in the configuration.
// An empty name returns nil: no general backend.
func NewBackend(ctx context.Context, config Config) (Backend, error) {
	switch strings.ToLower(config.General) {
	case "google":
		return NewGoogleBackend(ctx, config)

	case "openai":
		return NewOpenAIBackend(config)

	case "anthropic", "claude":
		return NewAnthropicBackend(config)

	case "ollama":
		return NewOllamaBackend(config)

	case "", "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown translation backend: %s (supported: google, openai, anthropic, ollama)", config.General)
	}
}

// NewRouterFromConfig wires IndicTrans (when credentials are present) in
// front of the configured general backend. A general backend without
// credentials is dropped when IndicTrans can serve on its own.
func NewRouterFromConfig(ctx context.Context, config Config, opts ...RouterOption) (*Router, error) {
	var (
		specialized Backend
		err         error
	)
	if config.IndicAPIKey != "" && config.IndicURL != "" {
		specialized, err = NewIndicTransBackend(config)
		if err != nil {
			return nil, err
		}
	}

	general, err := NewBackend(ctx, config)
	var skipped error
	if err != nil {
		if specialized == nil || !errors.Is(err, ErrMissingCredentials) {
			return nil, err
		}
		general, skipped = nil, err
	}

	r, err := NewRouter(specialized, config.IndicLanguages, general, opts...)
	if err != nil {
		return nil, err
	}
	if skipped != nil {
		r.logger.Warn().Err(skipped).Msg("general backend disabled, only IndicTrans languages will be translated")
	}
	return r, nil
}

var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"mr": "Marathi",
	"bn": "Bengali",
	"gu": "Gujarati",
	"kn": "Kannada",
	"ml": "Malayalam",
	"or": "Odia",
	"pa": "Punjabi",
	"ta": "Tamil",
	"te": "Telugu",
	"ur": "Urdu",
	"as": "Assamese",
}

// LanguageName returns the English name of a language code, or the code itself
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

const systemPrompt = "You are a professional translator of Indian government scheme documents. " +
	"Translate faithfully. Keep scheme names, numbers, amounts and dates intact. " +
	"Reply with the translation only, without notes or quotation marks."

// BuildPrompt constructs the user prompt for LLM translation backends
func BuildPrompt(text, sourceLang, targetLang string) string {
	return fmt.Sprintf("Translate the following text from %s to %s.\n\n%s",
		LanguageName(sourceLang), LanguageName(targetLang), text)
}

// cleanOutput trims whitespace and surrounding quotes some models add
func cleanOutput(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
