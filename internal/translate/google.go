package translate

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	translatev2 "google.golang.org/api/translate/v2"
)

// GoogleBackend uses the Cloud Translation v2 API with an API key
type GoogleBackend struct {
	service *translatev2.Service
	source  string
	model   string
}

// NewGoogleBackend creates a new Google Translate backend
func NewGoogleBackend(ctx context.Context, config Config) (*GoogleBackend, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("google: API key is required: %w", ErrMissingCredentials)
	}

	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}

	service, err := translatev2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create translate service: %w", err)
	}

	return &GoogleBackend{
		service: service,
		source:  config.sourceLanguage(),
		model:   config.Model,
	}, nil
}

// Name returns the backend name
func (b *GoogleBackend) Name() string {
	return "google"
}

// Translate translates one text in plain-text mode
func (b *GoogleBackend) Translate(ctx context.Context, text, targetLang string) (string, error) {
	call := b.service.Translations.List([]string{text}, targetLang).
		Source(b.source).
		Format("text").
		Context(ctx)
	if b.model != "" {
		call = call.Model(b.model)
	}

	resp, err := call.Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return "", &APIError{Backend: b.Name(), StatusCode: gerr.Code, Message: gerr.Message}
		}
		return "", fmt.Errorf("google translate: %w", err)
	}

	if len(resp.Translations) == 0 || resp.Translations[0] == nil {
		return "", ErrEmptyTranslation
	}

	out := strings.TrimSpace(html.UnescapeString(resp.Translations[0].TranslatedText))
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return out, nil
}
