package translate

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIBackend translates through OpenAI chat completions
type OpenAIBackend struct {
	client  *openai.Client
	model   string
	source  string
	timeout time.Duration
}

// NewOpenAIBackend creates a new OpenAI backend
func NewOpenAIBackend(config Config) (*OpenAIBackend, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required: %w", ErrMissingCredentials)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = config.httpClient(30 * time.Second)

	model := config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIBackend{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		source:  config.sourceLanguage(),
		timeout: timeout,
	}, nil
}

// Name returns the backend name
func (b *OpenAIBackend) Name() string {
	return "openai"
}

// Translate asks the model for a translation of text
func (b *OpenAIBackend) Translate(ctx context.Context, text, targetLang string) (string, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	resp, err := b.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(text, b.source, targetLang)},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	out := cleanOutput(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return out, nil
}
