package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type ChatMessage struct {
	Role    string
	Content string
}

type ChatRequest struct {
	Messages    []ChatMessage
	Temperature float32
	MaxTokens   int
}

// ChatCompleter is a single synchronous chat-completion call against one provider.
type ChatCompleter interface {
	CompleteChat(ctx context.Context, req ChatRequest) (string, error)
}

// ChatClientFactory builds a client bound to one API key.
type ChatClientFactory func(ctx context.Context, apiKey string) (ChatCompleter, error)

type ChatClientConfig struct {
	Provider string
	Model    string
	BaseURL  string
}

// IsCredentialError reports whether a provider rejected the API key itself,
// as opposed to a transient or quota failure.
func IsCredentialError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return rejectedStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return rejectedStatus(reqErr.HTTPStatusCode)
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		// Gemini answers an unknown key with 400 API_KEY_INVALID.
		return rejectedStatus(gErr.Code) || strings.Contains(gErr.Message, "API key not valid")
	}
	return false
}

func rejectedStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// NewChatClientFactory picks the provider implementation named by cfg.Provider.
func NewChatClientFactory(cfg ChatClientConfig) (ChatClientFactory, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI, "":
		return func(_ context.Context, apiKey string) (ChatCompleter, error) {
			return NewOpenAIChatClient(apiKey, cfg.Model, cfg.BaseURL), nil
		}, nil
	case ProviderGemini:
		return func(ctx context.Context, apiKey string) (ChatCompleter, error) {
			return NewGeminiChatClient(context.WithoutCancel(ctx), apiKey, cfg.Model, cfg.BaseURL)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s. Use 'openai' or 'gemini'", ErrUnsupportedLLM, cfg.Provider)
	}
}
