// Package mock provides test doubles for wizard interfaces using function fields.
package mock

import (
	"context"
	"sync"

	"tripwizard/pkg/utils"
)

var _ utils.ChatCompleter = (*ChatCompleter)(nil)

// ChatCompleter is a test double for utils.ChatCompleter.
// Set CompleteChatFn before calling CompleteChat. Every request is recorded.
type ChatCompleter struct {
	CompleteChatFn func(ctx context.Context, req utils.ChatRequest) (string, error)

	mu       sync.Mutex
	requests []utils.ChatRequest
}

// CompleteChat records req and delegates to CompleteChatFn.
func (c *ChatCompleter) CompleteChat(ctx context.Context, req utils.ChatRequest) (string, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()
	return c.CompleteChatFn(ctx, req)
}

// Requests returns the requests seen so far.
func (c *ChatCompleter) Requests() []utils.ChatRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]utils.ChatRequest, len(c.requests))
	copy(out, c.requests)
	return out
}

// Calls returns how many times CompleteChat ran.
func (c *ChatCompleter) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

// Factory returns a utils.ChatClientFactory that always hands out c.
func (c *ChatCompleter) Factory() utils.ChatClientFactory {
	return func(context.Context, string) (utils.ChatCompleter, error) {
		return c, nil
	}
}

// Replying returns a ChatCompleter that answers every call with text.
func Replying(text string) *ChatCompleter {
	return &ChatCompleter{
		CompleteChatFn: func(context.Context, utils.ChatRequest) (string, error) {
			return text, nil
		},
	}
}

// Failing returns a ChatCompleter that fails every call with err.
func Failing(err error) *ChatCompleter {
	return &ChatCompleter{
		CompleteChatFn: func(context.Context, utils.ChatRequest) (string, error) {
			return "", err
		},
	}
}
