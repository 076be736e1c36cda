package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.uber.org/zap"
	"tripwizard/internal/models/session_models"
	"tripwizard/pkg/metrics"
	"tripwizard/pkg/utils"
)

const (
	// FallbackText replaces the model output whenever a call fails.
	FallbackText = "An error occurred, please try again."

	completionTemperature = 0.7
	completionMaxTokens   = 1500

	defaultMaxClients = 64
)

// PromptRequest is built per call and never stored.
type PromptRequest struct {
	Instruction string
	Context     string
}

// Reply is what the caller gets back from Generate. On failure Text holds
// FallbackText and Err the cause; the history is left untouched.
type Reply struct {
	Text string
	Err  error
}

func (r Reply) Failed() bool { return r.Err != nil }

type ResponseServiceInterface interface {
	Generate(ctx context.Context, apiKey string, req PromptRequest, history *session_models.History) Reply
}

type ResponseServiceConfig struct {
	Provider string
	Timeout  time.Duration
	// MaxClients bounds the per-key client cache; the least recently used
	// client is closed once the bound is exceeded.
	MaxClients int
}

// ResponseService wraps the single chat-completion call. It builds one client
// per API key and reuses it for later calls with the same key, as long as the
// key keeps working.
type ResponseService struct {
	factory  utils.ChatClientFactory
	provider string
	timeout  time.Duration
	metrics  *metrics.Recorder
	logger   *zap.Logger

	mu      sync.Mutex
	clients *simplelru.LRU[string, *cachedClient]
}

// cachedClient counts in-flight calls so an evicted client is closed only
// once the last caller is done with it. Guarded by ResponseService.mu.
type cachedClient struct {
	utils.ChatCompleter
	users     int
	succeeded bool
	retired   bool
}

func NewResponseService(
	factory utils.ChatClientFactory,
	cfg ResponseServiceConfig,
	recorder *metrics.Recorder,
	logger *zap.Logger,
) *ResponseService {
	r := &ResponseService{
		factory:  factory,
		provider: cfg.Provider,
		timeout:  cfg.Timeout,
		metrics:  recorder,
		logger:   logger,
	}
	size := cfg.MaxClients
	if size <= 0 {
		size = defaultMaxClients
	}
	// NewLRU only fails for a non-positive size.
	r.clients, _ = simplelru.NewLRU[string, *cachedClient](size, r.evicted)
	return r
}

func (r *ResponseService) Generate(
	ctx context.Context,
	apiKey string,
	req PromptRequest,
	history *session_models.History,
) Reply {
	if apiKey == "" {
		return r.fail(utils.ErrMissingAPIKey)
	}

	client, err := r.acquire(ctx, apiKey)
	if err != nil {
		return r.fail(err)
	}
	defer r.release(client)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := client.CompleteChat(ctx, utils.ChatRequest{
		Messages:    buildMessages(req, history),
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	})
	took := time.Since(start)
	if err != nil {
		r.metrics.ObserveCompletion(r.provider, metrics.OutcomeFailure, took)
		r.settle(apiKey, client, err)
		return r.fail(err)
	}
	r.metrics.ObserveCompletion(r.provider, metrics.OutcomeSuccess, took)
	r.settle(apiKey, client, nil)

	history.Append(
		session_models.Message{Role: session_models.RoleUser, Content: req.Instruction},
		session_models.Message{Role: session_models.RoleAssistant, Content: text},
	)
	r.logger.Debug("completion succeeded",
		zap.String("provider", r.provider),
		zap.Duration("took", took),
		zap.Int("history_len", history.Len()),
	)
	return Reply{Text: text}
}

func (r *ResponseService) fail(err error) Reply {
	r.logger.Warn("completion failed", zap.String("provider", r.provider), zap.Error(err))
	return Reply{Text: FallbackText, Err: err}
}

// acquire hands out the cached client for apiKey, building one on a miss.
// Every acquire must be paired with release.
func (r *ResponseService) acquire(ctx context.Context, apiKey string) (*cachedClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients.Get(apiKey); ok {
		c.users++
		return c, nil
	}
	completer, err := r.factory(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", r.provider, err)
	}
	c := &cachedClient{ChatCompleter: completer, users: 1}
	r.clients.Add(apiKey, c)
	return c, nil
}

func (r *ResponseService) release(c *cachedClient) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.users--
	if c.retired && c.users == 0 {
		r.closeClient(c)
	}
}

// settle records the outcome of a call. A client that has never completed a
// call, or whose key the provider rejected, is dropped from the cache so a
// mistyped key is not held on to.
func (r *ResponseService) settle(apiKey string, c *cachedClient, callErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callErr == nil {
		c.succeeded = true
		return
	}
	if c.succeeded && !utils.IsCredentialError(callErr) && !errors.Is(callErr, utils.ErrEmptyCompletion) {
		return
	}
	if cur, ok := r.clients.Peek(apiKey); ok && cur == c {
		r.clients.Remove(apiKey)
	}
}

// evicted runs inside LRU calls, which all happen with r.mu held.
func (r *ResponseService) evicted(_ string, c *cachedClient) {
	c.retired = true
	if c.users == 0 {
		r.closeClient(c)
	}
}

func (r *ResponseService) closeClient(c *cachedClient) {
	closer, ok := c.ChatCompleter.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		r.logger.Warn("failed to close chat client", zap.String("provider", r.provider), zap.Error(err))
	}
}

// CachedClients reports how many API keys currently have a live client.
func (r *ResponseService) CachedClients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clients.Len()
}

// Close drops every cached client. Idle clients are closed now, clients
// still serving a call are closed when that call returns.
func (r *ResponseService) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients.Purge()
	return nil
}

// buildMessages lays out [system:context] + history + [user:instruction].
func buildMessages(req PromptRequest, history *session_models.History) []utils.ChatMessage {
	past := history.Messages()
	msgs := make([]utils.ChatMessage, 0, len(past)+2)
	if req.Context != "" {
		msgs = append(msgs, utils.ChatMessage{Role: utils.ChatRoleSystem, Content: req.Context})
	}
	for _, m := range past {
		msgs = append(msgs, utils.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	return append(msgs, utils.ChatMessage{Role: utils.ChatRoleUser, Content: req.Instruction})
}
