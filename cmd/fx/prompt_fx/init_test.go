package prompt_fx_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"tripwizard/cmd/fx/prompt_fx"
	"tripwizard/internal/config"
	"tripwizard/internal/models/session_models"
	"tripwizard/internal/services"
	"tripwizard/pkg/metrics"
	"tripwizard/pkg/mock"
	"tripwizard/pkg/utils"
)

type closableChat struct {
	mock.ChatCompleter
	closed int
}

func (c *closableChat) Close() error {
	c.closed++
	return nil
}

func TestResponseServiceClosesClientsOnStop(t *testing.T) {
	chat := &closableChat{ChatCompleter: mock.ChatCompleter{
		CompleteChatFn: func(context.Context, utils.ChatRequest) (string, error) { return "ok", nil },
	}}
	var responses services.ResponseServiceInterface

	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(&config.Config{LLMProvider: "gemini", LLMClientsMax: 4}, zap.NewNop()),
		fx.Provide(
			func() utils.ChatClientFactory {
				return func(context.Context, string) (utils.ChatCompleter, error) { return chat, nil }
			},
			func() *metrics.Recorder { return metrics.NewRecorder(prometheus.NewRegistry()) },
			prompt_fx.ProvideResponseService,
		),
		fx.Populate(&responses),
	)
	app.RequireStart()

	var h session_models.History
	reply := responses.Generate(context.Background(), "g-key", services.PromptRequest{Instruction: "hi"}, &h)
	require.False(t, reply.Failed())
	assert.Zero(t, chat.closed)

	app.RequireStop()
	assert.Equal(t, 1, chat.closed)
}
