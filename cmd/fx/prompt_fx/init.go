package prompt_fx

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"tripwizard/internal/config"
	"tripwizard/internal/services"
	"tripwizard/pkg/metrics"
	"tripwizard/pkg/utils"
)

var Module = fx.Provide(
	ProvideChatClientFactory,
	ProvideResponseService,
	ProvideStageController)

// ProvideChatClientFactory selects the chat provider from LLM_PROVIDER.
func ProvideChatClientFactory(cfg *config.Config, log *zap.Logger) (utils.ChatClientFactory, error) {
	factory, err := utils.NewChatClientFactory(utils.ChatClientConfig{
		Provider: cfg.LLMProvider,
		Model:    cfg.Model,
		BaseURL:  cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat client factory: %w", err)
	}

	log.Info("chat provider configured",
		zap.String("provider", cfg.LLMProvider),
		zap.String("model", cfg.Model),
		zap.Bool("default_api_key", cfg.DefaultAPIKey != ""),
	)
	return factory, nil
}

// ProvideResponseService closes the cached provider clients on shutdown.
func ProvideResponseService(
	lc fx.Lifecycle,
	factory utils.ChatClientFactory,
	cfg *config.Config,
	recorder *metrics.Recorder,
	log *zap.Logger,
) services.ResponseServiceInterface {
	rs := services.NewResponseService(factory, services.ResponseServiceConfig{
		Provider:   cfg.LLMProvider,
		Timeout:    cfg.LLMTimeout,
		MaxClients: cfg.LLMClientsMax,
	}, recorder, log.Named("responses"))

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return rs.Close()
		},
	})
	return rs
}

func ProvideStageController(responses services.ResponseServiceInterface, log *zap.Logger) *services.StageController {
	return services.NewStageController(responses, log.Named("stages"))
}
