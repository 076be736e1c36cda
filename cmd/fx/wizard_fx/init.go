package wizard_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"tripwizard/internal/config"
	"tripwizard/internal/repositories"
	"tripwizard/internal/services"
	"tripwizard/pkg/metrics"
)

var Module = fx.Provide(provideWizardService)

func provideWizardService(
	repo repositories.SessionRepository,
	stages *services.StageController,
	cfg *config.Config,
	recorder *metrics.Recorder,
	log *zap.Logger,
) services.WizardServiceInterface {
	return services.NewWizardService(repo, stages, services.WizardServiceConfig{
		DefaultAPIKey: cfg.DefaultAPIKey,
		Provider:      cfg.LLMProvider,
	}, recorder, log.Named("wizard"))
}
