package controllers_fx

import (
	"go.uber.org/fx"
	"tripwizard/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewWizardController))
