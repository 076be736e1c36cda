package config_fx

import (
	"go.uber.org/fx"
	"tripwizard/internal/config"
)

var Module = fx.Provide(config.Load)
