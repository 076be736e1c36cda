package memcache_fx

import (
	"go.uber.org/fx"
	"tripwizard/internal/config"
	"tripwizard/internal/models/session_models"
	mem "tripwizard/pkg/memcache"
)

var Module = fx.Provide(provideSessionCache)

func provideSessionCache(cfg *config.Config) *mem.TTLStore[*session_models.Session] {
	return mem.NewTTLStore[*session_models.Session](cfg.SessionTTL)
}
