package db_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"tripwizard/internal/config"
	"tripwizard/internal/infra"
	"tripwizard/internal/models/session_models"
	"tripwizard/internal/repositories"
	mem "tripwizard/pkg/memcache"
	"tripwizard/pkg/utils"
)

const sweepInterval = time.Minute

var Module = fx.Provide(
	provideSessionRepository)

func provideSessionRepository(
	lc fx.Lifecycle,
	cfg *config.Config,
	cache *mem.TTLStore[*session_models.Session],
	log *zap.Logger,
) (repositories.SessionRepository, error) {
	if cfg.SessionStore == config.SessionStoreRedis {
		return provideRedisRepository(lc, cfg, log)
	}

	repo := repositories.NewMemorySessionRepositoryFromStore(cache)
	if cfg.SessionTTL > 0 {
		startSweeper(lc, repo, log)
	}
	log.Info("session store ready", zap.String("store", config.SessionStoreMemory), zap.Duration("ttl", cfg.SessionTTL))
	return repo, nil
}

func provideRedisRepository(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (repositories.SessionRepository, error) {
	client, err := infra.InitRedis(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	var opts []repositories.RedisOption
	if cfg.SessionSecret != "" {
		sealer, err := utils.NewSealer(cfg.SessionSecret)
		if err != nil {
			return nil, err
		}
		opts = append(opts, repositories.WithSealer(sealer))
	} else {
		log.Warn("SESSION_SECRET is not set, API keys are stored in redis as plain text")
	}

	log.Info("session store ready",
		zap.String("store", config.SessionStoreRedis),
		zap.String("addr", cfg.RedisAddr),
		zap.Duration("ttl", cfg.SessionTTL),
	)
	return repositories.NewRedisSessionRepository(client, cfg.SessionTTL, opts...), nil
}

func startSweeper(lc fx.Lifecycle, repo *repositories.MemorySessionRepository, log *zap.Logger) {
	stop := make(chan struct{})
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(sweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if n := repo.Sweep(); n > 0 {
							log.Debug("expired sessions swept", zap.Int("count", n))
						}
					case <-stop:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
