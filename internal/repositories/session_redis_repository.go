package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"tripwizard/internal/models/session_models"
	"tripwizard/pkg/utils"
)

const defaultSessionPrefix = "tripwizard:session:"

// RedisSessionRepository shares sessions between server replicas. API keys are
// sealed before they are written when a sealer is configured.
type RedisSessionRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	sealer *utils.Sealer
}

type RedisOption func(*RedisSessionRepository)

func WithSessionPrefix(prefix string) RedisOption {
	return func(r *RedisSessionRepository) {
		r.prefix = prefix
	}
}

func WithSealer(sealer *utils.Sealer) RedisOption {
	return func(r *RedisSessionRepository) {
		r.sealer = sealer
	}
}

func NewRedisSessionRepository(client *redis.Client, ttl time.Duration, opts ...RedisOption) *RedisSessionRepository {
	r := &RedisSessionRepository{
		client: client,
		prefix: defaultSessionPrefix,
		ttl:    ttl,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisSessionRepository) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisSessionRepository) Save(ctx context.Context, session *session_models.Session) error {
	rec := session.ToRecord()
	if r.sealer != nil {
		sealed, err := r.sealer.Seal(rec.APIKey)
		if err != nil {
			return fmt.Errorf("%w: seal api key: %v", utils.ErrSessionStore, err)
		}
		rec.APIKey = sealed
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: marshal session: %v", utils.ErrSessionStore, err)
	}
	if err := r.client.Set(ctx, r.key(rec.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", utils.ErrSessionStore, err)
	}
	return nil
}

func (r *RedisSessionRepository) Load(ctx context.Context, sessionID string) (*session_models.Session, error) {
	get := r.client.Get(ctx, r.key(sessionID))
	if r.ttl > 0 {
		get = r.client.GetEx(ctx, r.key(sessionID), r.ttl)
	}
	val, err := get.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, utils.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: redis get: %v", utils.ErrSessionStore, err)
	}

	var rec session_models.Record
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("%w: unmarshal session: %v", utils.ErrSessionStore, err)
	}
	if r.sealer != nil {
		plain, err := r.sealer.Open(rec.APIKey)
		if err != nil {
			return nil, fmt.Errorf("%w: open api key: %v", utils.ErrSessionStore, err)
		}
		rec.APIKey = plain
	}

	s, err := session_models.FromRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrSessionStore, err)
	}
	return s, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: redis del: %v", utils.ErrSessionStore, err)
	}
	return nil
}
