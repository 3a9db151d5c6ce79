package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-admission/internal/domain"
)

const (
	userKeyPrefix     = "ticket-admission:user:"
	accountManagerKey = "ticket-admission:account-manager"
)

// CachedUserRepository serves user lookups from Redis before falling back to
// the wrapped repository. Only found users are cached; absence is always
// confirmed against the source. Redis failures are logged and bypassed.
type CachedUserRepository struct {
	next   UserRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepository wraps next. A nil client or non-positive ttl returns
// next unchanged.
func NewCachedUserRepository(next UserRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) UserRepository {
	if client == nil || ttl <= 0 {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedUserRepository{next: next, client: client, ttl: ttl, logger: logger}
}

func (r *CachedUserRepository) GetByUsername(ctx context.Context, username string) (domain.User, bool, error) {
	return r.lookup(ctx, userKeyPrefix+username, func(ctx context.Context) (domain.User, bool, error) {
		return r.next.GetByUsername(ctx, username)
	})
}

func (r *CachedUserRepository) GetAccountManager(ctx context.Context) (domain.User, bool, error) {
	return r.lookup(ctx, accountManagerKey, r.next.GetAccountManager)
}

func (r *CachedUserRepository) lookup(ctx context.Context, key string, load func(context.Context) (domain.User, bool, error)) (domain.User, bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var user domain.User
		jsonErr := json.Unmarshal(raw, &user)
		if jsonErr == nil {
			return user, true, nil
		}
		r.logger.Warn("discarding corrupt cached user", zap.String("key", key), zap.Error(jsonErr))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("user cache read failed", zap.String("key", key), zap.Error(err))
	}

	user, found, err := load(ctx)
	if err != nil || !found {
		return user, found, err
	}

	if payload, err := json.Marshal(user); err == nil {
		if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.logger.Warn("user cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return user, true, nil
}
