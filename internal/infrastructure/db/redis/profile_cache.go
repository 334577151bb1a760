package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omsomani/account-system/internal/api/metrics"
	"github.com/omsomani/account-system/internal/core/domain"
)

const profileTTL = 5 * time.Minute

// ProfileCache caches sanitized accounts by ID. It fails safe: a Redis
// outage behaves like a cache miss, never an error, so profile reads fall
// through to the store.
// Key format: profile:<account_id>
type ProfileCache struct {
	client *redis.Client
}

// NewProfileCache creates a ProfileCache wrapping the given Redis client.
func NewProfileCache(client *redis.Client) *ProfileCache {
	return &ProfileCache{client: client}
}

// Get returns the cached account or nil on a miss.
func (p *ProfileCache) Get(ctx context.Context, accountID uint64) (*domain.Account, error) {
	payload, err := p.client.Get(ctx, p.key(accountID)).Bytes()
	if err != nil {
		metrics.ProfileCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}

	var account domain.Account
	if err := json.Unmarshal(payload, &account); err != nil {
		metrics.ProfileCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}

	metrics.ProfileCacheTotal.WithLabelValues("hit").Inc()
	return &account, nil
}

// Set stores the account for profileTTL. The caller must hand in a
// sanitized copy; the hash never reaches the cache.
func (p *ProfileCache) Set(ctx context.Context, account *domain.Account) error {
	payload, err := json.Marshal(account)
	if err != nil {
		return nil
	}
	_ = p.client.Set(ctx, p.key(account.ID), payload, profileTTL).Err()
	return nil
}

// Invalidate drops the cached account after a mutation.
func (p *ProfileCache) Invalidate(ctx context.Context, accountID uint64) error {
	_ = p.client.Del(ctx, p.key(accountID)).Err()
	return nil
}

func (p *ProfileCache) key(accountID uint64) string {
	return fmt.Sprintf("profile:%d", accountID)
}
