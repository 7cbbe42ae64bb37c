package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/telemedix/ledger-backend/internal/core/domain"
)

const walletKeyPrefix = "wallet:"

// WalletCache is a read-through cache for wallet projections. Entries are
// invalidated by the batch engine in the same code path that mutates the
// underlying projection, so a stale read window is bounded by the TTL only
// when invalidation itself fails.
type WalletCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWalletCache creates a wallet cache backed by the given Redis client.
func NewWalletCache(client *redis.Client, ttl time.Duration) *WalletCache {
	return &WalletCache{client: client, ttl: ttl}
}

// Get returns the cached wallet, or (nil, nil) on a miss.
func (c *WalletCache) Get(ctx context.Context, walletID string) (*domain.UnifiedWallet, error) {
	data, err := c.client.Get(ctx, walletKeyPrefix+walletID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var wallet domain.UnifiedWallet
	if err := json.Unmarshal(data, &wallet); err != nil {
		// A corrupt entry is treated as a miss; the next Set overwrites it.
		return nil, nil
	}
	return &wallet, nil
}

// Set stores the wallet projection under its ID.
func (c *WalletCache) Set(ctx context.Context, wallet *domain.UnifiedWallet) error {
	data, err := json.Marshal(wallet)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, walletKeyPrefix+wallet.WalletID, data, c.ttl).Err()
}

// Invalidate drops the cached projections for the given wallet IDs.
func (c *WalletCache) Invalidate(ctx context.Context, walletIDs ...string) error {
	if len(walletIDs) == 0 {
		return nil
	}
	keys := make([]string, len(walletIDs))
	for i, id := range walletIDs {
		keys[i] = walletKeyPrefix + id
	}
	return c.client.Del(ctx, keys...).Err()
}
