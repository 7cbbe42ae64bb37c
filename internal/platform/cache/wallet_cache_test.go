package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemedix/ledger-backend/internal/core/domain"
)

func testWallet() *domain.UnifiedWallet {
	return &domain.UnifiedWallet{
		WalletID:         "wal_1",
		OwnerID:          "pat-1",
		OwnerType:        domain.OwnerPatient,
		AvailableBalance: decimal.NewFromInt(75),
		Status:           domain.WalletActive,
	}
}

func TestWalletCacheGet_Hit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewWalletCache(client, 5*time.Minute)

	wallet := testWallet()
	data, err := json.Marshal(wallet)
	require.NoError(t, err)
	mock.ExpectGet("wallet:wal_1").SetVal(string(data))

	got, err := cache.Get(context.Background(), "wal_1")
	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "wal_1", got.WalletID)
	assert.True(t, got.AvailableBalance.Equal(decimal.NewFromInt(75)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletCacheGet_Miss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewWalletCache(client, 5*time.Minute)

	mock.ExpectGet("wallet:wal_1").RedisNil()

	got, err := cache.Get(context.Background(), "wal_1")
	assert.NoError(t, err, "A miss is not an error")
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletCacheGet_CorruptEntryIsMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewWalletCache(client, 5*time.Minute)

	mock.ExpectGet("wallet:wal_1").SetVal("not json")

	got, err := cache.Get(context.Background(), "wal_1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestWalletCacheSet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	ttl := 5 * time.Minute
	cache := NewWalletCache(client, ttl)

	wallet := testWallet()
	data, err := json.Marshal(wallet)
	require.NoError(t, err)
	mock.ExpectSet("wallet:wal_1", data, ttl).SetVal("OK")

	assert.NoError(t, cache.Set(context.Background(), wallet))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletCacheInvalidate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewWalletCache(client, 5*time.Minute)

	mock.ExpectDel("wallet:wal_1", "wallet:wal_2").SetVal(2)

	assert.NoError(t, cache.Invalidate(context.Background(), "wal_1", "wal_2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletCacheInvalidate_NoIDs(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewWalletCache(client, 5*time.Minute)

	assert.NoError(t, cache.Invalidate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
