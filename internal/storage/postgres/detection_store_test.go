package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eth-token-sniper/internal/storage"
)

func sampleDetection(txHash, token string, block int64) *storage.Detection {
	return &storage.Detection{
		TxHash:     txHash,
		Token:      token,
		Block:      block,
		Strategy:   "data",
		Verified:   true,
		DetectedAt: 1_756_000_000,
	}
}

func TestDetectionStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDetectionStore(pool)
	ctx := context.Background()

	d := sampleDetection("0xAAA1", "0xToken1", 100)
	require.NoError(t, store.Insert(ctx, d))

	got, err := store.GetByTxHash(ctx, "0xaaa1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	// Hashes and addresses are stored lowercased.
	assert.Equal(t, "0xaaa1", got[0].TxHash)
	assert.Equal(t, "0xtoken1", got[0].Token)
	assert.Equal(t, int64(100), got[0].Block)
	assert.Equal(t, "data", got[0].Strategy)
	assert.True(t, got[0].Verified)
	assert.Equal(t, int64(1_756_000_000), got[0].DetectedAt)
}

func TestDetectionStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDetectionStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, sampleDetection("0xaaa1", "0xtoken1", 100)))

	err := store.Insert(ctx, sampleDetection("0xAAA1", "0xtoken2", 101))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	other := sampleDetection("0xaaa1", "0xtoken1", 100)
	other.Strategy = "topic"
	assert.NoError(t, store.Insert(ctx, other))
}

func TestDetectionStore_GetByKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDetectionStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, sampleDetection("0xaaa1", "0xtoken1", 100)))

	got, err := store.GetByKey(ctx, "0xAAA1", "data")
	require.NoError(t, err)
	assert.Equal(t, "0xtoken1", got.Token)

	_, err = store.GetByKey(ctx, "0xaaa1", "topic")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.GetByKey(ctx, "0xmissing", "data")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDetectionStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDetectionStore(pool)
	ctx := context.Background()

	assert.ErrorIs(t, store.Insert(ctx, nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Insert(ctx, &storage.Detection{TxHash: "0xaaa1"}), storage.ErrInvalidInput)
}

func TestDetectionStore_GetByToken(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDetectionStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, sampleDetection("0xaaa1", "0xtoken1", 100)))
	require.NoError(t, store.Insert(ctx, sampleDetection("0xaaa2", "0xtoken2", 101)))
	require.NoError(t, store.Insert(ctx, sampleDetection("0xaaa3", "0xtoken1", 102)))

	got, err := store.GetByToken(ctx, "0xToken1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "0xaaa1", got[0].TxHash)
	assert.Equal(t, "0xaaa3", got[1].TxHash)
}

func TestDetectionStore_GetByBlockRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDetectionStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, sampleDetection("0xaaa1", "0xtoken1", 100)))
	require.NoError(t, store.Insert(ctx, sampleDetection("0xaaa2", "0xtoken2", 150)))
	require.NoError(t, store.Insert(ctx, sampleDetection("0xaaa3", "0xtoken3", 200)))

	got, err := store.GetByBlockRange(ctx, 100, 150)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(100), got[0].Block)
	assert.Equal(t, int64(150), got[1].Block)

	empty, err := store.GetByBlockRange(ctx, 300, 400)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
