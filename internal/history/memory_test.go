package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunqiangwu/etf-grid-master/internal/model"
)

func record(i int) Record {
	return Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Date(2024, time.March, 1, 0, 0, i, 0, time.UTC),
		Config: model.GridConfig{
			Symbol:           fmt.Sprintf("sym-%d", i),
			InitialBasePrice: 1.0,
			GridMode:         model.GridModePercentage,
			RiseSellPercent:  5,
			FallBuyPercent:   -5,
			BuyAmount:        1000,
			SellAmount:       1000,
			InitialCash:      10000,
		},
		Summary: Summary{TotalReturn: float64(i), TradeCount: i},
	}
}

func TestMemoryStore_NewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(ctx, record(i)))
	}

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "sym-2", records[0].Config.Symbol)
	assert.Equal(t, "sym-0", records[2].Config.Symbol)
}

func TestMemoryStore_EvictsOldestBeyondLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	for i := 0; i < DefaultLimit+5; i++ {
		require.NoError(t, store.Save(ctx, record(i)))
	}

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, DefaultLimit)
	assert.Equal(t, fmt.Sprintf("sym-%d", DefaultLimit+4), records[0].Config.Symbol)
	assert.Equal(t, "sym-5", records[DefaultLimit-1].Config.Symbol)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(5)

	keep := record(1)
	drop := record(2)
	require.NoError(t, store.Save(ctx, keep))
	require.NoError(t, store.Save(ctx, drop))

	require.NoError(t, store.Delete(ctx, drop.ID))
	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, keep.ID, records[0].ID)

	assert.ErrorIs(t, store.Delete(ctx, drop.ID), ErrNotFound)
}

func TestMemoryStore_ListCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(5)
	require.NoError(t, store.Save(ctx, record(1)))

	records, err := store.List(ctx)
	require.NoError(t, err)
	records[0].Config.Symbol = "mutated"

	again, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sym-1", again[0].Config.Symbol)
}
