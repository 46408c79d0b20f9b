package usecase

import (
	"context"
	"testing"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/metrics"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistUsecase_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	uc := NewWishlistUsecase(newMemoryStore(t), logger.NewNop())

	first, err := uc.Add(ctx, "u1", "listing-1")
	require.NoError(t, err)
	second, err := uc.Add(ctx, "u1", "listing-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = uc.Add(ctx, "u2", "listing-1")
	require.NoError(t, err)

	entries, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	ok, err := uc.Contains(ctx, "u1", "listing-1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, uc.Remove(ctx, "u1", "listing-1"))
	require.NoError(t, uc.Remove(ctx, "u1", "listing-1"))
	ok, err = uc.Contains(ctx, "u1", "listing-1")
	require.NoError(t, err)
	assert.False(t, ok)

	others, err := uc.List(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestCartUsecase_AddIncrementsAndFloorsQuantity(t *testing.T) {
	ctx := context.Background()
	m := metrics.NewMetricsManager("test")
	uc := NewCartUsecase(newMemoryStore(t), m, logger.NewNop())

	e, err := uc.AddItem(ctx, "u1", "listing-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Quantity)

	e, err = uc.AddItem(ctx, "u1", "listing-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, e.Quantity)

	entries, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Quantity)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CartMutationsTotal.WithLabelValues("add")))
}

func TestCartUsecase_UpdateQuantityRejectsBelowOne(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)
	uc := NewCartUsecase(s, nil, logger.NewNop())
	_, err := uc.AddItem(ctx, "u1", "listing-1", 2)
	require.NoError(t, err)

	_, err = uc.UpdateQuantity(ctx, "u1", "listing-1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	entries, err := store.Load[domain.CartEntry](ctx, s, store.Carts)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Quantity, "rejected update leaves the entry untouched")

	e, err := uc.UpdateQuantity(ctx, "u1", "listing-1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, e.Quantity)

	missing, err := uc.UpdateQuantity(ctx, "u1", "listing-2", 5)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCartUsecase_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	uc := NewCartUsecase(newMemoryStore(t), nil, logger.NewNop())
	for _, l := range []string{"a", "b", "c"} {
		_, err := uc.AddItem(ctx, "u1", l, 1)
		require.NoError(t, err)
	}
	_, err := uc.AddItem(ctx, "u2", "a", 1)
	require.NoError(t, err)

	require.NoError(t, uc.RemoveItem(ctx, "u1", "b"))
	require.NoError(t, uc.RemoveItem(ctx, "u1", "b"))
	entries, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	require.NoError(t, uc.Clear(ctx, "u1"))
	entries, err = uc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = uc.List(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCartUsecase_Total(t *testing.T) {
	ctx := context.Background()
	uc := NewCartUsecase(seededStore(t), nil, logger.NewNop())
	_, err := uc.AddItem(ctx, "u1", "listing-monitor-mindray", 2)
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, "u1", "listing-ot-table", 1)
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, "u1", "listing-gone", 1)
	require.NoError(t, err)

	summary, err := uc.Total(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, summary.Lines, 2)
	assert.Equal(t, 3, summary.Items)
	assert.Equal(t, int64(2*650000+900000), summary.Total)
	assert.Equal(t, []string{"listing-gone"}, summary.Missing)
	assert.Equal(t, []string{"General Surgery"}, summary.Lines[1].Listing.Specialties)
}
