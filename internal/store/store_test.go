package store

import (
	"context"
	"errors"
	"testing"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// racingBackend simulates another writer that commits between our read and
// our write for the first n compare-and-swap attempts.
type racingBackend struct {
	*MemoryBackend
	races int
}

func (b *racingBackend) Save(ctx context.Context, c Collection, data []byte, expected int64) (int64, error) {
	if expected != AnyVersion && b.races > 0 {
		b.races--
		snap, err := b.MemoryBackend.Load(ctx, c)
		if err == nil {
			if _, err := b.MemoryBackend.Save(ctx, c, snap.Data, AnyVersion); err != nil {
				return 0, err
			}
		}
	}
	return b.MemoryBackend.Save(ctx, c, data, expected)
}

func newTestStore(t *testing.T, b Backend, opts ...Option) *RecordStore {
	t.Helper()
	return New(b, logger.NewNop(), opts...)
}

func TestLoad_AbsentCollectionIsEmpty(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend())

	items, err := Load[item](context.Background(), s, Listings)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSaveLoad_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, NewMemoryBackend())

	in := []item{{ID: "c"}, {ID: "a"}, {ID: "b"}}
	require.NoError(t, Save(ctx, s, Carts, in))

	out, err := Load[item](ctx, s, Carts)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoad_CorruptCollection(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	_, err := b.Save(ctx, Reviews, []byte(`{"not":"an array"`), AnyVersion)
	require.NoError(t, err)
	s := newTestStore(t, b)

	_, err = Load[item](ctx, s, Reviews)
	assert.ErrorIs(t, err, ErrCorruptCollection)

	_, err = Update(ctx, s, Reviews, func(items []item) ([]item, error) { return items, nil })
	assert.ErrorIs(t, err, ErrCorruptCollection)
}

func TestUpdate_CreatesAbsentCollection(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	s := newTestStore(t, b)

	out, err := Update(ctx, s, Wishlists, func(items []item) ([]item, error) {
		return append(items, item{ID: "w1"}), nil
	})
	require.NoError(t, err)
	assert.Len(t, out, 1)

	snap, err := b.Load(ctx, Wishlists)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Version)
}

func TestUpdate_RetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	b := &racingBackend{MemoryBackend: NewMemoryBackend(), races: 2}
	m := metrics.NewMetricsManager("test")
	s := newTestStore(t, b, WithMetrics(m))
	require.NoError(t, Save(ctx, s, Carts, []item{{ID: "a", Count: 1}}))

	calls := 0
	out, err := Update(ctx, s, Carts, func(items []item) ([]item, error) {
		calls++
		items[0].Count++
		return items, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, out[0].Count)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.StoreConflictsTotal.WithLabelValues("carts")))

	stored, err := Load[item](ctx, s, Carts)
	require.NoError(t, err)
	assert.Equal(t, 2, stored[0].Count)
}

func TestUpdate_GivesUpAfterMaxRetries(t *testing.T) {
	ctx := context.Background()
	b := &racingBackend{MemoryBackend: NewMemoryBackend(), races: 10}
	s := newTestStore(t, b, WithMaxRetries(2))
	require.NoError(t, Save(ctx, s, Carts, []item{{ID: "a"}}))

	calls := 0
	_, err := Update(ctx, s, Carts, func(items []item) ([]item, error) {
		calls++
		return items, nil
	})
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.Equal(t, 3, calls)
}

func TestUpdate_NoChangeSkipsWrite(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	s := newTestStore(t, b)
	require.NoError(t, Save(ctx, s, Carts, []item{{ID: "a"}}))

	out, err := Update(ctx, s, Carts, func(items []item) ([]item, error) {
		return nil, ErrNoChange
	})
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "a"}}, out)

	snap, err := b.Load(ctx, Carts)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Version)
}

func TestUpdate_PropagatesFnError(t *testing.T) {
	boom := errors.New("boom")
	s := newTestStore(t, NewMemoryBackend())

	_, err := Update(context.Background(), s, Carts, func(items []item) ([]item, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestMemoryBackend_SaveSemantics(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	v, err := b.Save(ctx, Users, []byte(`[]`), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	_, err = b.Save(ctx, Users, []byte(`[]`), 0)
	assert.ErrorIs(t, err, ErrVersionConflict, "create-only on existing collection")

	_, err = b.Save(ctx, Users, []byte(`[1]`), 7)
	assert.ErrorIs(t, err, ErrVersionConflict, "stale version")

	v, err = b.Save(ctx, Users, []byte(`[1]`), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	v, err = b.Save(ctx, Users, []byte(`[2]`), AnyVersion)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	_, err = b.Load(ctx, Inquiries)
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestEnsureSeeded_IdempotentAndComplete(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	s := newTestStore(t, b)

	require.NoError(t, s.EnsureSeeded(ctx, BootstrapDataset()))

	for _, c := range AllCollections() {
		_, err := b.Load(ctx, c)
		assert.NoError(t, err, "collection %s should exist after seeding", c)
	}

	listings, err := Load[domain.Listing](ctx, s, Listings)
	require.NoError(t, err)
	require.NotEmpty(t, listings)

	// Mutate, then seed again: the mutation must survive.
	require.NoError(t, Save(ctx, s, Listings, listings[:1]))
	require.NoError(t, s.EnsureSeeded(ctx, BootstrapDataset()))

	after, err := Load[domain.Listing](ctx, s, Listings)
	require.NoError(t, err)
	assert.Len(t, after, 1)
}

func TestEnsureSeeded_LegacyListingsReadAsArrays(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, NewMemoryBackend())
	require.NoError(t, s.EnsureSeeded(ctx, BootstrapDataset()))

	listings, err := Load[domain.Listing](ctx, s, Listings)
	require.NoError(t, err)

	var found bool
	for _, l := range listings {
		require.NotNil(t, l.Specialties)
		require.NotNil(t, l.Categories)
		if l.ID == "listing-ot-table" {
			found = true
			assert.Equal(t, []string{"General Surgery"}, l.Specialties)
			assert.Equal(t, []string{"Surgical Equipment"}, l.Categories)
		}
	}
	assert.True(t, found)
}

func TestEnsureSeeded_CorruptCollectionIsFatal(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	_, err := b.Save(ctx, Vendors, []byte(`not json`), AnyVersion)
	require.NoError(t, err)

	err = newTestStore(t, b).EnsureSeeded(ctx, BootstrapDataset())
	assert.ErrorIs(t, err, ErrCorruptCollection)
}
