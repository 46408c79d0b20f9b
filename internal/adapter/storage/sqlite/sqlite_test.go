//go:build cgo

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Backend {
	t.Helper()
	b, err := Open(filepath.Join(t.TempDir(), "data", "medixra.db"), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close(context.Background()) })
	return b
}

func TestBackend_SaveSemantics(t *testing.T) {
	ctx := context.Background()
	b := openTemp(t)

	_, err := b.Load(ctx, store.Listings)
	assert.ErrorIs(t, err, store.ErrCollectionNotFound)

	v, err := b.Save(ctx, store.Listings, []byte(`[]`), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	_, err = b.Save(ctx, store.Listings, []byte(`[1]`), 0)
	assert.ErrorIs(t, err, store.ErrVersionConflict)

	_, err = b.Save(ctx, store.Listings, []byte(`[1]`), 5)
	assert.ErrorIs(t, err, store.ErrVersionConflict)

	v, err = b.Save(ctx, store.Listings, []byte(`[1]`), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	v, err = b.Save(ctx, store.Listings, []byte(`[1,2]`), store.AnyVersion)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	snap, err := b.Load(ctx, store.Listings)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(snap.Data))
	assert.Equal(t, int64(3), snap.Version)
}

func TestBackend_SeedSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "medixra.db")

	b, err := Open(path, logger.NewNop())
	require.NoError(t, err)
	s := store.New(b, logger.NewNop())
	require.NoError(t, s.EnsureSeeded(ctx, store.BootstrapDataset()))
	require.NoError(t, s.Close(ctx))

	b2, err := Open(path, logger.NewNop())
	require.NoError(t, err)
	s2 := store.New(b2, logger.NewNop())
	defer s2.Close(ctx)

	require.NoError(t, s2.EnsureSeeded(ctx, store.BootstrapDataset()))
	snap, err := b2.Load(ctx, store.Vendors)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Version, "second seed must not rewrite")
}
