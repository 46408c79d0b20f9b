package redis

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClient *redis.Client

// TestMain starts a disposable Redis container. Without Docker the tests are skipped.
func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil || pool.Client.Ping() != nil {
		log.Printf("Docker is not available, skipping Redis integration tests")
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start Redis resource: %s", err)
	}
	addr := resource.GetHostPort("6379/tcp")

	if err := pool.Retry(func() error {
		var errRetry error
		testClient, errRetry = NewClient(context.Background(), addr, "", 0)
		return errRetry
	}); err != nil {
		log.Fatalf("Could not connect to Redis: %s", err)
	}

	code := m.Run()

	_ = testClient.Close()
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge Redis resource: %s", err)
	}
	os.Exit(code)
}

func newBackend(t *testing.T) *Backend {
	t.Helper()
	if testClient == nil {
		t.Skip("Redis container not available")
	}
	require.NoError(t, testClient.FlushDB(context.Background()).Err())
	return New(testClient, logger.NewNop())
}

func TestBackend_SaveSemantics(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)

	_, err := b.Load(ctx, store.Carts)
	assert.ErrorIs(t, err, store.ErrCollectionNotFound)

	v, err := b.Save(ctx, store.Carts, []byte(`[]`), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	_, err = b.Save(ctx, store.Carts, []byte(`[]`), 0)
	assert.ErrorIs(t, err, store.ErrVersionConflict)

	_, err = b.Save(ctx, store.Carts, []byte(`[1]`), 9)
	assert.ErrorIs(t, err, store.ErrVersionConflict)

	v, err = b.Save(ctx, store.Carts, []byte(`[1]`), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	v, err = b.Save(ctx, store.Carts, []byte(`[1,2]`), store.AnyVersion)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	snap, err := b.Load(ctx, store.Carts)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(snap.Data))
	assert.Equal(t, int64(3), snap.Version)
}

func TestBackend_ConcurrentUpdatesAreNotLost(t *testing.T) {
	ctx := context.Background()
	s := store.New(newBackend(t), logger.NewNop(), store.WithMaxRetries(50))

	type counter struct {
		ID string `json:"id"`
	}
	const writers = 8
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			_, err := store.Update(ctx, s, store.Carts, func(items []counter) ([]counter, error) {
				return append(items, counter{ID: fmt.Sprint(i)}), nil
			})
			errs <- err
		}(i)
	}
	for i := 0; i < writers; i++ {
		require.NoError(t, <-errs)
	}

	items, err := store.Load[counter](ctx, s, store.Carts)
	require.NoError(t, err)
	assert.Len(t, items, writers)
}
