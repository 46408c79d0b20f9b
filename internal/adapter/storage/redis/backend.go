// Package redis persists record-store collections as Redis hashes and provides
// the shared client constructor.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	collectionKeyPrefix = "collection:"
	fieldData           = "data"
	fieldVersion        = "version"
)

// Backend implements store.Backend with one hash per collection holding the
// JSON array and its version. Compare-and-swap uses WATCH/MULTI.
type Backend struct {
	client *redis.Client
	logger *logger.Logger
}

// New wraps a client owned by the caller.
func New(client *redis.Client, log *logger.Logger) *Backend {
	return &Backend{client: client, logger: log.Named("RedisBackend")}
}

func (b *Backend) key(c store.Collection) string {
	return collectionKeyPrefix + string(c)
}

func (b *Backend) Load(ctx context.Context, c store.Collection) (store.Snapshot, error) {
	fields, err := b.client.HGetAll(ctx, b.key(c)).Result()
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to get collection %s from redis: %w", c, err)
	}
	if len(fields) == 0 {
		return store.Snapshot{}, store.ErrCollectionNotFound
	}
	version, err := strconv.ParseInt(fields[fieldVersion], 10, 64)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("%w: %s: bad version %q", store.ErrCorruptCollection, c, fields[fieldVersion])
	}
	return store.Snapshot{Data: []byte(fields[fieldData]), Version: version}, nil
}

func (b *Backend) Save(ctx context.Context, c store.Collection, data []byte, expectedVersion int64) (int64, error) {
	key := b.key(c)

	if expectedVersion == store.AnyVersion {
		pipe := b.client.TxPipeline()
		pipe.HSet(ctx, key, fieldData, data)
		incr := pipe.HIncrBy(ctx, key, fieldVersion, 1)
		if _, err := pipe.Exec(ctx); err != nil {
			return 0, fmt.Errorf("failed to save collection %s to redis: %w", c, err)
		}
		return incr.Val(), nil
	}

	next := expectedVersion + 1
	err := b.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, fieldVersion).Int64()
		switch {
		case errors.Is(err, redis.Nil):
			current = 0
		case err != nil:
			return err
		}
		if current != expectedVersion {
			return store.ErrVersionConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldData, data, fieldVersion, next)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) || errors.Is(err, store.ErrVersionConflict) {
		b.logger.Debug("Version conflict on collection", zap.String("collection", string(c)), zap.Int64("expected_version", expectedVersion))
		return 0, store.ErrVersionConflict
	}
	if err != nil {
		return 0, fmt.Errorf("failed to save collection %s to redis: %w", c, err)
	}
	return next, nil
}

// Close is a no-op; the client is closed by its owner.
func (b *Backend) Close(context.Context) error { return nil }
