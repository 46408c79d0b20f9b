// Package store holds every persisted collection of the marketplace as a whole
// JSON array under a name, with a per-collection version for compare-and-swap.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/metrics"
	"go.uber.org/zap"
)

// Collection names a persisted array of records.
type Collection string

const (
	Vendors       Collection = "vendors"
	Users         Collection = "users"
	Listings      Collection = "listings"
	Categories    Collection = "categories"
	Reviews       Collection = "reviews"
	Wishlists     Collection = "wishlists"
	Carts         Collection = "carts"
	Inquiries     Collection = "inquiries"
	Verifications Collection = "verifications"
)

// AllCollections returns every collection the marketplace persists.
func AllCollections() []Collection {
	return []Collection{Vendors, Users, Listings, Categories, Reviews, Wishlists, Carts, Inquiries, Verifications}
}

var (
	// ErrCollectionNotFound is returned by a Backend for a collection that was never written.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrVersionConflict indicates that the collection changed since it was read.
	ErrVersionConflict = errors.New("collection version conflict")
	// ErrCorruptCollection indicates persisted content that is not a JSON array of records.
	ErrCorruptCollection = errors.New("corrupt collection data")
	// ErrNoChange can be returned by an Update function to skip the write.
	ErrNoChange = errors.New("no change")
)

// AnyVersion makes Save overwrite unconditionally (last write wins).
const AnyVersion int64 = -1

// Snapshot is the raw content of a collection at a version.
// Version 0 means the collection does not exist yet.
type Snapshot struct {
	Data    []byte
	Version int64
}

// Backend persists raw collection snapshots.
//
// Save semantics by expectedVersion: AnyVersion overwrites, 0 creates only when
// the collection is absent, any other value writes only when the stored version
// matches. A refused write returns ErrVersionConflict. A successful write returns
// the new version.
type Backend interface {
	Load(ctx context.Context, c Collection) (Snapshot, error)
	Save(ctx context.Context, c Collection, data []byte, expectedVersion int64) (int64, error)
	Close(ctx context.Context) error
}

const defaultMaxRetries = 5

// RecordStore is the single entry point to persisted collections.
type RecordStore struct {
	backend    Backend
	logger     *logger.Logger
	metrics    *metrics.MetricsManager
	maxRetries int
}

type Option func(*RecordStore)

func WithMetrics(m *metrics.MetricsManager) Option {
	return func(s *RecordStore) { s.metrics = m }
}

// WithMaxRetries bounds how often Update re-reads after a version conflict.
func WithMaxRetries(n int) Option {
	return func(s *RecordStore) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

func New(backend Backend, log *logger.Logger, opts ...Option) *RecordStore {
	s := &RecordStore{
		backend:    backend,
		logger:     log.Named("RecordStore"),
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RecordStore) Close(ctx context.Context) error {
	s.logger.Info("Closing record store backend")
	return s.backend.Close(ctx)
}

func (s *RecordStore) snapshot(ctx context.Context, c Collection) (Snapshot, error) {
	defer s.metrics.ObserveStoreOp("load", string(c), time.Now())

	snap, err := s.backend.Load(ctx, c)
	if errors.Is(err, ErrCollectionNotFound) {
		return Snapshot{}, nil
	}
	if err != nil {
		s.logger.Error("Failed to load collection", zap.String("collection", string(c)), zap.Error(err))
		return Snapshot{}, fmt.Errorf("load %s: %w", c, err)
	}
	return snap, nil
}

func (s *RecordStore) write(ctx context.Context, c Collection, data []byte, expected int64) (int64, error) {
	defer s.metrics.ObserveStoreOp("save", string(c), time.Now())
	return s.backend.Save(ctx, c, data, expected)
}

func decode[T any](c Collection, data []byte) ([]T, error) {
	if len(data) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptCollection, c, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func encode[T any](c Collection, items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c, err)
	}
	return data, nil
}

// Load returns every record of a collection in storage order. An absent
// collection reads as empty.
func Load[T any](ctx context.Context, s *RecordStore, c Collection) ([]T, error) {
	snap, err := s.snapshot(ctx, c)
	if err != nil {
		return nil, err
	}
	return decode[T](c, snap.Data)
}

// Save replaces a collection unconditionally. Concurrent writers race with
// last-write-wins semantics; use Update for read-modify-write.
func Save[T any](ctx context.Context, s *RecordStore, c Collection, items []T) error {
	data, err := encode(c, items)
	if err != nil {
		return err
	}
	if _, err := s.write(ctx, c, data, AnyVersion); err != nil {
		s.logger.Error("Failed to save collection", zap.String("collection", string(c)), zap.Error(err))
		return fmt.Errorf("save %s: %w", c, err)
	}
	return nil
}

// Update reads a collection, applies fn and writes the result back only if the
// collection is unchanged since the read. On a conflict the whole cycle is
// retried, so fn may run more than once and must not have side effects beyond
// its return value. If fn returns ErrNoChange nothing is written and the
// current records are returned.
func Update[T any](ctx context.Context, s *RecordStore, c Collection, fn func([]T) ([]T, error)) ([]T, error) {
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		snap, err := s.snapshot(ctx, c)
		if err != nil {
			return nil, err
		}
		items, err := decode[T](c, snap.Data)
		if err != nil {
			return nil, err
		}

		next, err := fn(items)
		if errors.Is(err, ErrNoChange) {
			return items, nil
		}
		if err != nil {
			return nil, err
		}

		data, err := encode(c, next)
		if err != nil {
			return nil, err
		}
		_, err = s.write(ctx, c, data, snap.Version)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			s.logger.Error("Failed to write collection", zap.String("collection", string(c)), zap.Error(err))
			return nil, fmt.Errorf("save %s: %w", c, err)
		}

		s.metrics.StoreConflict(string(c))
		s.logger.Warn("Collection changed concurrently, retrying",
			zap.String("collection", string(c)),
			zap.Int64("read_version", snap.Version),
			zap.Int("attempt", attempt+1))
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s: gave up after %d attempts", ErrVersionConflict, c, s.maxRetries+1)
}
