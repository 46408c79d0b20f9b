package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"

	"go.uber.org/zap"
)

// Dataset maps collections to the records they are seeded with. Values must
// marshal to JSON arrays.
type Dataset map[Collection]any

// EnsureSeeded creates every collection that does not exist yet, using the
// dataset's records or an empty array. Existing collections are left alone but
// must decode as an array of records, otherwise ErrCorruptCollection is
// returned. Calling it again is a no-op.
func (s *RecordStore) EnsureSeeded(ctx context.Context, ds Dataset) error {
	collections := AllCollections()
	for c := range ds {
		if !slices.Contains(collections, c) {
			collections = append(collections, c)
		}
	}
	sort.Slice(collections, func(i, j int) bool { return collections[i] < collections[j] })

	for _, c := range collections {
		snap, err := s.backend.Load(ctx, c)
		switch {
		case err == nil:
			var probe []json.RawMessage
			if err := json.Unmarshal(snap.Data, &probe); err != nil {
				s.logger.Error("Persisted collection is corrupt", zap.String("collection", string(c)), zap.Error(err))
				return fmt.Errorf("%w: %s: %v", ErrCorruptCollection, c, err)
			}
			continue
		case !errors.Is(err, ErrCollectionNotFound):
			return fmt.Errorf("load %s: %w", c, err)
		}

		records, ok := ds[c]
		if !ok || records == nil {
			records = []struct{}{}
		}
		data, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("encode seed for %s: %w", c, err)
		}
		if _, err := s.write(ctx, c, data, 0); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				s.logger.Info("Collection was seeded concurrently", zap.String("collection", string(c)))
				continue
			}
			return fmt.Errorf("seed %s: %w", c, err)
		}
		s.logger.Info("Seeded collection", zap.String("collection", string(c)), zap.Int("bytes", len(data)))
	}
	return nil
}
