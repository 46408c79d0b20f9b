package usecase

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"go.uber.org/zap"
)

// WishlistUsecase keeps at most one entry per user and listing.
type WishlistUsecase struct {
	store  *store.RecordStore
	logger *logger.Logger
	now    Clock
}

func NewWishlistUsecase(s *store.RecordStore, log *logger.Logger) *WishlistUsecase {
	return &WishlistUsecase{store: s, logger: log.Named("WishlistUsecase"), now: systemClock}
}

// Add saves the listing for the user. Adding it twice returns the existing entry.
func (uc *WishlistUsecase) Add(ctx context.Context, userID, listingID string) (*domain.WishlistEntry, error) {
	uc.logger.Info("Adding to wishlist", zap.String("user_id", userID), zap.String("listing_id", listingID))

	candidate := domain.WishlistEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: uc.now(),
	}
	var entry domain.WishlistEntry
	_, err := store.Update(ctx, uc.store, store.Wishlists, func(items []domain.WishlistEntry) ([]domain.WishlistEntry, error) {
		if i := slices.IndexFunc(items, func(w domain.WishlistEntry) bool { return w.Matches(userID, listingID) }); i >= 0 {
			entry = items[i]
			return nil, store.ErrNoChange
		}
		entry = candidate
		return append(items, candidate), nil
	})
	if err != nil {
		uc.logger.Error("Failed to add wishlist entry", zap.Error(err))
		return nil, err
	}
	return &entry, nil
}

// Remove deletes the entry if present.
func (uc *WishlistUsecase) Remove(ctx context.Context, userID, listingID string) error {
	uc.logger.Info("Removing from wishlist", zap.String("user_id", userID), zap.String("listing_id", listingID))
	_, err := store.Update(ctx, uc.store, store.Wishlists, func(items []domain.WishlistEntry) ([]domain.WishlistEntry, error) {
		n := len(items)
		items = slices.DeleteFunc(items, func(w domain.WishlistEntry) bool { return w.Matches(userID, listingID) })
		if len(items) == n {
			return nil, store.ErrNoChange
		}
		return items, nil
	})
	if err != nil {
		uc.logger.Error("Failed to remove wishlist entry", zap.Error(err))
	}
	return err
}

// List returns the user's entries in the order they were added.
func (uc *WishlistUsecase) List(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
	items, err := store.Load[domain.WishlistEntry](ctx, uc.store, store.Wishlists)
	if err != nil {
		uc.logger.Error("Failed to load wishlists", zap.Error(err))
		return nil, err
	}
	return slices.DeleteFunc(items, func(w domain.WishlistEntry) bool { return w.UserID != userID }), nil
}

func (uc *WishlistUsecase) Contains(ctx context.Context, userID, listingID string) (bool, error) {
	items, err := uc.List(ctx, userID)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(items, func(w domain.WishlistEntry) bool { return w.ListingID == listingID }), nil
}
