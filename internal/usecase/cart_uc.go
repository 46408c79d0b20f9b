package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/metrics"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"go.uber.org/zap"
)

// CartUsecase manages per-user carts. Every stored quantity is at least 1.
type CartUsecase struct {
	store   *store.RecordStore
	metrics *metrics.MetricsManager
	logger  *logger.Logger
	now     Clock
}

func NewCartUsecase(s *store.RecordStore, m *metrics.MetricsManager, log *logger.Logger) *CartUsecase {
	return &CartUsecase{store: s, metrics: m, logger: log.Named("CartUsecase"), now: systemClock}
}

// AddItem adds qty of the listing, incrementing an existing entry. A quantity
// below 1 counts as 1.
func (uc *CartUsecase) AddItem(ctx context.Context, userID, listingID string, qty int) (*domain.CartEntry, error) {
	if qty < 1 {
		qty = 1
	}
	uc.logger.Info("Adding to cart", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Int("quantity", qty))

	at := uc.now()
	newID := uuid.NewString()
	var entry domain.CartEntry
	_, err := store.Update(ctx, uc.store, store.Carts, func(items []domain.CartEntry) ([]domain.CartEntry, error) {
		if i := slices.IndexFunc(items, func(c domain.CartEntry) bool { return c.Matches(userID, listingID) }); i >= 0 {
			items[i].Quantity += qty
			items[i].UpdatedAt = at
			entry = items[i]
			return items, nil
		}
		entry = domain.CartEntry{
			ID:        newID,
			UserID:    userID,
			ListingID: listingID,
			Quantity:  qty,
			CreatedAt: at,
			UpdatedAt: at,
		}
		return append(items, entry), nil
	})
	if err != nil {
		uc.logger.Error("Failed to add cart item", zap.Error(err))
		return nil, err
	}
	uc.metrics.CartMutation("add")
	return &entry, nil
}

// UpdateQuantity sets the quantity of an existing entry. A quantity below 1 is
// refused with ErrInvalidQuantity. Returns nil, nil when there is no entry.
func (uc *CartUsecase) UpdateQuantity(ctx context.Context, userID, listingID string, qty int) (*domain.CartEntry, error) {
	if qty < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, qty)
	}
	uc.logger.Info("Updating cart quantity", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Int("quantity", qty))

	at := uc.now()
	var updated *domain.CartEntry
	_, err := store.Update(ctx, uc.store, store.Carts, func(items []domain.CartEntry) ([]domain.CartEntry, error) {
		updated = nil
		i := slices.IndexFunc(items, func(c domain.CartEntry) bool { return c.Matches(userID, listingID) })
		if i < 0 {
			return nil, store.ErrNoChange
		}
		items[i].Quantity = qty
		items[i].UpdatedAt = at
		e := items[i]
		updated = &e
		return items, nil
	})
	if err != nil {
		uc.logger.Error("Failed to update cart quantity", zap.Error(err))
		return nil, err
	}
	if updated != nil {
		uc.metrics.CartMutation("update")
	}
	return updated, nil
}

// RemoveItem deletes the user's entry for the listing if present.
func (uc *CartUsecase) RemoveItem(ctx context.Context, userID, listingID string) error {
	return uc.remove(ctx, "remove", func(c domain.CartEntry) bool { return c.Matches(userID, listingID) })
}

// Clear empties the user's cart.
func (uc *CartUsecase) Clear(ctx context.Context, userID string) error {
	return uc.remove(ctx, "clear", func(c domain.CartEntry) bool { return c.UserID == userID })
}

func (uc *CartUsecase) remove(ctx context.Context, op string, match func(domain.CartEntry) bool) error {
	_, err := store.Update(ctx, uc.store, store.Carts, func(items []domain.CartEntry) ([]domain.CartEntry, error) {
		n := len(items)
		items = slices.DeleteFunc(items, match)
		if len(items) == n {
			return nil, store.ErrNoChange
		}
		return items, nil
	})
	if err != nil {
		uc.logger.Error("Failed to remove cart items", zap.String("operation", op), zap.Error(err))
		return err
	}
	uc.metrics.CartMutation(op)
	return nil
}

// List returns the user's entries in the order they were added.
func (uc *CartUsecase) List(ctx context.Context, userID string) ([]domain.CartEntry, error) {
	items, err := store.Load[domain.CartEntry](ctx, uc.store, store.Carts)
	if err != nil {
		uc.logger.Error("Failed to load carts", zap.Error(err))
		return nil, err
	}
	return slices.DeleteFunc(items, func(c domain.CartEntry) bool { return c.UserID != userID }), nil
}

// Total prices the cart against the current listings. Entries whose listing
// was deleted are reported in Missing and left out of the total.
func (uc *CartUsecase) Total(ctx context.Context, userID string) (*domain.CartSummary, error) {
	entries, err := uc.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	listings, err := store.Load[domain.Listing](ctx, uc.store, store.Listings)
	if err != nil {
		uc.logger.Error("Failed to load listings for cart total", zap.Error(err))
		return nil, err
	}
	byID := make(map[string]domain.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}

	summary := &domain.CartSummary{Lines: []domain.CartLine{}}
	for _, e := range entries {
		l, ok := byID[e.ListingID]
		if !ok {
			summary.Missing = append(summary.Missing, e.ListingID)
			continue
		}
		sub := l.Price * int64(e.Quantity)
		summary.Lines = append(summary.Lines, domain.CartLine{Entry: e, Listing: l.Normalized(), Subtotal: sub})
		summary.Items += e.Quantity
		summary.Total += sub
	}
	return summary, nil
}
