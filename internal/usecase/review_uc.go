package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/aggregate"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/metrics"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ReviewUsecase implements the business logic for reviews.
type ReviewUsecase struct {
	store   *store.RecordStore
	pub     domain.EventPublisher
	metrics *metrics.MetricsManager
	logger  *logger.Logger
	now     Clock
}

// NewReviewUsecase creates a new ReviewUsecase.
func NewReviewUsecase(s *store.RecordStore, pub domain.EventPublisher, m *metrics.MetricsManager, log *logger.Logger) *ReviewUsecase {
	return &ReviewUsecase{
		store:   s,
		pub:     orPublisher(pub),
		metrics: m,
		logger:  log.Named("ReviewUsecase"),
		now:     systemClock,
	}
}

// Create handles the creation of a new review. When the input names no vendor
// the listing's vendor is used.
func (uc *ReviewUsecase) Create(ctx context.Context, in domain.ReviewInput) (*domain.Review, error) {
	ctx, span := tracer.Start(ctx, "ReviewUsecase.Create", oteltrace.WithAttributes(
		attribute.String("listing_id", in.ListingID),
		attribute.Int("rating", in.Rating),
	))
	defer span.End()

	uc.logger.Info("Creating review",
		zap.String("listing_id", in.ListingID),
		zap.String("buyer_id", in.BuyerID),
		zap.Int("rating", in.Rating))

	if !domain.ValidRating(in.Rating) {
		err := fmt.Errorf("%w: got %d", domain.ErrInvalidRating, in.Rating)
		recordError(span, err)
		return nil, err
	}
	if in.ListingID == "" {
		return nil, fmt.Errorf("%w: listingId cannot be empty", domain.ErrInvalidInput)
	}

	vendorID := in.VendorID
	if vendorID == nil {
		listings, err := store.Load[domain.Listing](ctx, uc.store, store.Listings)
		if err != nil {
			recordError(span, err)
			return nil, err
		}
		if i := slices.IndexFunc(listings, func(l domain.Listing) bool { return l.ID == in.ListingID }); i >= 0 {
			vendorID = listings[i].VendorID
		}
	}

	review := domain.Review{
		ID:                 uuid.NewString(),
		ListingID:          in.ListingID,
		VendorID:           vendorID,
		BuyerID:            in.BuyerID,
		BuyerName:          in.BuyerName,
		Rating:             in.Rating,
		Title:              in.Title,
		Description:        in.Description,
		IsVerifiedPurchase: in.IsVerifiedPurchase,
		CreatedAt:          uc.now(),
	}
	_, err := store.Update(ctx, uc.store, store.Reviews, func(items []domain.Review) ([]domain.Review, error) {
		return append(items, review), nil
	})
	if err != nil {
		recordError(span, err)
		uc.logger.Error("Failed to save review", zap.Error(err))
		return nil, err
	}

	uc.metrics.ReviewCreated()
	eventData := map[string]interface{}{
		"review_id":  review.ID,
		"listing_id": review.ListingID,
		"buyer_id":   review.BuyerID,
		"rating":     review.Rating,
		"created_at": review.CreatedAt,
	}
	if review.VendorID != nil {
		eventData["vendor_id"] = *review.VendorID
	}
	publishEvent(ctx, uc.pub, uc.logger, domain.SubjectReviewCreated, eventData, zap.String("review_id", review.ID))

	uc.logger.Info("Review created successfully", zap.String("review_id", review.ID))
	return &review, nil
}

// GetByID retrieves a review by its ID, or nil, nil.
func (uc *ReviewUsecase) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	reviews, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(reviews, func(r domain.Review) bool { return r.ID == id })
	if i < 0 {
		return nil, nil
	}
	return &reviews[i], nil
}

// ListByListing returns the listing's reviews in the requested order. An
// unknown mode keeps storage order.
func (uc *ReviewUsecase) ListByListing(ctx context.Context, listingID string, mode aggregate.SortMode) ([]domain.Review, error) {
	reviews, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	reviews = slices.DeleteFunc(reviews, func(r domain.Review) bool { return r.ListingID != listingID })
	return aggregate.SortedBy(reviews, mode), nil
}

// ListByVendor returns the vendor's reviews, newest first.
func (uc *ReviewUsecase) ListByVendor(ctx context.Context, vendorID string) ([]domain.Review, error) {
	reviews, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	reviews = slices.DeleteFunc(reviews, func(r domain.Review) bool {
		return r.VendorID == nil || *r.VendorID != vendorID
	})
	return aggregate.SortedBy(reviews, aggregate.SortNewest), nil
}

// Reply attaches the vendor's answer. A review takes a single reply; a second
// one fails with ErrReplyExists. Returns nil, nil for an unknown review.
func (uc *ReviewUsecase) Reply(ctx context.Context, reviewID, text string) (*domain.Review, error) {
	uc.logger.Info("Replying to review", zap.String("review_id", reviewID))

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: reply text cannot be empty", domain.ErrInvalidInput)
	}

	at := uc.now()
	var updated *domain.Review
	_, err := store.Update(ctx, uc.store, store.Reviews, func(items []domain.Review) ([]domain.Review, error) {
		updated = nil
		i := slices.IndexFunc(items, func(r domain.Review) bool { return r.ID == reviewID })
		if i < 0 {
			return nil, store.ErrNoChange
		}
		if items[i].Reply != nil {
			return nil, domain.ErrReplyExists
		}
		items[i].Reply = &domain.Reply{Text: text, CreatedAt: at}
		r := items[i]
		updated = &r
		return items, nil
	})
	if err != nil {
		uc.logger.Warn("Failed to reply to review", zap.String("review_id", reviewID), zap.Error(err))
		return nil, err
	}
	if updated == nil {
		uc.logger.Warn("Review not found for reply", zap.String("review_id", reviewID))
		return nil, nil
	}

	publishEvent(ctx, uc.pub, uc.logger, domain.SubjectReviewReplied, map[string]interface{}{
		"review_id":  reviewID,
		"listing_id": updated.ListingID,
	}, zap.String("review_id", reviewID))
	return updated, nil
}

// Delete removes a review. Deleting an absent review is not an error.
func (uc *ReviewUsecase) Delete(ctx context.Context, id string) error {
	uc.logger.Info("Deleting review", zap.String("review_id", id))

	removed := false
	_, err := store.Update(ctx, uc.store, store.Reviews, func(items []domain.Review) ([]domain.Review, error) {
		n := len(items)
		items = slices.DeleteFunc(items, func(r domain.Review) bool { return r.ID == id })
		removed = len(items) != n
		if !removed {
			return nil, store.ErrNoChange
		}
		return items, nil
	})
	if err != nil {
		uc.logger.Error("Failed to delete review", zap.String("review_id", id), zap.Error(err))
		return err
	}
	if removed {
		publishEvent(ctx, uc.pub, uc.logger, domain.SubjectReviewDeleted, map[string]interface{}{"review_id": id}, zap.String("review_id", id))
	}
	return nil
}

func (uc *ReviewUsecase) StatsForListing(ctx context.Context, listingID string) (aggregate.Stats, error) {
	reviews, err := uc.ListByListing(ctx, listingID, "")
	if err != nil {
		return aggregate.Stats{}, err
	}
	return aggregate.StatsFor(reviews), nil
}

func (uc *ReviewUsecase) StatsForVendor(ctx context.Context, vendorID string) (aggregate.Stats, error) {
	reviews, err := uc.ListByVendor(ctx, vendorID)
	if err != nil {
		return aggregate.Stats{}, err
	}
	return aggregate.StatsFor(reviews), nil
}

func (uc *ReviewUsecase) load(ctx context.Context) ([]domain.Review, error) {
	reviews, err := store.Load[domain.Review](ctx, uc.store, store.Reviews)
	if err != nil {
		uc.logger.Error("Failed to load reviews", zap.Error(err))
		return nil, err
	}
	return reviews, nil
}
