package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/aggregate"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/metrics"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/query"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// FeaturedLimit caps the featured listings shown on the landing page.
const FeaturedLimit = 6

// ListingUsecase is the catalog of equipment listings.
type ListingUsecase struct {
	store   *store.RecordStore
	cache   domain.ListingCache
	storage domain.DocumentStorage
	pub     domain.EventPublisher
	metrics *metrics.MetricsManager
	logger  *logger.Logger
	now     Clock
}

// NewListingUsecase creates a ListingUsecase. cache and pub may be nil; storage
// may be nil, in which case UploadImage fails with ErrStorageUnavailable.
func NewListingUsecase(s *store.RecordStore, cache domain.ListingCache, storage domain.DocumentStorage, pub domain.EventPublisher, m *metrics.MetricsManager, log *logger.Logger) *ListingUsecase {
	if cache == nil {
		cache = domain.NopListingCache{}
	}
	return &ListingUsecase{
		store:   s,
		cache:   cache,
		storage: storage,
		pub:     orPublisher(pub),
		metrics: m,
		logger:  log.Named("ListingUsecase"),
		now:     systemClock,
	}
}

// Create stores a new listing with normalized taxonomy arrays.
func (uc *ListingUsecase) Create(ctx context.Context, in domain.ListingInput) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Create", oteltrace.WithAttributes(
		attribute.String("title", in.Title),
		attribute.String("city", in.City),
	))
	defer span.End()

	uc.logger.Info("Creating listing", zap.String("title", in.Title), zap.String("city", in.City))

	listing := domain.NewListing(uuid.NewString(), in, uc.now())
	_, err := store.Update(ctx, uc.store, store.Listings, func(items []domain.Listing) ([]domain.Listing, error) {
		return append(items, listing), nil
	})
	if err != nil {
		recordError(span, err)
		uc.logger.Error("Failed to create listing", zap.Error(err))
		return nil, err
	}
	span.SetAttributes(attribute.String("listing_id", listing.ID))

	uc.metrics.ListingCreated()
	publishEvent(ctx, uc.pub, uc.logger, domain.SubjectListingCreated, listingEvent(listing), zap.String("listing_id", listing.ID))

	uc.logger.Info("Listing created successfully", zap.String("listing_id", listing.ID))
	return &listing, nil
}

// Update merges the patch into the listing. Taxonomy is re-normalized only
// when the patch supplies it. Returns nil, nil when the listing does not exist.
func (uc *ListingUsecase) Update(ctx context.Context, id string, patch domain.ListingPatch) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Update", oteltrace.WithAttributes(attribute.String("listing_id", id)))
	defer span.End()

	uc.logger.Info("Updating listing", zap.String("listing_id", id))

	var updated *domain.Listing
	_, err := store.Update(ctx, uc.store, store.Listings, func(items []domain.Listing) ([]domain.Listing, error) {
		updated = nil
		i := slices.IndexFunc(items, func(l domain.Listing) bool { return l.ID == id })
		if i < 0 {
			return nil, store.ErrNoChange
		}
		l := items[i].Normalized()
		patch.ApplyTo(&l)
		l.UpdatedAt = uc.now()
		items[i] = l
		updated = &l
		return items, nil
	})
	if err != nil {
		recordError(span, err)
		uc.logger.Error("Failed to update listing", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}
	if updated == nil {
		uc.logger.Warn("Listing not found for update", zap.String("listing_id", id))
		return nil, nil
	}

	uc.invalidate(ctx, id)
	publishEvent(ctx, uc.pub, uc.logger, domain.SubjectListingUpdated, listingEvent(*updated), zap.String("listing_id", id))

	uc.logger.Info("Listing updated successfully", zap.String("listing_id", id))
	return updated, nil
}

// Delete removes a listing. Deleting an absent listing is not an error.
func (uc *ListingUsecase) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Delete", oteltrace.WithAttributes(attribute.String("listing_id", id)))
	defer span.End()

	uc.logger.Info("Deleting listing", zap.String("listing_id", id))

	removed := false
	_, err := store.Update(ctx, uc.store, store.Listings, func(items []domain.Listing) ([]domain.Listing, error) {
		n := len(items)
		items = slices.DeleteFunc(items, func(l domain.Listing) bool { return l.ID == id })
		removed = len(items) != n
		if !removed {
			return nil, store.ErrNoChange
		}
		return items, nil
	})
	if err != nil {
		recordError(span, err)
		uc.logger.Error("Failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		return err
	}

	uc.invalidate(ctx, id)
	if removed {
		uc.metrics.ListingDeleted()
		publishEvent(ctx, uc.pub, uc.logger, domain.SubjectListingDeleted, map[string]interface{}{"id": id}, zap.String("listing_id", id))
	}
	return nil
}

// GetByID returns a listing or nil, nil when it does not exist. Reads go
// through the listing cache.
func (uc *ListingUsecase) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.GetByID", oteltrace.WithAttributes(attribute.String("listing_id", id)))
	defer span.End()

	cached, err := uc.cache.GetListing(ctx, id)
	if err != nil {
		uc.logger.Warn("Listing cache read failed", zap.String("listing_id", id), zap.Error(err))
	} else if cached != nil {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		out := cached.Normalized()
		return &out, nil
	}

	listing, err := uc.find(ctx, id)
	if err != nil || listing == nil {
		recordError(span, err)
		return nil, err
	}
	if err := uc.cache.SetListing(ctx, listing); err != nil {
		uc.logger.Warn("Listing cache write failed", zap.String("listing_id", id), zap.Error(err))
	}
	return listing, nil
}

func (uc *ListingUsecase) find(ctx context.Context, id string) (*domain.Listing, error) {
	all, err := uc.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(all, func(l domain.Listing) bool { return l.ID == id })
	if i < 0 {
		return nil, nil
	}
	return &all[i], nil
}

// GetAll returns every listing, normalized, in storage order.
func (uc *ListingUsecase) GetAll(ctx context.Context) ([]domain.Listing, error) {
	items, err := store.Load[domain.Listing](ctx, uc.store, store.Listings)
	if err != nil {
		uc.logger.Error("Failed to load listings", zap.Error(err))
		return nil, err
	}
	for i := range items {
		items[i] = items[i].Normalized()
	}
	return items, nil
}

// GetFeatured returns featured listings, newest first, at most FeaturedLimit.
func (uc *ListingUsecase) GetFeatured(ctx context.Context) ([]domain.Listing, error) {
	all, err := uc.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	featured := slices.DeleteFunc(all, func(l domain.Listing) bool { return !l.IsFeatured })
	return newestFirst(featured, FeaturedLimit), nil
}

// GetLatest returns the n most recently created listings.
func (uc *ListingUsecase) GetLatest(ctx context.Context, n int) ([]domain.Listing, error) {
	all, err := uc.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return newestFirst(all, n), nil
}

func newestFirst(listings []domain.Listing, limit int) []domain.Listing {
	slices.SortStableFunc(listings, func(a, b domain.Listing) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit < 0 {
		limit = 0
	}
	if len(listings) > limit {
		listings = listings[:limit]
	}
	return listings
}

// Search filters the catalog. See query.Search for the matching rules.
func (uc *ListingUsecase) Search(ctx context.Context, f query.Filter) ([]domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Search", oteltrace.WithAttributes(
		attribute.String("search", f.Search),
		attribute.StringSlice("specialties", f.Specialties),
		attribute.String("city", f.City),
	))
	defer span.End()

	items, err := store.Load[domain.Listing](ctx, uc.store, store.Listings)
	if err != nil {
		recordError(span, err)
		uc.logger.Error("Failed to load listings for search", zap.Error(err))
		return nil, err
	}
	out := query.Search(items, f)
	uc.metrics.SearchExecuted(len(out))
	span.SetAttributes(attribute.Int("results", len(out)))
	uc.logger.Debug("Search executed", zap.Int("candidates", len(items)), zap.Int("results", len(out)))
	return out, nil
}

// ListByVendor returns the listings that reference the vendor.
func (uc *ListingUsecase) ListByVendor(ctx context.Context, vendorID string) ([]domain.Listing, error) {
	if vendorID == "" {
		return []domain.Listing{}, nil
	}
	return uc.Search(ctx, query.Filter{VendorID: vendorID})
}

// UploadImage stores an image in object storage and appends its URL to the
// listing. Returns nil, nil when the listing does not exist.
func (uc *ListingUsecase) UploadImage(ctx context.Context, id, fileName string, data []byte) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.UploadImage", oteltrace.WithAttributes(
		attribute.String("listing_id", id),
		attribute.Int("size", len(data)),
	))
	defer span.End()

	if uc.storage == nil {
		return nil, domain.ErrStorageUnavailable
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image is empty", domain.ErrInvalidInput)
	}
	existing, err := uc.find(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	url, err := uc.storage.Upload(ctx, "listings/"+id, fileName, data)
	if err != nil {
		recordError(span, err)
		uc.logger.Error("Failed to upload listing image", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}
	images := append(slices.Clone(existing.Images), url)
	return uc.Update(ctx, id, domain.ListingPatch{Images: images})
}

// FacetCounts counts listings per specialty or category name.
func (uc *ListingUsecase) FacetCounts(ctx context.Context, facet aggregate.Facet) (map[string]int, error) {
	all, err := uc.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.CountsByFacet(all, facet), nil
}

func (uc *ListingUsecase) invalidate(ctx context.Context, id string) {
	if err := uc.cache.DeleteListing(ctx, id); err != nil {
		uc.logger.Warn("Failed to invalidate listing cache", zap.String("listing_id", id), zap.Error(err))
	}
}

func listingEvent(l domain.Listing) map[string]interface{} {
	data := map[string]interface{}{
		"id":          l.ID,
		"title":       l.Title,
		"specialties": l.Specialties,
		"categories":  l.Categories,
		"city":        l.City,
		"price":       l.Price,
		"updated_at":  l.UpdatedAt,
	}
	if l.VendorID != nil {
		data["vendor_id"] = *l.VendorID
	}
	return data
}
