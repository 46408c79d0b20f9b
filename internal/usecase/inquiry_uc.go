package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"go.uber.org/zap"
)

// InquiryUsecase routes buyer messages to the vendor of a listing.
type InquiryUsecase struct {
	store    *store.RecordStore
	notifier domain.Notifier
	pub      domain.EventPublisher
	logger   *logger.Logger
	now      Clock
}

func NewInquiryUsecase(s *store.RecordStore, notifier domain.Notifier, pub domain.EventPublisher, log *logger.Logger) *InquiryUsecase {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	return &InquiryUsecase{
		store:    s,
		notifier: notifier,
		pub:      orPublisher(pub),
		logger:   log.Named("InquiryUsecase"),
		now:      systemClock,
	}
}

// Create stores the inquiry and emails the listing's vendor. Returns nil, nil
// when the listing does not exist.
func (uc *InquiryUsecase) Create(ctx context.Context, in domain.InquiryInput) (*domain.Inquiry, error) {
	uc.logger.Info("Creating inquiry", zap.String("listing_id", in.ListingID))

	listings, err := store.Load[domain.Listing](ctx, uc.store, store.Listings)
	if err != nil {
		uc.logger.Error("Failed to load listings", zap.Error(err))
		return nil, err
	}
	i := slices.IndexFunc(listings, func(l domain.Listing) bool { return l.ID == in.ListingID })
	if i < 0 {
		uc.logger.Warn("Listing not found for inquiry", zap.String("listing_id", in.ListingID))
		return nil, nil
	}
	listing := listings[i]

	inquiry := domain.Inquiry{
		ID:         uuid.NewString(),
		ListingID:  in.ListingID,
		VendorID:   listing.VendorID,
		BuyerName:  in.BuyerName,
		BuyerEmail: in.BuyerEmail,
		BuyerPhone: in.BuyerPhone,
		Message:    in.Message,
		CreatedAt:  uc.now(),
	}
	_, err = store.Update(ctx, uc.store, store.Inquiries, func(items []domain.Inquiry) ([]domain.Inquiry, error) {
		return append(items, inquiry), nil
	})
	if err != nil {
		uc.logger.Error("Failed to save inquiry", zap.Error(err))
		return nil, err
	}

	if listing.VendorID != nil {
		uc.notifyVendor(ctx, *listing.VendorID, listing, inquiry)
	}
	eventData := map[string]interface{}{
		"inquiry_id": inquiry.ID,
		"listing_id": inquiry.ListingID,
	}
	if inquiry.VendorID != nil {
		eventData["vendor_id"] = *inquiry.VendorID
	}
	publishEvent(ctx, uc.pub, uc.logger, domain.SubjectInquiryCreated, eventData, zap.String("inquiry_id", inquiry.ID))
	return &inquiry, nil
}

func (uc *InquiryUsecase) notifyVendor(ctx context.Context, vendorID string, listing domain.Listing, inq domain.Inquiry) {
	vendors, err := store.Load[domain.Vendor](ctx, uc.store, store.Vendors)
	if err != nil {
		uc.logger.Warn("Failed to load vendor for inquiry email", zap.String("vendor_id", vendorID), zap.Error(err))
		return
	}
	i := slices.IndexFunc(vendors, func(v domain.Vendor) bool { return v.ID == vendorID })
	if i < 0 || vendors[i].Email == "" {
		return
	}
	subject := fmt.Sprintf("New inquiry about %s", listing.Title)
	body := fmt.Sprintf("%s (%s) wrote:\n\n%s\n", inq.BuyerName, inq.BuyerEmail, inq.Message)
	if inq.BuyerPhone != "" {
		body += fmt.Sprintf("\nPhone: %s\n", inq.BuyerPhone)
	}
	if err := uc.notifier.Send(ctx, []string{vendors[i].Email}, subject, body); err != nil {
		uc.logger.Warn("Failed to email vendor about inquiry", zap.String("vendor_id", vendorID), zap.Error(err))
	}
}

// ListByVendor returns the vendor's inquiries, oldest first.
func (uc *InquiryUsecase) ListByVendor(ctx context.Context, vendorID string) ([]domain.Inquiry, error) {
	return uc.list(ctx, func(q domain.Inquiry) bool { return q.VendorID != nil && *q.VendorID == vendorID })
}

func (uc *InquiryUsecase) ListByListing(ctx context.Context, listingID string) ([]domain.Inquiry, error) {
	return uc.list(ctx, func(q domain.Inquiry) bool { return q.ListingID == listingID })
}

func (uc *InquiryUsecase) list(ctx context.Context, keep func(domain.Inquiry) bool) ([]domain.Inquiry, error) {
	items, err := store.Load[domain.Inquiry](ctx, uc.store, store.Inquiries)
	if err != nil {
		uc.logger.Error("Failed to load inquiries", zap.Error(err))
		return nil, err
	}
	return slices.DeleteFunc(items, func(q domain.Inquiry) bool { return !keep(q) }), nil
}

// Delete removes an inquiry if present.
func (uc *InquiryUsecase) Delete(ctx context.Context, id string) error {
	_, err := store.Update(ctx, uc.store, store.Inquiries, func(items []domain.Inquiry) ([]domain.Inquiry, error) {
		n := len(items)
		items = slices.DeleteFunc(items, func(q domain.Inquiry) bool { return q.ID == id })
		if len(items) == n {
			return nil, store.ErrNoChange
		}
		return items, nil
	})
	if err != nil {
		uc.logger.Error("Failed to delete inquiry", zap.String("inquiry_id", id), zap.Error(err))
	}
	return err
}
