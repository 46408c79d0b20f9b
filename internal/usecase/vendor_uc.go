package usecase

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// VendorUsecase is the vendor directory. Vendors read through it carry their
// joined verification record.
type VendorUsecase struct {
	store  *store.RecordStore
	pub    domain.EventPublisher
	logger *logger.Logger
	now    Clock
}

func NewVendorUsecase(s *store.RecordStore, pub domain.EventPublisher, log *logger.Logger) *VendorUsecase {
	return &VendorUsecase{
		store:  s,
		pub:    orPublisher(pub),
		logger: log.Named("VendorUsecase"),
		now:    systemClock,
	}
}

func (uc *VendorUsecase) Create(ctx context.Context, in domain.VendorInput) (*domain.Vendor, error) {
	ctx, span := tracer.Start(ctx, "VendorUsecase.Create", oteltrace.WithAttributes(attribute.String("name", in.Name)))
	defer span.End()

	uc.logger.Info("Creating vendor", zap.String("name", in.Name), zap.String("city", in.City))

	vendor := domain.NewVendor(uuid.NewString(), in, uc.now())
	_, err := store.Update(ctx, uc.store, store.Vendors, func(items []domain.Vendor) ([]domain.Vendor, error) {
		return append(items, vendor), nil
	})
	if err != nil {
		recordError(span, err)
		uc.logger.Error("Failed to create vendor", zap.Error(err))
		return nil, err
	}

	publishEvent(ctx, uc.pub, uc.logger, domain.SubjectVendorCreated, map[string]interface{}{
		"id":   vendor.ID,
		"name": vendor.Name,
		"city": vendor.City,
	}, zap.String("vendor_id", vendor.ID))

	vendor.Verification = domain.NewVerification("", vendor.ID)
	uc.logger.Info("Vendor created successfully", zap.String("vendor_id", vendor.ID))
	return &vendor, nil
}

// Update applies a partial update. Returns nil, nil when the vendor does not exist.
func (uc *VendorUsecase) Update(ctx context.Context, id string, patch domain.VendorPatch) (*domain.Vendor, error) {
	uc.logger.Info("Updating vendor", zap.String("vendor_id", id))
	updated, err := uc.mutate(ctx, id, func(v *domain.Vendor) { patch.ApplyTo(v) })
	if err != nil || updated == nil {
		return nil, err
	}
	return uc.join(ctx, updated)
}

// SetApproval sets the approval flag governing listing visibility. It does not
// touch the verification lifecycle.
func (uc *VendorUsecase) SetApproval(ctx context.Context, id string, approved bool) (*domain.Vendor, error) {
	uc.logger.Info("Setting vendor approval", zap.String("vendor_id", id), zap.Bool("approved", approved))
	updated, err := uc.mutate(ctx, id, func(v *domain.Vendor) { v.IsApproved = approved })
	if err != nil || updated == nil {
		return nil, err
	}
	publishEvent(ctx, uc.pub, uc.logger, domain.SubjectVendorApproval, map[string]interface{}{
		"id":          id,
		"is_approved": approved,
	}, zap.String("vendor_id", id))
	return uc.join(ctx, updated)
}

func (uc *VendorUsecase) mutate(ctx context.Context, id string, apply func(*domain.Vendor)) (*domain.Vendor, error) {
	var updated *domain.Vendor
	_, err := store.Update(ctx, uc.store, store.Vendors, func(items []domain.Vendor) ([]domain.Vendor, error) {
		updated = nil
		i := slices.IndexFunc(items, func(v domain.Vendor) bool { return v.ID == id })
		if i < 0 {
			return nil, store.ErrNoChange
		}
		v := items[i].Normalized()
		apply(&v)
		v.Verification = nil
		v.UpdatedAt = uc.now()
		items[i] = v
		updated = &v
		return items, nil
	})
	if err != nil {
		uc.logger.Error("Failed to update vendor", zap.String("vendor_id", id), zap.Error(err))
		return nil, err
	}
	if updated == nil {
		uc.logger.Warn("Vendor not found", zap.String("vendor_id", id))
	}
	return updated, nil
}

// Delete removes the vendor together with its verification record. Listings
// keep their dangling vendor reference.
func (uc *VendorUsecase) Delete(ctx context.Context, id string) error {
	uc.logger.Info("Deleting vendor", zap.String("vendor_id", id))

	_, err := store.Update(ctx, uc.store, store.Vendors, func(items []domain.Vendor) ([]domain.Vendor, error) {
		n := len(items)
		items = slices.DeleteFunc(items, func(v domain.Vendor) bool { return v.ID == id })
		if len(items) == n {
			return nil, store.ErrNoChange
		}
		return items, nil
	})
	if err != nil {
		uc.logger.Error("Failed to delete vendor", zap.String("vendor_id", id), zap.Error(err))
		return err
	}

	_, err = store.Update(ctx, uc.store, store.Verifications, func(items []domain.Verification) ([]domain.Verification, error) {
		n := len(items)
		items = slices.DeleteFunc(items, func(v domain.Verification) bool { return v.VendorID == id })
		if len(items) == n {
			return nil, store.ErrNoChange
		}
		return items, nil
	})
	if err != nil {
		uc.logger.Error("Failed to delete vendor verification", zap.String("vendor_id", id), zap.Error(err))
		return err
	}
	return nil
}

// GetByID returns the vendor with its verification, or nil, nil.
func (uc *VendorUsecase) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	vendors, err := uc.loadVendors(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(vendors, func(v domain.Vendor) bool { return v.ID == id })
	if i < 0 {
		return nil, nil
	}
	return uc.join(ctx, &vendors[i])
}

func (uc *VendorUsecase) GetAll(ctx context.Context) ([]domain.Vendor, error) {
	vendors, err := uc.loadVendors(ctx)
	if err != nil {
		return nil, err
	}
	return uc.joinAll(ctx, vendors)
}

// GetApproved returns the vendors whose listings are publicly visible.
func (uc *VendorUsecase) GetApproved(ctx context.Context) ([]domain.Vendor, error) {
	vendors, err := uc.loadVendors(ctx)
	if err != nil {
		return nil, err
	}
	vendors = slices.DeleteFunc(vendors, func(v domain.Vendor) bool { return !v.IsApproved })
	return uc.joinAll(ctx, vendors)
}

func (uc *VendorUsecase) loadVendors(ctx context.Context) ([]domain.Vendor, error) {
	vendors, err := store.Load[domain.Vendor](ctx, uc.store, store.Vendors)
	if err != nil {
		uc.logger.Error("Failed to load vendors", zap.Error(err))
		return nil, err
	}
	for i := range vendors {
		vendors[i] = vendors[i].Normalized()
	}
	return vendors, nil
}

func (uc *VendorUsecase) join(ctx context.Context, v *domain.Vendor) (*domain.Vendor, error) {
	joined, err := uc.joinAll(ctx, []domain.Vendor{*v})
	if err != nil {
		return nil, err
	}
	return &joined[0], nil
}

func (uc *VendorUsecase) joinAll(ctx context.Context, vendors []domain.Vendor) ([]domain.Vendor, error) {
	records, err := store.Load[domain.Verification](ctx, uc.store, store.Verifications)
	if err != nil {
		uc.logger.Error("Failed to load verifications", zap.Error(err))
		return nil, err
	}
	byVendor := make(map[string]*domain.Verification, len(records))
	for i := range records {
		byVendor[records[i].VendorID] = &records[i]
	}
	for i := range vendors {
		if rec, ok := byVendor[vendors[i].ID]; ok {
			vendors[i].Verification = rec.Clone()
		} else {
			vendors[i].Verification = domain.NewVerification("", vendors[i].ID)
		}
	}
	return vendors, nil
}
