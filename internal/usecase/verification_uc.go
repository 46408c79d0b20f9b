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
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// VerificationUsecase runs the vendor verification lifecycle:
// Unverified -> Pending -> Verified | Rejected, and Rejected -> Pending.
type VerificationUsecase struct {
	store    *store.RecordStore
	storage  domain.DocumentStorage
	notifier domain.Notifier
	pub      domain.EventPublisher
	metrics  *metrics.MetricsManager
	logger   *logger.Logger
	now      Clock
}

func NewVerificationUsecase(s *store.RecordStore, storage domain.DocumentStorage, notifier domain.Notifier, pub domain.EventPublisher, m *metrics.MetricsManager, log *logger.Logger) *VerificationUsecase {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	return &VerificationUsecase{
		store:    s,
		storage:  storage,
		notifier: notifier,
		pub:      orPublisher(pub),
		metrics:  m,
		logger:   log.Named("VerificationUsecase"),
		now:      systemClock,
	}
}

// Get returns the vendor's verification record. A vendor that never submitted
// anything gets an implicit Unverified record. Returns nil, nil for an unknown vendor.
func (uc *VerificationUsecase) Get(ctx context.Context, vendorID string) (*domain.Verification, error) {
	vendor, err := uc.vendor(ctx, vendorID)
	if err != nil || vendor == nil {
		return nil, err
	}
	records, err := store.Load[domain.Verification](ctx, uc.store, store.Verifications)
	if err != nil {
		uc.logger.Error("Failed to load verifications", zap.Error(err))
		return nil, err
	}
	i := slices.IndexFunc(records, func(v domain.Verification) bool { return v.VendorID == vendorID })
	if i < 0 {
		return domain.NewVerification("", vendorID), nil
	}
	return &records[i], nil
}

// ListPending returns the records awaiting an administrative decision.
func (uc *VerificationUsecase) ListPending(ctx context.Context) ([]domain.Verification, error) {
	records, err := store.Load[domain.Verification](ctx, uc.store, store.Verifications)
	if err != nil {
		uc.logger.Error("Failed to load verifications", zap.Error(err))
		return nil, err
	}
	return slices.DeleteFunc(records, func(v domain.Verification) bool {
		return v.Status != domain.VerificationPending
	}), nil
}

// SubmitDocuments adds documents and moves the vendor to Pending, appending
// exactly one history entry. Returns nil, nil for an unknown vendor.
func (uc *VerificationUsecase) SubmitDocuments(ctx context.Context, vendorID string, docs []domain.Document) (*domain.Verification, error) {
	ctx, span := tracer.Start(ctx, "VerificationUsecase.SubmitDocuments", oteltrace.WithAttributes(
		attribute.String("vendor_id", vendorID),
		attribute.Int("documents", len(docs)),
	))
	defer span.End()

	uc.logger.Info("Submitting verification documents", zap.String("vendor_id", vendorID), zap.Int("documents", len(docs)))

	vendor, err := uc.vendor(ctx, vendorID)
	if err != nil || vendor == nil {
		return nil, err
	}

	at := uc.now()
	result, err := uc.transition(ctx, vendorID, func(rec *domain.Verification) error {
		return rec.SubmitDocuments(docs, at)
	})
	if err != nil {
		recordError(span, err)
		uc.logger.Warn("Verification submission refused", zap.String("vendor_id", vendorID), zap.Error(err))
		return nil, err
	}

	uc.metrics.VerificationTransition(string(result.Status))
	publishEvent(ctx, uc.pub, uc.logger, domain.SubjectVerificationSubmitted, verificationEvent(result), zap.String("vendor_id", vendorID))
	return result, nil
}

// UpdateStatus records an administrative decision, Verified or Rejected, on a
// Pending vendor and notifies the vendor by email. Returns nil, nil for an
// unknown vendor.
func (uc *VerificationUsecase) UpdateStatus(ctx context.Context, vendorID string, status domain.VerificationStatus, comment string) (*domain.Verification, error) {
	ctx, span := tracer.Start(ctx, "VerificationUsecase.UpdateStatus", oteltrace.WithAttributes(
		attribute.String("vendor_id", vendorID),
		attribute.String("status", string(status)),
	))
	defer span.End()

	uc.logger.Info("Updating verification status", zap.String("vendor_id", vendorID), zap.String("status", string(status)))

	vendor, err := uc.vendor(ctx, vendorID)
	if err != nil || vendor == nil {
		return nil, err
	}

	at := uc.now()
	result, err := uc.transition(ctx, vendorID, func(rec *domain.Verification) error {
		return rec.Decide(status, comment, at)
	})
	if err != nil {
		recordError(span, err)
		uc.logger.Warn("Verification status change refused", zap.String("vendor_id", vendorID), zap.Error(err))
		return nil, err
	}

	uc.metrics.VerificationTransition(string(result.Status))
	uc.notify(ctx, vendor, result)
	publishEvent(ctx, uc.pub, uc.logger, domain.SubjectVerificationUpdated, verificationEvent(result), zap.String("vendor_id", vendorID))
	return result, nil
}

// UploadDocument stores a verification document and returns it ready to be
// passed to SubmitDocuments.
func (uc *VerificationUsecase) UploadDocument(ctx context.Context, vendorID, fileName string, data []byte) (*domain.Document, error) {
	if uc.storage == nil {
		return nil, domain.ErrStorageUnavailable
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: document is empty", domain.ErrInvalidInput)
	}
	url, err := uc.storage.Upload(ctx, "verifications/"+vendorID, fileName, data)
	if err != nil {
		uc.logger.Error("Failed to upload verification document", zap.String("vendor_id", vendorID), zap.Error(err))
		return nil, err
	}
	return &domain.Document{Name: fileName, URL: url}, nil
}

// transition loads or creates the vendor's record, applies fn to a copy and
// writes it back under compare-and-swap.
func (uc *VerificationUsecase) transition(ctx context.Context, vendorID string, fn func(*domain.Verification) error) (*domain.Verification, error) {
	newID := uuid.NewString()
	var result *domain.Verification
	_, err := store.Update(ctx, uc.store, store.Verifications, func(items []domain.Verification) ([]domain.Verification, error) {
		i := slices.IndexFunc(items, func(v domain.Verification) bool { return v.VendorID == vendorID })
		var rec *domain.Verification
		if i < 0 {
			rec = domain.NewVerification(newID, vendorID)
		} else {
			rec = items[i].Clone()
		}
		if err := fn(rec); err != nil {
			return nil, err
		}
		if i < 0 {
			items = append(items, *rec)
		} else {
			items[i] = *rec
		}
		result = rec
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *VerificationUsecase) vendor(ctx context.Context, vendorID string) (*domain.Vendor, error) {
	vendors, err := store.Load[domain.Vendor](ctx, uc.store, store.Vendors)
	if err != nil {
		uc.logger.Error("Failed to load vendors", zap.Error(err))
		return nil, err
	}
	i := slices.IndexFunc(vendors, func(v domain.Vendor) bool { return v.ID == vendorID })
	if i < 0 {
		uc.logger.Warn("Vendor not found", zap.String("vendor_id", vendorID))
		return nil, nil
	}
	return &vendors[i], nil
}

func (uc *VerificationUsecase) notify(ctx context.Context, vendor *domain.Vendor, rec *domain.Verification) {
	if vendor.Email == "" {
		return
	}
	subject := fmt.Sprintf("Medixra vendor verification: %s", rec.Status)
	body := fmt.Sprintf("Dear %s,\n\nThe verification status of %s is now %s.\n", vendor.ContactPerson, vendor.Name, rec.Status)
	if n := len(rec.History); n > 0 && rec.History[n-1].Comment != "" {
		body += fmt.Sprintf("\nComment from the review team: %s\n", rec.History[n-1].Comment)
	}
	if err := uc.notifier.Send(ctx, []string{vendor.Email}, subject, body); err != nil {
		uc.logger.Warn("Failed to email vendor about verification", zap.String("vendor_id", vendor.ID), zap.Error(err))
	}
}

func verificationEvent(rec *domain.Verification) map[string]interface{} {
	return map[string]interface{}{
		"vendor_id":  rec.VendorID,
		"status":     rec.Status,
		"documents":  len(rec.Documents),
		"updated_at": rec.UpdatedAt,
	}
}
