package usecase

import (
	"context"
	"testing"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/metrics"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newVendorUsecases(t *testing.T, s *store.RecordStore, notifier domain.Notifier, pub domain.EventPublisher, m *metrics.MetricsManager) (*VendorUsecase, *VerificationUsecase) {
	t.Helper()
	vendors := NewVendorUsecase(s, pub, logger.NewNop())
	vendors.now = steppingClock()
	verifications := NewVerificationUsecase(s, nil, notifier, pub, m, logger.NewNop())
	verifications.now = steppingClock()
	return vendors, verifications
}

func TestVendorUsecase_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	vendors, _ := newVendorUsecases(t, newMemoryStore(t), nil, nil, nil)

	created, err := vendors.Create(ctx, domain.VendorInput{
		Name: "Indus Medical", ContactPerson: "Hina", City: "Multan",
		Specialty: "Dentistry", WhatsApp: "923009998877", Email: "hina@indus.pk",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dentistry"}, created.Specialties)
	assert.Equal(t, domain.VerificationUnverified, created.VerificationStatus())

	got, err := vendors.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Indus Medical", got.Name)
	assert.Equal(t, domain.VerificationUnverified, got.VerificationStatus())

	missing, err := vendors.GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestVendorUsecase_ApprovalIsIndependentOfVerification(t *testing.T) {
	ctx := context.Background()
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, domain.SubjectVendorApproval, mock.Anything).Return(nil).Once()
	vendors, _ := newVendorUsecases(t, seededStore(t), nil, pub, nil)

	approved, err := vendors.GetApproved(ctx)
	require.NoError(t, err)
	assert.Len(t, approved, 2)

	v, err := vendors.SetApproval(ctx, "vendor-labline-islamabad", true)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, v.IsApproved)
	assert.Equal(t, domain.VerificationUnverified, v.VerificationStatus())

	approved, err = vendors.GetApproved(ctx)
	require.NoError(t, err)
	assert.Len(t, approved, 3)
	pub.AssertExpectations(t)
}

func TestVendorUsecase_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	vendors, verifications := newVendorUsecases(t, s, nil, nil, nil)

	v, err := vendors.Update(ctx, "vendor-medequip-lahore", domain.VendorPatch{City: strPtr("Faisalabad")})
	require.NoError(t, err)
	assert.Equal(t, "Faisalabad", v.City)
	assert.Equal(t, []string{"Cardiology", "Radiology"}, v.Specialties)

	_, err = verifications.SubmitDocuments(ctx, "vendor-medequip-lahore", []domain.Document{{Name: "license.pdf", URL: "u"}})
	require.NoError(t, err)

	require.NoError(t, vendors.Delete(ctx, "vendor-medequip-lahore"))
	require.NoError(t, vendors.Delete(ctx, "vendor-medequip-lahore"))

	got, err := vendors.GetByID(ctx, "vendor-medequip-lahore")
	assert.NoError(t, err)
	assert.Nil(t, got)

	records, err := store.Load[domain.Verification](ctx, s, store.Verifications)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestVerificationUsecase_Lifecycle(t *testing.T) {
	ctx := context.Background()
	notifier := new(MockNotifier)
	notifier.On("Send", mock.Anything, []string{"contact@labline.pk"}, mock.Anything, mock.Anything).Return(nil).Twice()
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m := metrics.NewMetricsManager("test")
	vendors, uc := newVendorUsecases(t, seededStore(t), notifier, pub, m)
	const vendorID = "vendor-labline-islamabad"

	_, err := uc.UpdateStatus(ctx, vendorID, domain.VerificationVerified, "")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition, "Unverified cannot jump to Verified")

	rec, err := uc.SubmitDocuments(ctx, vendorID, []domain.Document{{Name: "drap.pdf", URL: "u1"}})
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationPending, rec.Status)
	assert.Len(t, rec.History, 1)

	pending, err := uc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, vendorID, pending[0].VendorID)

	rec, err = uc.UpdateStatus(ctx, vendorID, domain.VerificationRejected, "license expired")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationRejected, rec.Status)
	assert.Equal(t, "license expired", rec.History[1].Comment)

	rec, err = uc.SubmitDocuments(ctx, vendorID, []domain.Document{{Name: "drap-2025.pdf", URL: "u2"}})
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationPending, rec.Status)
	assert.Len(t, rec.History, 3, "resubmission adds exactly one entry")
	assert.Equal(t, domain.VerificationPending, rec.History[2].Status)
	assert.Len(t, rec.Documents, 2)

	rec, err = uc.UpdateStatus(ctx, vendorID, domain.VerificationVerified, "")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationVerified, rec.Status)

	_, err = uc.SubmitDocuments(ctx, vendorID, []domain.Document{{Name: "more.pdf", URL: "u3"}})
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	v, err := vendors.GetByID(ctx, vendorID)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationVerified, v.VerificationStatus())
	assert.Len(t, v.Verification.History, 4)
	assert.False(t, v.IsApproved, "verification does not approve the vendor")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.VerificationTransitions.WithLabelValues("Pending")))
	notifier.AssertExpectations(t)
}

func TestVerificationUsecase_StatusMustBeDecision(t *testing.T) {
	ctx := context.Background()
	_, uc := newVendorUsecases(t, seededStore(t), nil, nil, nil)
	_, err := uc.SubmitDocuments(ctx, "vendor-medequip-lahore", []domain.Document{{Name: "a", URL: "u"}})
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, "vendor-medequip-lahore", domain.VerificationPending, "")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	_, err = uc.UpdateStatus(ctx, "vendor-medequip-lahore", domain.VerificationUnverified, "")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestVerificationUsecase_SubmitRequiresDocuments(t *testing.T) {
	_, uc := newVendorUsecases(t, seededStore(t), nil, nil, nil)
	_, err := uc.SubmitDocuments(context.Background(), "vendor-medequip-lahore", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	rec, err := uc.Get(context.Background(), "vendor-medequip-lahore")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationUnverified, rec.Status)
	assert.Empty(t, rec.History)
}

func TestVerificationUsecase_UnknownVendor(t *testing.T) {
	_, uc := newVendorUsecases(t, seededStore(t), nil, nil, nil)
	rec, err := uc.SubmitDocuments(context.Background(), "ghost", []domain.Document{{Name: "a", URL: "u"}})
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestVerificationUsecase_UploadDocument(t *testing.T) {
	storage := new(MockStorage)
	storage.On("Upload", mock.Anything, "verifications/vendor-x", "license.pdf", []byte("pdf")).Return("http://minio/doc", nil).Once()
	uc := NewVerificationUsecase(newMemoryStore(t), storage, nil, nil, nil, logger.NewNop())

	doc, err := uc.UploadDocument(context.Background(), "vendor-x", "license.pdf", []byte("pdf"))
	require.NoError(t, err)
	assert.Equal(t, domain.Document{Name: "license.pdf", URL: "http://minio/doc"}, *doc)
	storage.AssertExpectations(t)
}
