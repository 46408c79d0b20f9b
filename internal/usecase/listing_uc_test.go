package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/aggregate"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/metrics"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/query"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newListingUsecase(t *testing.T, s *store.RecordStore, pub domain.EventPublisher, storage domain.DocumentStorage, m *metrics.MetricsManager) *ListingUsecase {
	t.Helper()
	uc := NewListingUsecase(s, nil, storage, pub, m, logger.NewNop())
	uc.now = steppingClock()
	return uc
}

func echoInput() domain.ListingInput {
	return domain.ListingInput{
		Title:        "Philips Affiniti 50",
		Specialty:    "Cardiology",
		Category:     "Imaging Equipment",
		City:         "Lahore",
		Condition:    domain.ConditionUsed,
		Price:        1500000,
		Manufacturer: "Philips",
		Model:        "Affiniti 50",
		Images:       []string{"/img/affiniti.jpg"},
		WhatsApp:     "923001112233",
	}
}

func TestListingUsecase_CreateNormalizesLegacyTaxonomy(t *testing.T) {
	ctx := context.Background()
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, domain.SubjectListingCreated, mock.Anything).Return(nil).Once()
	m := metrics.NewMetricsManager("test")
	uc := newListingUsecase(t, newMemoryStore(t), pub, nil, m)

	created, err := uc.Create(ctx, echoInput())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"Cardiology"}, created.Specialties)
	assert.Equal(t, []string{"Imaging Equipment"}, created.Categories)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"Cardiology"}, got.Specialties)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ListingsCreatedTotal))
	pub.AssertExpectations(t)
}

func TestListingUsecase_PublishFailureIsNotFatal(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("nats down"))
	uc := newListingUsecase(t, newMemoryStore(t), pub, nil, nil)

	created, err := uc.Create(context.Background(), echoInput())
	require.NoError(t, err)
	assert.NotNil(t, created)
}

func TestListingUsecase_UpdateKeepsTaxonomyUnlessSupplied(t *testing.T) {
	ctx := context.Background()
	uc := newListingUsecase(t, newMemoryStore(t), nil, nil, nil)
	created, err := uc.Create(ctx, echoInput())
	require.NoError(t, err)

	price := int64(1400000)
	updated, err := uc.Update(ctx, created.ID, domain.ListingPatch{Price: &price})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, price, updated.Price)
	assert.Equal(t, []string{"Cardiology"}, updated.Specialties)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	updated, err = uc.Update(ctx, created.ID, domain.ListingPatch{Specialty: strPtr("Radiology")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Radiology"}, updated.Specialties)

	missing, err := uc.Update(ctx, "nope", domain.ListingPatch{Price: &price})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListingUsecase_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, domain.SubjectListingCreated, mock.Anything).Return(nil)
	pub.On("Publish", mock.Anything, domain.SubjectListingDeleted, mock.Anything).Return(nil).Once()
	m := metrics.NewMetricsManager("test")
	uc := newListingUsecase(t, newMemoryStore(t), pub, nil, m)

	created, err := uc.Create(ctx, echoInput())
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, created.ID))
	require.NoError(t, uc.Delete(ctx, created.ID))
	require.NoError(t, uc.Delete(ctx, "never-existed"))

	got, err := uc.GetByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ListingsDeletedTotal))
	pub.AssertExpectations(t)
}

func TestListingUsecase_GetByIDUsesCache(t *testing.T) {
	ctx := context.Background()
	cache := new(MockListingCache)
	cached := &domain.Listing{ID: "cached", Title: "From cache", Specialty: "Radiology"}
	cache.On("GetListing", mock.Anything, "cached").Return(cached, nil).Once()
	cache.On("GetListing", mock.Anything, "listing-echo-vivid").Return(nil, nil).Once()
	cache.On("SetListing", mock.Anything, mock.AnythingOfType("*domain.Listing")).Return(nil).Once()

	uc := NewListingUsecase(seededStore(t), cache, nil, nil, nil, logger.NewNop())

	got, err := uc.GetByID(ctx, "cached")
	require.NoError(t, err)
	assert.Equal(t, []string{"Radiology"}, got.Specialties)

	got, err = uc.GetByID(ctx, "listing-echo-vivid")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "GE Vivid E9 Echocardiography System", got.Title)
	cache.AssertExpectations(t)
}

func TestListingUsecase_GetFeaturedNewestFirst(t *testing.T) {
	uc := newListingUsecase(t, seededStore(t), nil, nil, nil)

	featured, err := uc.GetFeatured(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(featured), FeaturedLimit)
	assert.Equal(t, []string{"listing-ct-siemens", "listing-ot-table", "listing-xray-shimadzu", "listing-echo-vivid"}, ids(featured))

	latest, err := uc.GetLatest(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"listing-ventilator-hamilton", "listing-ct-siemens"}, ids(latest))
}

func TestListingUsecase_FeaturedCap(t *testing.T) {
	ctx := context.Background()
	uc := newListingUsecase(t, newMemoryStore(t), nil, nil, nil)
	for i := 0; i < FeaturedLimit+2; i++ {
		in := echoInput()
		in.IsFeatured = true
		_, err := uc.Create(ctx, in)
		require.NoError(t, err)
	}
	featured, err := uc.GetFeatured(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, FeaturedLimit)
}

func TestListingUsecase_SearchSeededCatalog(t *testing.T) {
	m := metrics.NewMetricsManager("test")
	uc := newListingUsecase(t, seededStore(t), nil, nil, m)

	got, err := uc.Search(context.Background(), query.Filter{City: "Lahore", Specialties: []string{"Cardiology", "Radiology"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"listing-echo-vivid", "listing-xray-shimadzu"}, ids(got))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchesTotal))

	got, err = uc.Search(context.Background(), query.Filter{Specialties: []string{"General Surgery"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"listing-ot-table"}, ids(got))

	byVendor, err := uc.ListByVendor(context.Background(), "vendor-surgicare-karachi")
	require.NoError(t, err)
	assert.Equal(t, []string{"listing-monitor-mindray", "listing-ot-table"}, ids(byVendor))
}

func TestListingUsecase_FacetCounts(t *testing.T) {
	uc := newListingUsecase(t, seededStore(t), nil, nil, nil)

	counts, err := uc.FacetCounts(context.Background(), aggregate.FacetSpecialty)
	require.NoError(t, err)
	assert.Equal(t, 2, counts["Cardiology"])
	assert.Equal(t, 2, counts["Radiology"])
	assert.Equal(t, 1, counts["Pathology"])

	cats, err := uc.FacetCounts(context.Background(), aggregate.FacetCategory)
	require.NoError(t, err)
	assert.Equal(t, 3, cats["Imaging Equipment"])
}

func TestListingUsecase_UploadImage(t *testing.T) {
	ctx := context.Background()
	storage := new(MockStorage)
	data := []byte("jpeg")
	storage.On("Upload", mock.Anything, "listings/listing-echo-vivid", "probe.jpg", data).
		Return("http://minio/medixra/listings/listing-echo-vivid/x.jpg", nil).Once()
	uc := newListingUsecase(t, seededStore(t), nil, storage, nil)

	got, err := uc.UploadImage(ctx, "listing-echo-vivid", "probe.jpg", data)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"/images/vivid-e9.jpg", "http://minio/medixra/listings/listing-echo-vivid/x.jpg"}, got.Images)

	missing, err := uc.UploadImage(ctx, "nope", "probe.jpg", data)
	assert.NoError(t, err)
	assert.Nil(t, missing)
	storage.AssertExpectations(t)

	noStorage := newListingUsecase(t, seededStore(t), nil, nil, nil)
	_, err = noStorage.UploadImage(ctx, "listing-echo-vivid", "probe.jpg", data)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func ids(ls []domain.Listing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ID)
	}
	return out
}
