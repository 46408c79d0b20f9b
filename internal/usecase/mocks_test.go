package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Send(ctx context.Context, to []string, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

type MockStorage struct{ mock.Mock }

func (m *MockStorage) Upload(ctx context.Context, prefix, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, prefix, fileName, data)
	return args.String(0), args.Error(1)
}

type MockListingCache struct{ mock.Mock }

func (m *MockListingCache) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingCache) DeleteListing(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// steppingClock returns a clock that advances one minute per call.
func steppingClock() Clock {
	t := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newMemoryStore(t *testing.T) *store.RecordStore {
	t.Helper()
	return store.New(store.NewMemoryBackend(), logger.NewNop())
}

func seededStore(t *testing.T) *store.RecordStore {
	t.Helper()
	s := newMemoryStore(t)
	require.NoError(t, s.EnsureSeeded(context.Background(), store.BootstrapDataset()))
	return s
}

func strPtr(s string) *string { return &s }
