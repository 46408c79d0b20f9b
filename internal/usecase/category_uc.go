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

type CategoryUsecase struct {
	store  *store.RecordStore
	logger *logger.Logger
	now    Clock
}

func NewCategoryUsecase(s *store.RecordStore, log *logger.Logger) *CategoryUsecase {
	return &CategoryUsecase{store: s, logger: log.Named("CategoryUsecase"), now: systemClock}
}

func (uc *CategoryUsecase) Create(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	uc.logger.Info("Creating category", zap.String("name", in.Name))
	now := uc.now()
	c := domain.Category{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Subcategories: slices.Clone(in.Subcategories),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if c.Subcategories == nil {
		c.Subcategories = []string{}
	}
	_, err := store.Update(ctx, uc.store, store.Categories, func(items []domain.Category) ([]domain.Category, error) {
		return append(items, c), nil
	})
	if err != nil {
		uc.logger.Error("Failed to create category", zap.Error(err))
		return nil, err
	}
	return &c, nil
}

// Update returns nil, nil when the category does not exist.
func (uc *CategoryUsecase) Update(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	uc.logger.Info("Updating category", zap.String("category_id", id))
	at := uc.now()
	var updated *domain.Category
	_, err := store.Update(ctx, uc.store, store.Categories, func(items []domain.Category) ([]domain.Category, error) {
		updated = nil
		i := slices.IndexFunc(items, func(c domain.Category) bool { return c.ID == id })
		if i < 0 {
			return nil, store.ErrNoChange
		}
		patch.ApplyTo(&items[i])
		items[i].UpdatedAt = at
		c := items[i]
		updated = &c
		return items, nil
	})
	if err != nil {
		uc.logger.Error("Failed to update category", zap.String("category_id", id), zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (uc *CategoryUsecase) Delete(ctx context.Context, id string) error {
	uc.logger.Info("Deleting category", zap.String("category_id", id))
	_, err := store.Update(ctx, uc.store, store.Categories, func(items []domain.Category) ([]domain.Category, error) {
		n := len(items)
		items = slices.DeleteFunc(items, func(c domain.Category) bool { return c.ID == id })
		if len(items) == n {
			return nil, store.ErrNoChange
		}
		return items, nil
	})
	if err != nil {
		uc.logger.Error("Failed to delete category", zap.String("category_id", id), zap.Error(err))
	}
	return err
}

func (uc *CategoryUsecase) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	all, err := uc.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(all, func(c domain.Category) bool { return c.ID == id })
	if i < 0 {
		return nil, nil
	}
	return &all[i], nil
}

func (uc *CategoryUsecase) GetAll(ctx context.Context) ([]domain.Category, error) {
	items, err := store.Load[domain.Category](ctx, uc.store, store.Categories)
	if err != nil {
		uc.logger.Error("Failed to load categories", zap.Error(err))
		return nil, err
	}
	return items, nil
}
