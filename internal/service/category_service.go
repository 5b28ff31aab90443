package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	apperrors "galleria/internal/errors"
	"galleria/internal/model"
	"galleria/internal/repository"
	"galleria/internal/storage"
)

// CategoryService handles category CRUD with the same single-field image
// enrichment as listings. Title uniqueness is enforced here, not in the
// database schema.
type CategoryService interface {
	Create(ctx context.Context, title string, image *string) (*model.Category, error)
	FindAll(ctx context.Context) ([]model.EnrichedCategory, error)
	FindOne(ctx context.Context, id uint) (*model.EnrichedCategory, error)
	Update(ctx context.Context, id uint, title, image *string) (*model.EnrichedCategory, error)
	Delete(ctx context.Context, id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	store        ObjectGateway
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo repository.CategoryRepository, store ObjectGateway) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		store:        store,
	}
}

func (s *categoryService) Create(ctx context.Context, title string, image *string) (*model.Category, error) {
	if err := s.checkTitleFree(ctx, title, 0); err != nil {
		return nil, err
	}

	category := &model.Category{
		Title: title,
		Image: image,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		// A concurrent create can slip past the title check; the unique
		// index catches it and it is still a conflict, not a server error.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrCategoryTitleTaken
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *categoryService) FindAll(ctx context.Context) ([]model.EnrichedCategory, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	enriched := make([]model.EnrichedCategory, len(categories))
	for i, category := range categories {
		enriched[i] = s.enrich(ctx, category)
	}
	return enriched, nil
}

func (s *categoryService) FindOne(ctx context.Context, id uint) (*model.EnrichedCategory, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	enriched := s.enrich(ctx, *category)
	return &enriched, nil
}

// Update applies the given fields in one conditional statement, same as
// listing updates; a zero match surfaces as not found. The title check runs
// first and excludes the category itself.
func (s *categoryService) Update(ctx context.Context, id uint, title, image *string) (*model.EnrichedCategory, error) {
	fields := map[string]interface{}{}
	if title != nil {
		if err := s.checkTitleFree(ctx, *title, id); err != nil {
			return nil, err
		}
		fields["title"] = *title
	}
	if image != nil {
		fields["image"] = *image
	}

	if len(fields) > 0 {
		ok, err := s.categoryRepo.UpdateFields(ctx, id, fields)
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.ErrCategoryTitleTaken
			}
			return nil, fmt.Errorf("update category: %w", err)
		}
		if !ok {
			return nil, apperrors.ErrCategoryNotFound
		}
	}
	return s.FindOne(ctx, id)
}

// Delete removes the category unconditionally; dependent auctions are
// detached (category_id set to null) in the same transaction.
func (s *categoryService) Delete(ctx context.Context, id uint) error {
	affected, err := s.categoryRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

func (s *categoryService) checkTitleFree(ctx context.Context, title string, selfID uint) error {
	existing, err := s.categoryRepo.FindByTitle(ctx, title)
	if err == nil && existing != nil && existing.ID != selfID {
		return apperrors.ErrCategoryTitleTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check category title: %w", err)
	}
	return nil
}

func (s *categoryService) enrich(ctx context.Context, category model.Category) model.EnrichedCategory {
	enriched := model.EnrichedCategory{Category: category}
	if category.Image == nil || !storage.IsManagedKey(*category.Image) {
		if category.Image != nil {
			enriched.ImageURL = *category.Image
		}
		return enriched
	}

	url, err := s.store.PresignView(ctx, *category.Image, storage.DefaultViewExpiry)
	if err != nil {
		log.Printf("sign view url for %s: %v", *category.Image, err)
		enriched.ImageURL = *category.Image
		return enriched
	}
	enriched.ImageURL = url
	return enriched
}
