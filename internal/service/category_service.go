package service

import (
	"context"
	"strings"

	"recipebox/internal/models"
	"recipebox/internal/repository"
)

type CategoryService struct {
	repo repository.CategoryRepository
}

type CreateCategoryInput struct {
	Name        string
	Description *string
	Icon        *string
	Order       int
}

func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, models.NewValidationError("Name must contain letters or numbers")
	}

	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Category already exists")
	}

	category := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: in.Description,
		Icon:        in.Icon,
		Order:       in.Order,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
