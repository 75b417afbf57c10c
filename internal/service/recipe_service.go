// Package service holds the application's business rules on top of the repositories.
package service

import (
	"context"
	"math"
	"strconv"
	"time"

	"recipebox/internal/models"
	"recipebox/internal/observability"
	"recipebox/internal/repository"
	"recipebox/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type RecipeService struct {
	recipes    repository.RecipeRepository
	categories repository.CategoryRepository
	now        func() time.Time
}

func NewRecipeService(recipes repository.RecipeRepository, categories repository.CategoryRepository) *RecipeService {
	return &RecipeService{
		recipes:    recipes,
		categories: categories,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// List returns one page of recipe summaries matching filter.
func (s *RecipeService) List(ctx context.Context, filter repository.RecipeFilter) (*models.RecipePage, error) {
	filter.Normalize()
	recipes, total, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.RecipePage{
		Recipes: recipes,
		Pagination: models.Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		},
	}, nil
}

// Get counts one view and returns the recipe detail. Every call counts.
func (s *RecipeService) Get(ctx context.Context, id uint) (detail *models.RecipeDetail, err error) {
	ctx, span := observability.StartSpan(ctx, "recipe_service", "Get", attribute.Int64("recipe.id", int64(id)))
	defer func() { observability.EndSpan(span, err) }()

	if err = s.recipes.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	observability.RecipeViewsTotal.Inc()

	recipe, err := s.recipes.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.RecipeDetail{Recipe: recipe, Comments: recipe.Comments}, nil
}

// Create validates the payload, resolves the category and claims a unique
// slug derived from the title.
func (s *RecipeService) Create(ctx context.Context, userID uint, in validation.RecipeInput) (recipe *models.Recipe, err error) {
	ctx, span := observability.StartSpan(ctx, "recipe_service", "Create", attribute.Int64("user.id", int64(userID)))
	defer func() { observability.EndSpan(span, err) }()

	recipe, err = validation.NormalizeRecipe(in)
	if err != nil {
		return nil, err
	}
	recipe.UserID = userID

	if recipe.CategoryID != nil {
		if err = s.requireCategory(ctx, *recipe.CategoryID); err != nil {
			return nil, err
		}
	} else if slug := validation.InferCategorySlug(recipe.MealType); slug != "" {
		category, lookupErr := s.categories.GetBySlug(ctx, slug)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if category != nil {
			recipe.CategoryID = &category.ID
		}
	}

	if recipe.Published {
		now := s.now()
		recipe.PublishedAt = &now
	}

	err = claimSlug(ctx, Slugify(recipe.Title), s.recipes.SlugExists, func(slug string) error {
		recipe.ID = 0
		recipe.Slug = slug
		return s.recipes.Create(ctx, recipe)
	})
	if err != nil {
		return nil, err
	}
	observability.RecipesCreatedTotal.WithLabelValues(strconv.FormatBool(recipe.Published)).Inc()

	return s.recipes.GetDetail(ctx, recipe.ID)
}

// Update applies a partial change. Existence is checked before ownership.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID uint, in validation.RecipeInput) (*models.Recipe, error) {
	existing, err := s.ownedRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	changes, err := validation.RecipeChanges(in)
	if err != nil {
		return nil, err
	}
	if categoryID, ok := changes["category_id"].(uint); ok {
		if err := s.requireCategory(ctx, categoryID); err != nil {
			return nil, err
		}
	}
	// publishedAt is stamped on the first publication and never cleared
	if published, ok := changes["published"].(bool); ok && published && existing.PublishedAt == nil {
		changes["published_at"] = s.now()
	}

	if err := s.recipes.Update(ctx, recipeID, changes); err != nil {
		return nil, err
	}
	return s.recipes.GetDetail(ctx, recipeID)
}

// Delete removes an owned recipe. Existence is checked before ownership.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID uint) error {
	if _, err := s.ownedRecipe(ctx, userID, recipeID); err != nil {
		return err
	}
	return s.recipes.Delete(ctx, recipeID)
}

func (s *RecipeService) ownedRecipe(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, models.NewForbiddenError("You can only modify your own recipes")
	}
	return recipe, nil
}

func (s *RecipeService) requireCategory(ctx context.Context, id uint) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if models.AsAppError(err).Code == models.CodeNotFound {
			return models.NewValidationError("Category not found")
		}
		return err
	}
	return nil
}
