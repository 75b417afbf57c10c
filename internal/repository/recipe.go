package repository

import (
	"context"
	"strings"

	"recipebox/internal/models"

	"gorm.io/gorm"
)

const (
	// DetailCommentLimit caps top-level comments embedded in a recipe detail.
	DetailCommentLimit = 10
	// DefaultPageSize is the listing page size when none is requested.
	DefaultPageSize = 12
	// MaxPageSize bounds the listing page size.
	MaxPageSize = 100
)

// RecipeFilter selects recipes for a listing. Zero values mean "no constraint".
type RecipeFilter struct {
	Page         int
	Limit        int
	CategorySlug string
	MealType     string
	Search       string
	Featured     bool
	UserID       uint
	// Slug matches one recipe exactly and also admits unpublished recipes.
	Slug string
}

// Normalize clamps paging to valid values.
func (f *RecipeFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
}

// Offset is the number of rows skipped before the current page.
func (f *RecipeFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// RecipeRepository defines persistence operations for recipes.
type RecipeRepository interface {
	List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error)
	ListByOwner(ctx context.Context, userID uint) ([]models.Recipe, error)
	ListSavedBy(ctx context.Context, userID uint) ([]models.Recipe, error)
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	GetDetail(ctx context.Context, id uint) (*models.Recipe, error)
	IncrementViews(ctx context.Context, id uint) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, id uint, changes map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository returns a new RecipeRepository implementation.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func ownerSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "username", "image", "created_at")
}

func ownerDetail(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "username", "image", "bio", "created_at")
}

// filtered applies every predicate of f except paging.
func (r *recipeRepository) filtered(ctx context.Context, f RecipeFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Recipe{})

	if f.Slug != "" {
		q = q.Where("recipes.slug = ?", f.Slug)
	} else {
		q = q.Where("recipes.published = ?", true)
	}
	if f.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = recipes.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}
	if f.MealType != "" {
		// meal_type holds a JSON array; match the quoted token
		token := `"` + strings.ToUpper(strings.TrimSpace(f.MealType)) + `"`
		q = q.Where(`UPPER(recipes.meal_type) LIKE ? ESCAPE '\'`, likePattern(token))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := likePattern(strings.ToLower(s))
		q = q.Where(
			`(LOWER(recipes.title) LIKE ? ESCAPE '\' OR LOWER(recipes.description) LIKE ? ESCAPE '\' OR LOWER(recipes.cuisine) LIKE ? ESCAPE '\')`,
			p, p, p,
		)
	}
	if f.Featured {
		q = q.Where("recipes.featured = ?", true)
	}
	if f.UserID != 0 {
		q = q.Where("recipes.user_id = ?", f.UserID)
	}
	return q
}

func (r *recipeRepository) List(ctx context.Context, f RecipeFilter) ([]models.Recipe, int64, error) {
	f.Normalize()

	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	recipes := []models.Recipe{}
	if total == 0 {
		return recipes, 0, nil
	}

	err := r.filtered(ctx, f).
		Select("recipes.*").
		Preload("User", ownerSummary).
		Preload("Category").
		Order("recipes.created_at DESC, recipes.id DESC").
		Offset(f.Offset()).
		Limit(f.Limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return recipes, total, nil
}

func (r *recipeRepository) ListByOwner(ctx context.Context, userID uint) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

// ListSavedBy returns the user's saved recipes, most recently saved first,
// with SavedAt set.
func (r *recipeRepository) ListSavedBy(ctx context.Context, userID uint) ([]models.Recipe, error) {
	var saved []models.SavedRecipe
	err := r.db.WithContext(ctx).
		Preload("Recipe").
		Preload("Recipe.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&saved).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	recipes := make([]models.Recipe, 0, len(saved))
	for i := range saved {
		if saved[i].Recipe == nil {
			continue
		}
		recipe := *saved[i].Recipe
		savedAt := saved[i].CreatedAt
		recipe.SavedAt = &savedAt
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Recipe", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &recipe, nil
}

// GetDetail loads a recipe with its owner, category, the newest top-level
// comments (replies oldest first) and live engagement counts.
func (r *recipeRepository) GetDetail(ctx context.Context, id uint) (*models.Recipe, error) {
	db := r.db.WithContext(ctx)

	var recipe models.Recipe
	err := db.
		Preload("User", ownerDetail).
		Preload("Category").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("parent_id IS NULL").Order("created_at DESC, id DESC").Limit(DetailCommentLimit)
		}).
		Preload("Comments.User", ownerSummary).
		Preload("Comments.Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).
		Preload("Comments.Replies.User", ownerSummary).
		First(&recipe, id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Recipe", id)
		}
		return nil, models.NewInternalError(err)
	}

	counts := &models.RecipeCounts{}
	for _, c := range []struct {
		dst   *int64
		model interface{}
	}{
		{&counts.Likes, &models.Like{}},
		{&counts.Comments, &models.Comment{}},
		{&counts.SavedBy, &models.SavedRecipe{}},
	} {
		if err := db.Model(c.model).Where("recipe_id = ?", id).Count(c.dst).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}
	recipe.Counts = counts
	if recipe.Comments == nil {
		recipe.Comments = []models.Comment{}
	}

	return &recipe, nil
}

// IncrementViews adds one view. It is the existence check for detail reads.
func (r *recipeRepository) IncrementViews(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Recipe", id)
	}
	return nil
}

func (r *recipeRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("slug = ?", slug).Count(&n).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

// Create inserts the recipe. A taken slug is reported as a Conflict so the
// caller can pick the next candidate.
func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		if IsUniqueViolation(err) {
			return models.NewConflictError("Recipe slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Update applies column changes. Counters are never part of changes.
func (r *recipeRepository) Update(ctx context.Context, id uint, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Recipe{ID: id}).Updates(changes)
	if res.Error != nil {
		if IsUniqueViolation(res.Error) {
			return models.NewConflictError("Recipe slug already exists")
		}
		return models.NewInternalError(res.Error)
	}
	return nil
}

// Delete removes a recipe and every row that hangs off it in one transaction.
func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&models.Like{}, &models.SavedRecipe{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		// Replies first so parent_id references never dangle
		if err := tx.Where("recipe_id = ? AND parent_id IS NOT NULL", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Recipe", id)
		}
		return nil
	})
	if err != nil {
		return wrapTxError(err)
	}
	return nil
}
