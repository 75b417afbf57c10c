// Package repository implements the data access layer for the application.
package repository

import (
	"context"

	"recipebox/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	SetRole(ctx context.Context, email, role string) (*models.User, error)
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	Stats(ctx context.Context, id uint) (*models.UserStats, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no user has the address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByUsername returns nil, nil when the username is free.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if IsUniqueViolation(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// UpdateProfile writes the editable profile columns only.
func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Model(&models.User{ID: user.ID}).
		Select("name", "email", "username", "bio", "image", "updated_at").
		Updates(user).Error
	if err != nil {
		if IsUniqueViolation(err) {
			return models.NewConflictError("Email or username is already in use")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

func (r *userRepository) SetRole(ctx context.Context, email, role string) (*models.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", email)
	}
	if err := r.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	user.Role = role
	return user, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("id ASC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Stats(ctx context.Context, id uint) (*models.UserStats, error) {
	db := r.db.WithContext(ctx)
	var stats models.UserStats

	var totals struct {
		Recipes int64
		Views   int64
	}
	if err := db.Model(&models.Recipe{}).
		Select("COUNT(*) AS recipes, COALESCE(SUM(view_count), 0) AS views").
		Where("user_id = ?", id).
		Scan(&totals).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	stats.TotalRecipes = totals.Recipes
	stats.TotalViews = totals.Views

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&stats.TotalLikes, db.Model(&models.Like{}).
			Joins("JOIN recipes ON recipes.id = likes.recipe_id").
			Where("recipes.user_id = ?", id)},
		{&stats.SavedRecipes, db.Model(&models.SavedRecipe{}).Where("user_id = ?", id)},
		{&stats.Followers, db.Model(&models.Follow{}).Where("following_id = ?", id)},
		{&stats.Following, db.Model(&models.Follow{}).Where("follower_id = ?", id)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	return &stats, nil
}
