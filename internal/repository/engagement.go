package repository

import (
	"context"
	"errors"

	"recipebox/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository toggles the join rows behind likes, saves and follows.
// Each toggle runs in one transaction holding a row lock on the target, so
// concurrent toggles of the same pair serialize and counters cannot drift.
type EngagementRepository interface {
	ToggleLike(ctx context.Context, userID, recipeID uint) (bool, error)
	ToggleSave(ctx context.Context, userID, recipeID uint) (bool, error)
	ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository returns a new EngagementRepository implementation.
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

// toggleRow deletes the row matching where; when nothing was deleted it
// inserts row instead. It reports whether the row exists afterwards.
func toggleRow(tx *gorm.DB, row interface{}, where string, args ...interface{}) (bool, error) {
	res := tx.Where(where, args...).Delete(row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	if err := tx.Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}

func lockRecipe(tx *gorm.DB, recipeID uint) error {
	var recipe models.Recipe
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&recipe, recipeID).Error
	if isNotFound(err) {
		return models.NewNotFoundError("Recipe", recipeID)
	}
	return err
}

// counterDelta moves a denormalized counter by ±1 without going negative.
func counterDelta(column string, on bool) clause.Expr {
	if on {
		return gorm.Expr(column + " + 1")
	}
	return gorm.Expr("CASE WHEN " + column + " > 0 THEN " + column + " - 1 ELSE 0 END")
}

func (r *engagementRepository) ToggleLike(ctx context.Context, userID, recipeID uint) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRecipe(tx, recipeID); err != nil {
			return err
		}
		var err error
		liked, err = toggleRow(tx, &models.Like{UserID: userID, RecipeID: recipeID},
			"user_id = ? AND recipe_id = ?", userID, recipeID)
		if err != nil {
			return err
		}
		return tx.Model(&models.Recipe{}).
			Where("id = ?", recipeID).
			UpdateColumn("like_count", counterDelta("like_count", liked)).Error
	})
	if err != nil {
		return false, wrapTxError(err)
	}
	return liked, nil
}

// ToggleSave has no denormalized counter; savedBy is counted on read.
func (r *engagementRepository) ToggleSave(ctx context.Context, userID, recipeID uint) (bool, error) {
	var saved bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRecipe(tx, recipeID); err != nil {
			return err
		}
		var err error
		saved, err = toggleRow(tx, &models.SavedRecipe{UserID: userID, RecipeID: recipeID},
			"user_id = ? AND recipe_id = ?", userID, recipeID)
		return err
	})
	if err != nil {
		return false, wrapTxError(err)
	}
	return saved, nil
}

func (r *engagementRepository) ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	var following bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&target, followingID).Error
		if isNotFound(err) {
			return models.NewNotFoundError("User", followingID)
		}
		if err != nil {
			return err
		}
		following, err = toggleRow(tx, &models.Follow{FollowerID: followerID, FollowingID: followingID},
			"follower_id = ? AND following_id = ?", followerID, followingID)
		return err
	})
	if err != nil {
		return false, wrapTxError(err)
	}
	return following, nil
}

// wrapTxError passes AppErrors raised inside a transaction through unchanged.
func wrapTxError(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return models.NewInternalError(err)
}
