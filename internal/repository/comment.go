package repository

import (
	"context"

	"recipebox/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for recipe comments.
type CommentRepository interface {
	ListByRecipe(ctx context.Context, recipeID uint) ([]models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// ListByRecipe returns top-level comments newest first, each with its replies oldest first.
func (r *commentRepository) ListByRecipe(ctx context.Context, recipeID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Preload("User", ownerSummary).
		Preload("Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).
		Preload("Replies.User", ownerSummary).
		Where("recipe_id = ? AND parent_id IS NULL", recipeID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// Create inserts the comment and bumps the recipe's comment counter in one
// transaction. A reply must target a top-level comment on the same recipe.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRecipe(tx, comment.RecipeID); err != nil {
			return err
		}

		if comment.ParentID != nil {
			var parent models.Comment
			err := tx.Select("id", "recipe_id", "parent_id").First(&parent, *comment.ParentID).Error
			if isNotFound(err) {
				return models.NewValidationError("Parent comment not found")
			}
			if err != nil {
				return err
			}
			if parent.RecipeID != comment.RecipeID {
				return models.NewValidationError("Parent comment belongs to a different recipe")
			}
			if parent.ParentID != nil {
				return models.NewValidationError("Replies cannot be nested")
			}
		}

		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Recipe{}).
			Where("id = ?", comment.RecipeID).
			UpdateColumn("comment_count", counterDelta("comment_count", true)).Error; err != nil {
			return err
		}
		return tx.Preload("User", ownerSummary).First(comment, comment.ID).Error
	})
	if err != nil {
		return wrapTxError(err)
	}
	return nil
}
