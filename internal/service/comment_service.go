package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"recipebox/internal/models"
	"recipebox/internal/repository"
)

const maxCommentLen = 10000

type CommentService struct {
	comments repository.CommentRepository
	recipes  repository.RecipeRepository
}

type CreateCommentInput struct {
	UserID   uint
	RecipeID uint
	Content  string
	ParentID *uint
}

func NewCommentService(comments repository.CommentRepository, recipes repository.RecipeRepository) *CommentService {
	return &CommentService{comments: comments, recipes: recipes}
}

// List returns the recipe's comment threads. An unknown recipe is a 404.
func (s *CommentService) List(ctx context.Context, recipeID uint) ([]models.Comment, error) {
	if _, err := s.recipes.GetByID(ctx, recipeID); err != nil {
		return nil, err
	}
	return s.comments.ListByRecipe(ctx, recipeID)
}

func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		Content:  content,
		RecipeID: in.RecipeID,
		UserID:   in.UserID,
		ParentID: in.ParentID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
