package service

import (
	"context"
	"strings"

	"recipebox/internal/models"
	"recipebox/internal/repository"
	"recipebox/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt cost for stored password hashes.
var PasswordHashCost = 12

type UserService struct {
	users   repository.UserRepository
	recipes repository.RecipeRepository
}

type UpdateProfileInput struct {
	UserID   uint
	Name     string
	Email    string
	Username *string
	Bio      *string
	Image    *string
}

type ChangePasswordInput struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
}

func NewUserService(users repository.UserRepository, recipes repository.RecipeRepository) *UserService {
	return &UserService{users: users, recipes: recipes}
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile replaces name and email and, when supplied, username, bio and image.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, models.NewValidationError("Email is required")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError("Invalid email format")
	}

	if email != user.Email {
		other, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != user.ID {
			return nil, models.NewValidationError("Email is already in use")
		}
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			user.Username = nil
		} else {
			if err := validation.ValidateUsername(username); err != nil {
				return nil, models.NewValidationError(err.Error())
			}
			other, err := s.users.GetByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != user.ID {
				return nil, models.NewValidationError("Username is already taken")
			}
			user.Username = &username
		}
	}
	if in.Bio != nil {
		user.Bio = optionalText(*in.Bio)
	}
	if in.Image != nil {
		user.Image = optionalText(*in.Image)
	}
	user.Name = &name
	user.Email = email

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return models.NewValidationError("Current password and new password are required")
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)) != nil {
		return models.NewValidationError("Current password is incorrect")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.NewPassword)) == nil {
		return models.NewValidationError("New password must be different from current password")
	}
	if err := validation.ValidatePassword(in.NewPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	hash, err := HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}

// OwnRecipes lists every recipe the user owns, drafts included.
func (s *UserService) OwnRecipes(ctx context.Context, userID uint) ([]models.Recipe, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.recipes.ListByOwner(ctx, userID)
}

func (s *UserService) SavedRecipes(ctx context.Context, userID uint) ([]models.Recipe, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.recipes.ListSavedBy(ctx, userID)
}

func (s *UserService) Stats(ctx context.Context, userID uint) (*models.UserStats, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.users.Stats(ctx, userID)
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(hash), nil
}

func optionalText(s string) *string {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	return &t
}
