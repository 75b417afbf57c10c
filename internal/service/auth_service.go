package service

import (
	"context"
	"strings"
	"time"

	"recipebox/internal/cache"
	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/repository"
	"recipebox/internal/validation"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// AuthService signs users up and in and revokes their tokens.
type AuthService struct {
	users  repository.UserRepository
	secret string
	ttl    time.Duration
	rdb    *redis.Client
}

type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Username string `json:"username"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is an issued token together with its owner.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// NewAuthService builds the service. rdb may be nil, in which case logout
// cannot revoke tokens before they expire.
func NewAuthService(users repository.UserRepository, secret string, rdb *redis.Client) *AuthService {
	return &AuthService{users: users, secret: secret, ttl: middleware.TokenTTL, rdb: rdb}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("User already exists")
	}

	user := &models.User{Name: &in.Name, Email: in.Email, Role: models.RoleCreator}
	if in.Username != "" {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		taken, err := s.users.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, models.NewConflictError("Username is already taken")
		}
		user.Username = &in.Username
	}

	if user.Password, err = HashPassword(in.Password); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return s.issue(user)
}

// Logout revokes the token identified by jti until it would have expired.
func (s *AuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.rdb == nil {
		middleware.Logger.Warn("logout without redis, token stays valid until expiry", "jti", jti)
		return nil
	}
	if err := cache.RevokeToken(ctx, s.rdb, jti, expiresAt); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, claims, err := middleware.IssueToken(s.secret, user.ID, s.ttl)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt, User: user}, nil
}
