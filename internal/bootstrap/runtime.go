// Package bootstrap prepares the process-wide dependencies shared by the
// server and the command line tools.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"recipebox/internal/cache"
	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/repository"
	"recipebox/internal/seed"
	"recipebox/internal/service"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultDevAdminEmail    = "admin@recipebox.local"
	defaultDevAdminUsername = "admin"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedBuiltIns bool
}

// InitRuntime connects to the database and Redis, bootstraps the development
// admin and optionally upserts the built-in categories and ad spaces.
// The Redis client is nil when Redis is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := Prepare(ctx, cfg, db, opts); err != nil {
		return nil, nil, err
	}
	return db, rdb, nil
}

// Prepare runs the data steps of InitRuntime against an open database.
func Prepare(ctx context.Context, cfg *config.Config, db *gorm.DB, opts Options) error {
	if err := EnsureDevAdmin(ctx, cfg, db); err != nil {
		return fmt.Errorf("failed to bootstrap development admin: %w", err)
	}

	if opts.SeedBuiltIns {
		fx, err := seed.DefaultFixtures()
		if err != nil {
			return err
		}
		if err := seed.BuiltIns(ctx, db, fx); err != nil {
			return fmt.Errorf("failed to seed built-ins: %w", err)
		}
	}
	return nil
}

// EnsureDevAdmin guarantees an ADMIN account in development when
// DEV_BOOTSTRAP_ADMIN is set. An existing account with the configured email
// is promoted; otherwise one is created with DEV_ADMIN_PASSWORD.
func EnsureDevAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAdmin {
		return nil
	}

	email := strings.TrimSpace(strings.ToLower(cfg.DevAdminEmail))
	if email == "" {
		email = defaultDevAdminEmail
	}

	users := repository.NewUserRepository(db)
	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.IsAdmin() {
			return nil
		}
		if _, err := users.SetRole(ctx, email, models.RoleAdmin); err != nil {
			return err
		}
		middleware.Logger.Info("development admin promoted", slog.String("email", email))
		return nil
	}

	if cfg.DevAdminPassword == "" {
		return fmt.Errorf("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DevAdminPassword), service.PasswordHashCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	username := defaultDevAdminUsername
	taken, err := users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if taken != nil {
		username = ""
	}
	name := "Administrator"
	admin := &models.User{
		Name:     &name,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if username != "" {
		admin.Username = &username
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	middleware.Logger.Info("development admin created", slog.String("email", email), slog.Uint64("user_id", uint64(admin.ID)))
	return nil
}
