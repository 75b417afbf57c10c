// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"recipebox/internal/database"
	"recipebox/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Uint64

// NewTestDB opens a migrated in-memory SQLite database. The pool holds a
// single connection so transactions from concurrent goroutines serialize the
// same way row locks serialize them on PostgreSQL.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := database.GormConfig()
	cfg.Logger = logger.Discard
	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func next() uint64 {
	return seq.Add(1)
}

// CreateUser inserts a user with a unique email and username.
func CreateUser(t *testing.T, db *gorm.DB, mutate ...func(*models.User)) *models.User {
	t.Helper()
	n := next()
	name := fmt.Sprintf("Cook %d", n)
	username := fmt.Sprintf("cook%d", n)
	u := &models.User{
		Name:     &name,
		Email:    fmt.Sprintf("cook%d@example.com", n),
		Username: &username,
		Password: "$2a$12$placeholderplaceholderplaceholderplaceholderplace",
		Role:     models.RoleCreator,
	}
	for _, m := range mutate {
		m(u)
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateRecipe inserts a published recipe owned by owner.
func CreateRecipe(t *testing.T, db *gorm.DB, owner *models.User, mutate ...func(*models.Recipe)) *models.Recipe {
	t.Helper()
	n := next()
	now := time.Now().UTC()
	r := &models.Recipe{
		Title:        fmt.Sprintf("Recipe %d", n),
		Slug:         fmt.Sprintf("recipe-%d", n),
		Ingredients:  models.IngredientList{{Item: "flour", Amount: "200", Unit: "g"}},
		Instructions: models.InstructionList{"Mix", "Bake"},
		Difficulty:   models.DifficultyMedium,
		Published:    true,
		PublishedAt:  &now,
		UserID:       owner.ID,
	}
	for _, m := range mutate {
		m(r)
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

// CreateCategory inserts a category with the given slug.
func CreateCategory(t *testing.T, db *gorm.DB, slug string, order int) *models.Category {
	t.Helper()
	c := &models.Category{Name: slug, Slug: slug, Order: order}
	require.NoError(t, db.Create(c).Error)
	return c
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
