//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"

	"recipebox/internal/models"
	"recipebox/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// uniqueUser keeps rows from earlier runs on the shared database out of the way.
func uniqueUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	tag := uuid.NewString()[:12]
	return testutil.CreateUser(t, db, func(u *models.User) {
		u.Email = "pg-" + tag + "@example.com"
		u.Username = testutil.Ptr("pg" + tag)
	})
}

// TestIntegration_ConcurrentTogglesPostgres runs the toggles on a real
// connection pool so only the recipe row lock orders them.
func TestIntegration_ConcurrentTogglesPostgres(t *testing.T) {
	db := testutil.NewPostgresDB(t)
	repo := NewEngagementRepository(db).(*engagementRepository)
	ctx := context.Background()

	owner := uniqueUser(t, db)
	recipe := testutil.CreateRecipe(t, db, owner, func(r *models.Recipe) {
		r.Slug = "pg-toggle-" + uuid.NewString()[:12]
	})

	const fans = 8
	users := make([]*models.User, fans)
	for i := range users {
		users[i] = uniqueUser(t, db)
	}
	t.Cleanup(func() {
		ids := []uint{owner.ID}
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		db.Where("recipe_id = ?", recipe.ID).Delete(&models.Like{})
		db.Where("recipe_id = ?", recipe.ID).Delete(&models.SavedRecipe{})
		db.Delete(&models.Recipe{}, recipe.ID)
		db.Delete(&models.User{}, ids)
	})

	tests := []struct {
		name          string
		togglesPerFan int
		wantRows      int64
	}{
		// Parity decides the end state: odd leaves a like, even removes it
		{"odd toggles", 5, fans},
		{"even toggles", 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, db.Where("recipe_id = ?", recipe.ID).Delete(&models.Like{}).Error)
			require.NoError(t, db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).
				UpdateColumn("like_count", 0).Error)

			var wg sync.WaitGroup
			errs := make(chan error, fans*tt.togglesPerFan)
			for _, u := range users {
				for i := 0; i < tt.togglesPerFan; i++ {
					wg.Add(1)
					go func(userID uint) {
						defer wg.Done()
						if _, err := repo.ToggleLike(ctx, userID, recipe.ID); err != nil {
							errs <- err
						}
					}(u.ID)
				}
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantRows, likeRows(t, repo, recipe.ID))
			assert.Equal(t, likeRows(t, repo, recipe.ID), storedLikeCount(t, repo, recipe.ID))
		})
	}

	t.Run("saves", func(t *testing.T) {
		var wg sync.WaitGroup
		for _, u := range users {
			for i := 0; i < 3; i++ {
				wg.Add(1)
				go func(userID uint) {
					defer wg.Done()
					_, err := repo.ToggleSave(ctx, userID, recipe.ID)
					assert.NoError(t, err)
				}(u.ID)
			}
		}
		wg.Wait()

		var saved int64
		require.NoError(t, db.Model(&models.SavedRecipe{}).Where("recipe_id = ?", recipe.ID).Count(&saved).Error)
		assert.EqualValues(t, fans, saved)
	})
}
