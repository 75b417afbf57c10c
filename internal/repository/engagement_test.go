package repository

import (
	"context"
	"sync"
	"testing"

	"recipebox/internal/models"
	"recipebox/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func likeRows(t *testing.T, repo *engagementRepository, recipeID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, repo.db.Model(&models.Like{}).Where("recipe_id = ?", recipeID).Count(&n).Error)
	return n
}

func storedLikeCount(t *testing.T, repo *engagementRepository, recipeID uint) int64 {
	t.Helper()
	var recipe models.Recipe
	require.NoError(t, repo.db.Select("like_count").First(&recipe, recipeID).Error)
	return recipe.LikeCount
}

func TestEngagementRepository_ToggleLike(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewEngagementRepository(db).(*engagementRepository)
	ctx := context.Background()
	fan := testutil.CreateUser(t, db)
	recipe := testutil.CreateRecipe(t, db, testutil.CreateUser(t, db))

	liked, err := repo.ToggleLike(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.EqualValues(t, 1, storedLikeCount(t, repo, recipe.ID))

	liked, err = repo.ToggleLike(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.EqualValues(t, 0, storedLikeCount(t, repo, recipe.ID))
	assert.EqualValues(t, 0, likeRows(t, repo, recipe.ID))

	_, err = repo.ToggleLike(ctx, fan.ID, recipe.ID+100)
	assert.Equal(t, models.CodeNotFound, models.AsAppError(err).Code)
	assert.EqualValues(t, 0, likeRows(t, repo, recipe.ID+100))
}

func TestEngagementRepository_ToggleLike_CounterNeverNegative(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewEngagementRepository(db).(*engagementRepository)
	ctx := context.Background()
	fan := testutil.CreateUser(t, db)
	recipe := testutil.CreateRecipe(t, db, testutil.CreateUser(t, db))

	// A like row without the matching counter bump, as left by an import
	require.NoError(t, db.Create(&models.Like{UserID: fan.ID, RecipeID: recipe.ID}).Error)

	liked, err := repo.ToggleLike(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.EqualValues(t, 0, storedLikeCount(t, repo, recipe.ID))
}

func TestEngagementRepository_ConcurrentTogglesKeepCounterConsistent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewEngagementRepository(db).(*engagementRepository)
	ctx := context.Background()
	recipe := testutil.CreateRecipe(t, db, testutil.CreateUser(t, db))

	const fans = 6
	const togglesPerFan = 5
	users := make([]*models.User, fans)
	for i := range users {
		users[i] = testutil.CreateUser(t, db)
	}

	var wg sync.WaitGroup
	errs := make(chan error, fans*togglesPerFan)
	for _, u := range users {
		for i := 0; i < togglesPerFan; i++ {
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

	// An odd number of toggles per user leaves every user liking the recipe
	assert.EqualValues(t, fans, likeRows(t, repo, recipe.ID))
	assert.Equal(t, likeRows(t, repo, recipe.ID), storedLikeCount(t, repo, recipe.ID))
}

func TestEngagementRepository_ToggleSave(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()
	fan := testutil.CreateUser(t, db)
	recipe := testutil.CreateRecipe(t, db, testutil.CreateUser(t, db))

	for i, want := range []bool{true, false, true} {
		saved, err := repo.ToggleSave(ctx, fan.ID, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, want, saved, "toggle %d", i+1)
	}

	var n int64
	require.NoError(t, db.Model(&models.SavedRecipe{}).Where("user_id = ?", fan.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	_, err := repo.ToggleSave(ctx, fan.ID, 4242)
	assert.Equal(t, models.CodeNotFound, models.AsAppError(err).Code)
}

func TestEngagementRepository_ToggleFollow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db)
	bob := testutil.CreateUser(t, db)

	following, err := repo.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// The reverse edge is independent
	following, err = repo.ToggleFollow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, following)

	following, err = repo.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	_, err = repo.ToggleFollow(ctx, alice.ID, 777)
	appErr := models.AsAppError(err)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
	assert.Contains(t, appErr.Message, "User")
}
