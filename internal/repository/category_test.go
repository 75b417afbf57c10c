package repository

import (
	"context"
	"testing"

	"recipebox/internal/models"
	"recipebox/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_ListOrderAndCounts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db)

	dinner := testutil.CreateCategory(t, db, "dinner", 2)
	breakfast := testutil.CreateCategory(t, db, "breakfast", 1)
	testutil.CreateCategory(t, db, "desserts", 3)

	testutil.CreateRecipe(t, db, owner, func(r *models.Recipe) { r.CategoryID = &dinner.ID })
	testutil.CreateRecipe(t, db, owner, func(r *models.Recipe) {
		r.CategoryID = &dinner.ID
		r.Published = false
	})
	testutil.CreateRecipe(t, db, owner, func(r *models.Recipe) { r.CategoryID = &breakfast.ID })

	categories, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, []string{"breakfast", "dinner", "desserts"},
		[]string{categories[0].Slug, categories[1].Slug, categories[2].Slug})
	assert.EqualValues(t, 1, categories[0].RecipeCount)
	assert.EqualValues(t, 2, categories[1].RecipeCount)
	assert.EqualValues(t, 0, categories[2].RecipeCount)
}

func TestCategoryRepository_Lookups(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	category := &models.Category{Name: "Vegan", Slug: "vegan", Order: 4}
	require.NoError(t, repo.Create(ctx, category))

	bySlug, err := repo.GetBySlug(ctx, "vegan")
	require.NoError(t, err)
	require.NotNil(t, bySlug)
	assert.Equal(t, category.ID, bySlug.ID)

	missing, err := repo.GetBySlug(ctx, "keto")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.GetByID(ctx, 9999)
	assert.Equal(t, models.CodeNotFound, models.AsAppError(err).Code)

	err = repo.Create(ctx, &models.Category{Name: "Vegan again", Slug: "vegan"})
	assert.Equal(t, models.CodeConflict, models.AsAppError(err).Code)
}
