package service

import (
	"context"
	"testing"

	"recipebox/internal/models"
	"recipebox/internal/repository"
	"recipebox/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_Create(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db))
	ctx := context.Background()

	category, err := svc.Create(ctx, CreateCategoryInput{Name: " Quick Meals ", Icon: strPtr("⚡"), Order: 5})
	require.NoError(t, err)
	assert.Equal(t, "quick-meals", category.Slug)
	assert.Equal(t, "Quick Meals", category.Name)

	_, err = svc.Create(ctx, CreateCategoryInput{Name: "quick meals"})
	appErr := assertAppError(t, err, models.CodeConflict)
	assert.Equal(t, "Category already exists", appErr.Message)

	_, err = svc.Create(ctx, CreateCategoryInput{Name: "   "})
	assertValidationError(t, err)
	_, err = svc.Create(ctx, CreateCategoryInput{Name: "!!!"})
	assertValidationError(t, err)

	categories, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}
