package server

import (
	"fmt"
	"net/http"
	"testing"

	"recipebox/internal/models"
	"recipebox/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecipe(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db)
	token := tokenFor(t, user)
	testutil.CreateCategory(t, env.db, "breakfast", 1)

	tests := []struct {
		name    string
		body    map[string]interface{}
		token   string
		status  int
		message string
	}{
		{"anonymous", map[string]interface{}{"title": "Toast"}, "", http.StatusUnauthorized, "Authentication required"},
		{"missing title", map[string]interface{}{"ingredients": []interface{}{map[string]string{"item": "egg"}}, "instructions": []string{"Fry"}}, token, http.StatusBadRequest, "Title is required"},
		{"missing ingredients", map[string]interface{}{"title": "Toast", "ingredients": []interface{}{}, "instructions": []string{"Toast"}}, token, http.StatusBadRequest, "At least one ingredient is required"},
		{"missing instructions", map[string]interface{}{"title": "Toast", "ingredients": []interface{}{map[string]string{"item": "bread"}}}, token, http.StatusBadRequest, "At least one instruction is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw := env.do(t, http.MethodPost, "/api/recipes", tt.body, tt.token)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, errorBody(t, raw).Error)
		})
	}

	body := map[string]interface{}{
		"title":        "Fluffy Pancakes!",
		"ingredients":  []interface{}{map[string]string{"item": "flour", "amount": "200", "unit": "g"}},
		"instructions": []interface{}{"Whisk", map[string]interface{}{"step": 2, "text": "Fry"}},
		"prepTime":     "10",
		"mealType":     []string{"breakfast"},
		"published":    true,
	}
	status, raw := env.do(t, http.MethodPost, "/api/recipes", body, token)
	require.Equal(t, http.StatusCreated, status, string(raw))

	resp := decode[struct {
		Message string        `json:"message"`
		Recipe  models.Recipe `json:"recipe"`
	}](t, raw)
	assert.Equal(t, "Recipe created successfully", resp.Message)
	assert.Equal(t, "fluffy-pancakes", resp.Recipe.Slug)
	assert.Equal(t, models.DifficultyMedium, resp.Recipe.Difficulty)
	assert.Equal(t, models.InstructionList{"Whisk", "Fry"}, resp.Recipe.Instructions)
	require.NotNil(t, resp.Recipe.PrepTime)
	assert.Equal(t, 10, *resp.Recipe.PrepTime)
	require.NotNil(t, resp.Recipe.Category)
	assert.Equal(t, "breakfast", resp.Recipe.Category.Slug)
	assert.NotNil(t, resp.Recipe.PublishedAt)

	status, raw = env.do(t, http.MethodPost, "/api/recipes", body, token)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "fluffy-pancakes-1", decode[struct {
		Recipe models.Recipe `json:"recipe"`
	}](t, raw).Recipe.Slug)
}

func TestGetRecipes_PaginationAndDraftsBySlug(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.CreateUser(t, env.db)
	for i := 0; i < 25; i++ {
		testutil.CreateRecipe(t, env.db, owner)
	}
	testutil.CreateRecipe(t, env.db, owner, func(r *models.Recipe) {
		r.Slug = "my-draft"
		r.Published = false
		r.PublishedAt = nil
	})

	seen := map[uint]bool{}
	for page, want := range map[int]int{1: 12, 2: 12, 3: 1} {
		status, raw := env.do(t, http.MethodGet, fmt.Sprintf("/api/recipes?page=%d&limit=12", page), nil, "")
		require.Equal(t, http.StatusOK, status)
		got := decode[models.RecipePage](t, raw)
		assert.Len(t, got.Recipes, want, "page %d", page)
		assert.Equal(t, models.Pagination{Page: page, Limit: 12, Total: 25, TotalPages: 3}, got.Pagination)
		for _, r := range got.Recipes {
			assert.False(t, seen[r.ID], "recipe %d repeated", r.ID)
			seen[r.ID] = true
			assert.NotEqual(t, "my-draft", r.Slug)
		}
	}
	assert.Len(t, seen, 25)

	status, raw := env.do(t, http.MethodGet, "/api/recipes?slug=my-draft", nil, "")
	require.Equal(t, http.StatusOK, status)
	got := decode[models.RecipePage](t, raw)
	require.Len(t, got.Recipes, 1)
	assert.False(t, got.Recipes[0].Published)

	// Malformed paging falls back to defaults
	status, raw = env.do(t, http.MethodGet, "/api/recipes?page=abc&limit=-3", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 12, decode[models.RecipePage](t, raw).Pagination.Limit)
}

func TestGetRecipe_CountsEveryView(t *testing.T) {
	env := newTestEnv(t)
	recipe := testutil.CreateRecipe(t, env.db, testutil.CreateUser(t, env.db))
	path := fmt.Sprintf("/api/recipes/%d", recipe.ID)

	for want := int64(1); want <= 3; want++ {
		status, raw := env.do(t, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, status)
		detail := decode[models.Recipe](t, raw)
		assert.Equal(t, want, detail.ViewCount)
		assert.NotNil(t, detail.Counts)
	}

	status, raw := env.do(t, http.MethodGet, "/api/recipes/999999", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.CodeNotFound, errorBody(t, raw).Code)

	status, raw = env.do(t, http.MethodGet, "/api/recipes/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid ID", errorBody(t, raw).Error)
}

func TestUpdateAndDeleteRecipe_CheckOrder(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.CreateUser(t, env.db)
	stranger := testutil.CreateUser(t, env.db)
	recipe := testutil.CreateRecipe(t, env.db, owner)
	path := fmt.Sprintf("/api/recipes/%d", recipe.ID)
	change := map[string]interface{}{"title": "Better Pancakes"}

	for _, method := range []string{http.MethodPatch, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			status, _ := env.do(t, method, path, change, "")
			assert.Equal(t, http.StatusUnauthorized, status)

			status, _ = env.do(t, method, "/api/recipes/999999", change, tokenFor(t, stranger))
			assert.Equal(t, http.StatusNotFound, status)

			status, raw := env.do(t, method, path, change, tokenFor(t, stranger))
			assert.Equal(t, http.StatusForbidden, status)
			assert.Equal(t, "You can only modify your own recipes", errorBody(t, raw).Error)
		})
	}

	status, raw := env.do(t, http.MethodPatch, path, change, tokenFor(t, owner))
	require.Equal(t, http.StatusOK, status, string(raw))
	updated := decode[models.Recipe](t, raw)
	assert.Equal(t, "Better Pancakes", updated.Title)
	assert.Equal(t, recipe.Slug, updated.Slug)

	status, raw = env.do(t, http.MethodDelete, path, nil, tokenFor(t, owner))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Recipe deleted successfully", decode[map[string]string](t, raw)["message"])

	status, _ = env.do(t, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}
