package server

import (
	"net/http"
	"testing"

	"recipebox/internal/models"
	"recipebox/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateUser(t, env.db, func(u *models.User) { u.Role = models.RoleAdmin })
	creator := testutil.CreateUser(t, env.db)
	body := map[string]interface{}{"name": "Quick Meals", "icon": "⚡", "order": 5}

	status, _ := env.do(t, http.MethodPost, "/api/categories", body, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, raw := env.do(t, http.MethodPost, "/api/categories", body, tokenFor(t, creator))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Admin access required", errorBody(t, raw).Error)

	status, raw = env.do(t, http.MethodPost, "/api/categories", body, tokenFor(t, admin))
	require.Equal(t, http.StatusCreated, status, string(raw))
	created := decode[models.Category](t, raw)
	assert.Equal(t, "quick-meals", created.Slug)
	assert.Equal(t, 5, created.Order)

	status, raw = env.do(t, http.MethodPost, "/api/categories", body, tokenFor(t, admin))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, models.CodeConflict, errorBody(t, raw).Code)

	testutil.CreateRecipe(t, env.db, creator, func(r *models.Recipe) { r.CategoryID = &created.ID })
	status, raw = env.do(t, http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, status)
	list := decode[[]models.Category](t, raw)
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, list[0].RecipeCount)
}
