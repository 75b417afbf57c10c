package server

import (
	"fmt"
	"net/http"
	"testing"

	"recipebox/internal/models"
	"recipebox/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAds(t *testing.T) {
	env := newTestEnv(t)
	link := "https://example.com"
	ad := &models.Ad{Name: "Pans", LinkURL: &link, IsActive: true}
	require.NoError(t, env.db.Create(ad).Error)
	space := &models.AdSpace{
		Name:        "Inline",
		Slug:        "inline-banner",
		Location:    models.LocationInlineBanner,
		CurrentAdID: &ad.ID,
		IsActive:    true,
	}
	require.NoError(t, env.db.Create(space).Error)

	status, raw := env.do(t, http.MethodGet, "/api/ads?location=inline-banner", nil, "")
	require.Equal(t, http.StatusOK, status, string(raw))
	spaces := decode[[]models.AdSpace](t, raw)
	require.Len(t, spaces, 1)
	require.NotNil(t, spaces[0].CurrentAd)
	assert.Equal(t, ad.ID, spaces[0].CurrentAd.ID)

	status, raw = env.do(t, http.MethodGet, "/api/ads?location=footer_banner", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]models.AdSpace](t, raw))

	status, raw = env.do(t, http.MethodGet, "/api/ads?location=sidebar", nil, "")
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.JSONEq(t, `[]`, string(raw))

	track := fmt.Sprintf("/api/ads/%d/track", ad.ID)
	status, raw = env.do(t, http.MethodPost, track, map[string]string{"type": "hover"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, `Invalid tracking type. Must be "impression" or "click"`, errorBody(t, raw).Error)

	for _, eventType := range []string{"CLICK", "Impression", " click"} {
		status, _ = env.do(t, http.MethodPost, track, map[string]string{"type": eventType}, "")
		assert.Equal(t, http.StatusBadRequest, status, eventType)
	}

	for _, eventType := range []string{"impression", "impression", "click"} {
		status, raw = env.do(t, http.MethodPost, track, map[string]string{"type": eventType}, "")
		require.Equal(t, http.StatusOK, status)
		resp := decode[struct {
			Success bool   `json:"success"`
			Type    string `json:"type"`
		}](t, raw)
		assert.True(t, resp.Success)
		assert.Equal(t, eventType, resp.Type)
	}

	var stored models.Ad
	require.NoError(t, env.db.First(&stored, ad.ID).Error)
	assert.EqualValues(t, 2, stored.Impressions)
	assert.EqualValues(t, 1, stored.Clicks)

	status, _ = env.do(t, http.MethodPost, "/api/ads/999999/track", map[string]string{"type": "click"}, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTrackAd_CountsEveryCall(t *testing.T) {
	const calls = 150

	tests := []struct {
		name  string
		redis bool
	}{
		{"without redis", false},
		{"with redis", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env *testEnv
			if tt.redis {
				mr := miniredis.RunT(t)
				rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
				t.Cleanup(func() { _ = rdb.Close() })
				env = newTestEnv(t, rdb)
			} else {
				env = newTestEnv(t)
			}

			ad := &models.Ad{Name: "Knives", IsActive: true}
			require.NoError(t, env.db.Create(ad).Error)

			track := fmt.Sprintf("/api/ads/%d/track", ad.ID)
			for i := 0; i < calls; i++ {
				status, raw := env.do(t, http.MethodPost, track, map[string]string{"type": "impression"}, "")
				require.Equal(t, http.StatusOK, status, "call %d: %s", i+1, raw)
			}

			var stored models.Ad
			require.NoError(t, env.db.First(&stored, ad.ID).Error)
			assert.EqualValues(t, calls, stored.Impressions)
		})
	}
}

func TestGetRecipe_CountsEveryView(t *testing.T) {
	const views = 130
	env := newTestEnv(t)
	recipe := testutil.CreateRecipe(t, env.db, testutil.CreateUser(t, env.db))

	path := fmt.Sprintf("/api/recipes/%d", recipe.ID)
	for i := 0; i < views; i++ {
		status, raw := env.do(t, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, status, "view %d: %s", i+1, raw)
	}

	var stored models.Recipe
	require.NoError(t, env.db.First(&stored, recipe.ID).Error)
	assert.EqualValues(t, recipe.ViewCount+views, stored.ViewCount)
}

func TestGlobalLimiter_StillAppliesElsewhere(t *testing.T) {
	env := newTestEnv(t)

	var last int
	for i := 0; i < 101; i++ {
		last, _ = env.do(t, http.MethodGet, "/api/categories", nil, "")
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
