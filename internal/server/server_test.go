package server

import (
	"net/http"
	"testing"

	"recipebox/internal/config"
	"recipebox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecks(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, status)

	status, raw := env.do(t, http.MethodGet, "/health/ready", nil, "")
	require.Equal(t, http.StatusOK, status)
	body := decode[struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}](t, raw)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Checks["database"])
	assert.Equal(t, "unavailable", body.Checks["redis"])
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	status, raw := env.do(t, http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.CodeNotFound, errorBody(t, raw).Code)
}

func TestSecurityHeadersAndCORS(t *testing.T) {
	env := newTestEnv(t)
	req := newRequest(http.MethodGet, "/health/live")
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestNewServerWithDeps_RequiresDatabase(t *testing.T) {
	_, err := NewServerWithDeps(&config.Config{}, nil, nil)
	assert.Error(t, err)
}

func TestParseID_RejectsBadIDs(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/recipes/abc", "/api/recipes/0", "/api/recipes/-3/comments"} {
		status, raw := env.do(t, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusBadRequest, status, path)
		assert.Equal(t, "Invalid ID", errorBody(t, raw).Error, path)
	}
}
