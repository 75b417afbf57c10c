package service

import (
	"context"
	"testing"
	"time"

	"recipebox/internal/cache"
	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/repository"
	"recipebox/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "service-test-secret-0123456789abcdef0123"

func TestAuthService_SignupAndLogin(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testSecret, nil)
	ctx := context.Background()

	session, err := svc.Signup(ctx, SignupInput{Name: " Ada ", Email: " Ada@Example.com ", Password: "Sup3r$ecret", Username: "ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", session.User.Email)
	assert.Equal(t, models.RoleCreator, session.User.Role)
	assert.NotEqual(t, "Sup3r$ecret", session.User.Password)

	claims, err := middleware.ParseToken(testSecret, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)

	login, err := svc.Login(ctx, LoginInput{Email: "ADA@example.com", Password: "Sup3r$ecret"})
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong"})
	assertAppError(t, err, models.CodeUnauthorized)
	_, err = svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "Sup3r$ecret"})
	assertAppError(t, err, models.CodeUnauthorized)

	_, err = svc.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "Sup3r$ecret"})
	assertAppError(t, err, models.CodeConflict)
	_, err = svc.Signup(ctx, SignupInput{Name: "Other", Email: "other@example.com", Password: "Sup3r$ecret", Username: "ada"})
	assertAppError(t, err, models.CodeConflict)
}

func TestAuthService_SignupValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testSecret, nil)

	tests := []struct {
		name string
		in   SignupInput
	}{
		{"missing name", SignupInput{Email: "a@b.co", Password: "Sup3r$ecret"}},
		{"bad email", SignupInput{Name: "A", Email: "nope", Password: "Sup3r$ecret"}},
		{"weak password", SignupInput{Name: "A", Email: "a@b.co", Password: "password"}},
		{"bad username", SignupInput{Name: "A", Email: "a@b.co", Password: "Sup3r$ecret", Username: "-x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.in)
			assertValidationError(t, err)
		})
	}
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := testutil.NewTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testSecret, rdb)
	ctx := context.Background()

	session, err := svc.Signup(ctx, SignupInput{Name: "Bo", Email: "bo@example.com", Password: "Sup3r$ecret"})
	require.NoError(t, err)
	claims, err := middleware.ParseToken(testSecret, session.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.JTI, claims.ExpiresAt))

	revoked, err := cache.IsTokenRevoked(ctx, rdb, claims.JTI)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.InDelta(t, time.Until(claims.ExpiresAt).Seconds(), mr.TTL(cache.RevokedTokenKey(claims.JTI)).Seconds(), 5)
}

func TestAuthService_LogoutWithoutRedis(t *testing.T) {
	svc := NewAuthService(nil, testSecret, nil)
	assert.NoError(t, svc.Logout(context.Background(), "jti", time.Now().Add(time.Hour)))
}
