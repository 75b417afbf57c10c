package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokeToken(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := NewClient(mr.Addr())
	require.NoError(t, err)
	defer rdb.Close()
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, rdb, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, RevokeToken(ctx, rdb, "abc", time.Now().Add(time.Hour)))

	revoked, err = IsTokenRevoked(ctx, rdb, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.TTL(RevokedTokenKey("abc")) > 59*time.Minute)

	mr.FastForward(time.Hour + time.Second)
	revoked, err = IsTokenRevoked(ctx, rdb, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeToken_AlreadyExpired(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := NewClient(mr.Addr())
	require.NoError(t, err)
	defer rdb.Close()

	require.NoError(t, RevokeToken(context.Background(), rdb, "old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(RevokedTokenKey("old")))
}

func TestNilClient(t *testing.T) {
	revoked, err := IsTokenRevoked(context.Background(), nil, "x")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Error(t, RevokeToken(context.Background(), nil, "x", time.Now().Add(time.Hour)))
}

func TestNewClient_URL(t *testing.T) {
	c, err := NewClient("redis://localhost:6390/2")
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, "localhost:6390", c.Options().Addr)
	assert.Equal(t, 2, c.Options().DB)

	_, err = NewClient("redis://%zz")
	assert.Error(t, err)
}
