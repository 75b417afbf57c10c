package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "blacklist:"

// RevokedTokenKey is the key marking a token id as logged out.
func RevokedTokenKey(jti string) string {
	return revokedTokenPrefix + jti
}

// RevokeToken marks jti as revoked until the token would have expired anyway.
func RevokeToken(ctx context.Context, rdb *redis.Client, jti string, expiresAt time.Time) error {
	if rdb == nil {
		return errors.New("redis client is nil")
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return rdb.Set(ctx, RevokedTokenKey(jti), "1", ttl).Err()
}

// IsTokenRevoked reports whether jti has been revoked.
func IsTokenRevoked(ctx context.Context, rdb *redis.Client, jti string) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	n, err := rdb.Exists(ctx, RevokedTokenKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
