// Package middleware provides authentication, logging, tracing and rate limiting
// middleware for the HTTP server.
package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"recipebox/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token claim values shared by issuer and verifier.
const (
	TokenIssuer   = "recipebox-api"
	TokenAudience = "recipebox-client"
	TokenTTL      = 7 * 24 * time.Hour
)

var (
	ErrMissingAuthHeader = errors.New("authorization header required")
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
	ErrInvalidToken      = errors.New("invalid or expired token")
)

var cfg *config.Config

// InitMiddleware initializes middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// TokenClaims is the verified identity carried by a session token.
type TokenClaims struct {
	UserID    uint
	JTI       string
	ExpiresAt time.Time
}

// IssueToken signs an HS256 session token for userID.
func IssueToken(secret string, userID uint, ttl time.Duration) (string, *TokenClaims, error) {
	if secret == "" {
		return "", nil, errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := &TokenClaims{
		UserID:    userID,
		JTI:       uuid.NewString(),
		ExpiresAt: now.Add(ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": TokenIssuer,
		"aud": TokenAudience,
		"jti": claims.JTI,
		"iat": now.Unix(),
		"exp": claims.ExpiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// ParseToken verifies signature, issuer, audience and expiry and returns the claims.
func ParseToken(secret, tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, ErrInvalidToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{UserID: uint(userID), JTI: jti, ExpiresAt: exp.Time}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return "", ErrMissingAuthHeader
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidAuthHeader
	}
	return parts[1], nil
}

// CurrentUserID returns the authenticated user stored by the auth middleware.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok && id != 0
}
