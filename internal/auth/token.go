package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
)

var (
	ErrNoSecret     = errors.New("jwt secret not configured")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carried by access tokens.
type Claims struct {
	UserID   int64  `json:"user_id"`
	OwnerID  int64  `json:"owner_id"`
	DriverID int64  `json:"driver_id,omitempty"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 token for rc that expires after ttl.
func SignToken(secret []byte, rc domain.RequestContext, ttl time.Duration, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSecret
	}
	claims := Claims{
		UserID:   rc.UserID,
		OwnerID:  rc.OwnerID,
		DriverID: rc.DriverID,
		Role:     string(rc.Role),
		Name:     rc.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies an HS256 token and turns its claims into a request
// context. Tokens without an expiry or with an unknown role are rejected.
func ParseToken(secret []byte, raw string) (domain.RequestContext, error) {
	if len(secret) == 0 {
		return domain.RequestContext{}, ErrNoSecret
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	claims := &Claims{}
	token, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return domain.RequestContext{}, ErrInvalidToken
	}

	role := domain.Role(strings.ToLower(claims.Role))
	switch {
	case role != domain.RoleOwner && role != domain.RoleDriver:
		return domain.RequestContext{}, ErrInvalidToken
	case claims.OwnerID <= 0:
		return domain.RequestContext{}, ErrInvalidToken
	case role == domain.RoleDriver && claims.DriverID <= 0:
		return domain.RequestContext{}, ErrInvalidToken
	}

	return domain.RequestContext{
		UserID:   claims.UserID,
		OwnerID:  claims.OwnerID,
		DriverID: claims.DriverID,
		Role:     role,
		Name:     claims.Name,
	}, nil
}
