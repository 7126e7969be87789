package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
)

var secret = []byte("test-secret")

func TestSignAndParseToken(t *testing.T) {
	rc := domain.RequestContext{UserID: 4, OwnerID: 1, DriverID: 7, Role: domain.RoleDriver, Name: "Ravi"}
	raw, err := SignToken(secret, rc, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	got, err := ParseToken(secret, raw)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got != rc {
		t.Fatalf("expected %+v, got %+v", rc, got)
	}
}

func TestParseTokenRejects(t *testing.T) {
	owner := domain.RequestContext{UserID: 1, OwnerID: 1, Role: domain.RoleOwner, Name: "Asha"}

	expired, _ := SignToken(secret, owner, time.Hour, time.Now().Add(-2*time.Hour))
	wrongKey, _ := SignToken([]byte("other"), owner, time.Hour, time.Now())
	noDriver, _ := SignToken(secret, domain.RequestContext{UserID: 2, OwnerID: 1, Role: domain.RoleDriver}, time.Hour, time.Now())
	noOwner, _ := SignToken(secret, domain.RequestContext{UserID: 3, Role: domain.RoleOwner}, time.Hour, time.Now())
	badRole, _ := SignToken(secret, domain.RequestContext{UserID: 3, OwnerID: 1, Role: "admin"}, time.Hour, time.Now())

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1, OwnerID: 1, Role: "owner"}).SignedString(secret)
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID: 1, OwnerID: 1, Role: "owner",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(secret)

	cases := map[string]string{
		"expired":         expired,
		"wrong key":       wrongKey,
		"driver no id":    noDriver,
		"no owner":        noOwner,
		"unknown role":    badRole,
		"no expiry":       noExp,
		"other algorithm": hs512,
		"garbage":         "not.a.token",
	}
	for name, raw := range cases {
		if _, err := ParseToken(secret, raw); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestTokenNeedsSecret(t *testing.T) {
	if _, err := SignToken(nil, domain.RequestContext{}, time.Hour, time.Now()); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
	if _, err := ParseToken(nil, "x"); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if !CheckPassword(hash, "correct horse") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "wrong horse") || CheckPassword("", "correct horse") {
		t.Fatalf("expected mismatch")
	}
}
