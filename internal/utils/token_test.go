package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessToken(t *testing.T) {
	const secret = "test-secret"

	at, err := NewAccessToken(secret, 42, "ADMIN", 7, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if at.Token == "" {
		t.Fatalf("expected a signed token")
	}

	parsed, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		t.Fatalf("expected valid MapClaims")
	}
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Fatalf("unexpected sub claim: %v", claims["sub"])
	}
	if claims["role"] != "ADMIN" {
		t.Fatalf("unexpected role claim: %v", claims["role"])
	}
	if dept, _ := claims["dept_id"].(float64); uint64(dept) != 7 {
		t.Fatalf("unexpected dept_id claim: %v", claims["dept_id"])
	}

	// Wrong secret must not verify.
	if _, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"})); err == nil {
		t.Fatalf("expected verification with wrong secret to fail")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	a, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	b, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if a.Raw == b.Raw {
		t.Fatalf("expected distinct random tokens")
	}
	if len(a.Raw) != 96 {
		t.Fatalf("expected 96 hex chars, got %d", len(a.Raw))
	}
	if HashRefreshRaw(a.Raw) != HashRefreshRaw(a.Raw) {
		t.Fatalf("hash must be deterministic")
	}
	if HashRefreshRaw(a.Raw) == HashRefreshRaw(b.Raw) {
		t.Fatalf("different tokens must hash differently")
	}
	if len(HashRefreshRaw(a.Raw)) != 64 {
		t.Fatalf("expected 64 hex chars of SHA-256")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!", 4) // minimal cost keeps the test fast
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "s3cret!") {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatalf("expected wrong password to fail")
	}

	// An out-of-range cost must not error out; it falls back to the default.
	hash, err = HashPassword("s3cret!", 99)
	if err != nil {
		t.Fatalf("HashPassword with out-of-range cost: %v", err)
	}
	if !VerifyPassword(hash, "s3cret!") {
		t.Fatalf("expected fallback-cost hash to verify")
	}
}
