package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	a := NewJWTAuthenticator("testsecret", "dormbase", "dormbase")

	tokenString, err := a.GenerateToken(42, "s.lee@yorku.ca", RoleUser)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	token, err := a.ValidateToken(tokenString)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if !token.Valid {
		t.Fatal("expected token to be valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}
	if got := claims["name"]; got != "s.lee@yorku.ca" {
		t.Errorf("name claim = %v, want s.lee@yorku.ca", got)
	}
	if got := claims["role"]; got != "user" {
		t.Errorf("role claim = %v, want user", got)
	}
	if got := claims["sub"]; got != float64(42) {
		t.Errorf("sub claim = %v, want 42", got)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		t.Fatalf("read exp: %v", err)
	}
	until := time.Until(exp.Time)
	if until > TokenExpiry || until < TokenExpiry-time.Minute {
		t.Errorf("expiry %v not within 24h window", until)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	a := NewJWTAuthenticator("secret-a", "dormbase", "dormbase")
	b := NewJWTAuthenticator("secret-b", "dormbase", "dormbase")

	tokenString, err := a.GenerateToken(1, "x@example.com", RoleUser)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := b.ValidateToken(tokenString); err == nil {
		t.Fatal("expected validation to fail with wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	a := NewJWTAuthenticator("testsecret", "dormbase", "dormbase")
	if _, err := a.ValidateToken("not.a.token"); err == nil {
		t.Fatal("expected validation to fail for garbage input")
	}
}
