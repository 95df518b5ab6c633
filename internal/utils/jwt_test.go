package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessToken(t *testing.T) {
	access, err := NewAccessToken("secret", 42, "passenger", 15)
	if err != nil {
		t.Fatal(err)
	}
	if access.Token == "" {
		t.Fatal("empty token")
	}
	if remaining := time.Until(access.Exp); remaining < 14*time.Minute || remaining > 15*time.Minute {
		t.Fatalf("expiry %v from now, want ~15m", remaining)
	}

	parsed, err := jwt.Parse(access.Token, func(*jwt.Token) (any, error) {
		return []byte("secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatal(err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Fatalf("sub = %v, want 42", claims["sub"])
	}
	if claims["role"] != "passenger" {
		t.Fatalf("role = %v", claims["role"])
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	access, err := NewAccessToken("secret", 1, "admin", 5)
	if err != nil {
		t.Fatal(err)
	}
	_, err = jwt.Parse(access.Token, func(*jwt.Token) (any, error) {
		return []byte("other"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err == nil {
		t.Fatal("token verified with the wrong secret")
	}
}
