package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenCarriesSubjectAndRole(t *testing.T) {
	at, err := NewAccessToken("test-secret", "ada@example.com", "customer", 15)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if at.Exp.Before(time.Now()) {
		t.Fatal("token already expired")
	}

	tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["sub"] != "ada@example.com" || claims["role"] != "customer" {
		t.Fatalf("claims = %v", claims)
	}
}

func TestRefreshTokenHashIsStableAndOpaque(t *testing.T) {
	rt, err := NewRefreshToken(14)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Fatalf("raw length = %d, want 96", len(rt.Raw))
	}
	h1 := HashRefreshRaw(rt.Raw)
	h2 := HashRefreshRaw(rt.Raw)
	if h1 != h2 {
		t.Fatal("hash not deterministic")
	}
	if len(h1) != 64 || h1 == rt.Raw {
		t.Fatalf("hash looks wrong: %q", h1)
	}

	other, _ := NewRefreshToken(14)
	if HashRefreshRaw(other.Raw) == h1 {
		t.Fatal("distinct tokens hashed equal")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "hunter22") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "hunter23") {
		t.Fatal("wrong password accepted")
	}
}
