package utils

import (
	"testing"

	"github.com/google/uuid"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/config"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("password stored in the clear")
	}

	if !CheckPasswordHash("secret123", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

func TestGenerateAndValidateJWT(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret", ExpirationHours: 1}
	userID := uuid.New()

	token, err := GenerateJWT(userID, cfg)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ValidateJWT(token, cfg)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %s, want %s", claims.UserID, userID)
	}

	if _, err := ValidateJWT(token, &config.JWTConfig{Secret: "other-secret"}); err == nil {
		t.Error("token validated with the wrong secret")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana.Garcia@Example.COM "); got != "ana.garcia@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestNormalizeDNI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12.345.678", "12345678"},
		{" 12 345 678 ", "12345678"},
		{"12345678", "12345678"},
	}
	for _, tt := range tests {
		if got := NormalizeDNI(tt.in); got != tt.want {
			t.Errorf("NormalizeDNI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
