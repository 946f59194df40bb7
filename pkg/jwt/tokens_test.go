package jwt

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "unit-test-secret"

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken("user-123", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := Parse(token, testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("unexpected user id: %q", claims.UserID)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) <= 0 {
		t.Fatalf("expected expiry in the future")
	}
}

func TestParseExpiredToken(t *testing.T) {
	token, err := GenerateToken("user-123", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Parse(token, testSecret); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestParseWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-123", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Parse(token, "other-secret"); err == nil {
		t.Fatalf("expected signature mismatch to be rejected")
	}
}

func TestParseTamperedToken(t *testing.T) {
	token, err := GenerateToken("user-123", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := Parse(tampered, testSecret); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
	if _, err := Parse("garbage", testSecret); err == nil {
		t.Fatalf("expected garbage token to be rejected")
	}
}
