package utils

import (
	"testing"
)

func TestHashPassword(t *testing.T) {
	password := "secret"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !CheckPassword(password, hash) {
		t.Errorf("Expected password check to pass")
	}

	if CheckPassword("wrongpassword", hash) {
		t.Errorf("Expected password check to fail")
	}
}

func TestJWT(t *testing.T) {
	secret := "supersecret"
	userID := "123"
	role := "coach"
	sessionID := "0b6f1d7e-5a55-4b1e-8d0e-3f3c4b1a9c11"

	token, err := GenerateToken(userID, role, sessionID, secret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("Expected UserID %s, got %s", userID, claims.UserID)
	}

	if claims.Role != role {
		t.Errorf("Expected Role %s, got %s", role, claims.Role)
	}

	if claims.SessionID != sessionID {
		t.Errorf("Expected SessionID %s, got %s", sessionID, claims.SessionID)
	}

	_, err = ValidateToken(token, "wrongsecret")
	if err == nil {
		t.Errorf("Expected error with wrong secret")
	}
}

func TestRefreshTokenHashMatchesRawToken(t *testing.T) {
	raw, hash, err := GenerateRefreshToken(32)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if raw == "" || hash == "" {
		t.Fatalf("expected raw and hash to be populated")
	}
	if HashRefreshToken(raw) != hash {
		t.Fatalf("expected stored hash to match raw token")
	}

	otherRaw, _, err := GenerateRefreshToken(32)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if otherRaw == raw {
		t.Fatalf("expected distinct refresh tokens")
	}
}
