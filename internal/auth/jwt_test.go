package auth

import (
	"testing"
	"time"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService([]byte("test-secret"), time.Minute, time.Hour)

	token, err := svc.GenerateAccessToken(42, "u@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := svc.ValidateToken(token, TokenAccess)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "u@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "u@example.com")
	}
}

func TestJWTService_KindMismatch(t *testing.T) {
	svc := NewJWTService([]byte("test-secret"), time.Minute, time.Hour)

	refresh, err := svc.GenerateRefreshToken(42, "u@example.com")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	if _, err := svc.ValidateToken(refresh, TokenAccess); err == nil {
		t.Error("ValidateToken() accepted refresh token as access token")
	}
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService([]byte("test-secret"), -time.Minute, time.Hour)

	token, err := svc.GenerateAccessToken(42, "u@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	if _, err := svc.ValidateToken(token, TokenAccess); err == nil {
		t.Error("ValidateToken() accepted expired token")
	}
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc := NewJWTService([]byte("secret-a"), time.Minute, time.Hour)
	other := NewJWTService([]byte("secret-b"), time.Minute, time.Hour)

	token, _ := svc.GenerateAccessToken(42, "u@example.com")
	if _, err := other.ValidateToken(token, TokenAccess); err == nil {
		t.Error("ValidateToken() accepted token signed with different secret")
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("CheckPassword() = false for correct password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword() = true for wrong password")
	}
}
