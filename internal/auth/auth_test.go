package auth

import (
	"testing"
	"time"

	"github.com/yourusername/adminserver/internal/models"
)

func TestGenerateAndVerify_Success(t *testing.T) {
	t.Parallel()

	s := NewService("super-secret")
	user := models.User{ID: "user-123", Email: "a@x.com", IsAdmin: true}

	tok, err := s.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := s.VerifyToken(tok)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if claims["user_id"] != "user-123" {
		t.Fatalf("user_id mismatch: got %v", claims["user_id"])
	}
	if claims["email"] != "a@x.com" {
		t.Fatalf("email mismatch: got %v", claims["email"])
	}
	if isAdmin, _ := claims["is_admin"].(bool); !isAdmin {
		t.Fatal("expected is_admin claim to be true")
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	t.Parallel()

	s := NewService("secret")
	tok, err := s.GenerateTokenWithTTL(models.User{ID: "u1"}, -time.Second)
	if err != nil {
		t.Fatalf("GenerateTokenWithTTL error: %v", err)
	}

	if _, err := s.VerifyToken(tok); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewService("right-secret").GenerateToken(models.User{ID: "u2"})
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := NewService("wrong-secret").VerifyToken(tok); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	s := NewService("secret")

	hash, err := s.HashPassword("p1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "p1" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := s.CheckPassword("p1", hash); err != nil {
		t.Fatalf("CheckPassword rejected the right password: %v", err)
	}
	if err := s.CheckPassword("p2", hash); err == nil {
		t.Fatal("CheckPassword accepted the wrong password")
	}
}
