package auth

import (
	"testing"

	"github.com/muhiddin-ilhan/OkulixAppWebBackend/models"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{
		ID:    "user-1",
		Ad:    "Ali",
		Soyad: "Veli",
		Email: "ali@example.com",
		Role:  "admin",
	}

	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "ali@example.com" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := VerifyToken("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	token, err := GenerateToken(&models.User{ID: "u", Email: "e", Role: "user"})
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("JWT_SECRET", "secret-two")
	if _, err := VerifyToken(token); err == nil {
		t.Fatal("expected error for token signed with another secret")
	}
}
