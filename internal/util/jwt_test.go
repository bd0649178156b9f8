package util

import (
	"apex_tracker_backend/internal/model"
	"testing"
	"time"
)

func testUser() *model.User {
	u := &model.User{
		Name:  "Ada",
		Email: "ada@example.com",
	}
	u.ID = 7
	return u
}

func TestJWT_RoundTrip(t *testing.T) {
	token, err := GenerateJWT(testUser(), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
	if claims.Email != "ada@example.com" {
		t.Errorf("Email = %q, want ada@example.com", claims.Email)
	}
}

func TestJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT(testUser(), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "other-secret"); err == nil {
		t.Fatal("ParseJWT accepted a token signed with a different secret")
	}
}

func TestJWT_Expired(t *testing.T) {
	token, err := GenerateJWT(testUser(), "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "test-secret"); err == nil {
		t.Fatal("ParseJWT accepted an expired token")
	}
}

func TestJWT_Garbage(t *testing.T) {
	if _, err := ParseJWT("not.a.token", "test-secret"); err == nil {
		t.Fatal("ParseJWT accepted garbage input")
	}
}
