package store

import (
	"testing"
	"time"

	"questhire/pkg/domain"
)

func TestJWTTokenRoundTrip(t *testing.T) {
	tokens, err := NewJWTTokenStore("test-secret", time.Minute, "questhire-test")
	if err != nil {
		t.Fatalf("new token store: %v", err)
	}
	token, err := tokens.NewToken("user-1", domain.RoleCandidate)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	uid, ok, err := tokens.GetUserIDByToken(token)
	if err != nil || !ok {
		t.Fatalf("verify token: ok=%v err=%v", ok, err)
	}
	if uid != "user-1" {
		t.Fatalf("subject = %q, want user-1", uid)
	}
}

func TestJWTTokenExpired(t *testing.T) {
	tokens, err := NewJWTTokenStore("test-secret", time.Nanosecond, "questhire-test")
	if err != nil {
		t.Fatalf("new token store: %v", err)
	}
	token, err := tokens.NewToken("user-1", domain.RoleCandidate)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, ok, err := tokens.GetUserIDByToken(token); ok || err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestJWTTokenWrongSecret(t *testing.T) {
	issuerA, _ := NewJWTTokenStore("secret-a", time.Minute, "questhire-test")
	issuerB, _ := NewJWTTokenStore("secret-b", time.Minute, "questhire-test")
	token, err := issuerA.NewToken("user-1", domain.RoleCompany)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if _, ok, err := issuerB.GetUserIDByToken(token); ok || err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestJWTTokenStoreRequiresSecret(t *testing.T) {
	if _, err := NewJWTTokenStore("  ", time.Minute, ""); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
