package token

import (
	"testing"
	"time"

	"artbid/pkg/domain"
)

func testUser() domain.User {
	return domain.User{
		ID:     "user-1",
		Mobile: "9812345678",
		Role:   domain.RoleUser,
	}
}

func TestMintAndVerify(t *testing.T) {
	m, err := NewManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	tok, err := m.Mint(testUser())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	sub, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "user-1" {
		t.Fatalf("unexpected subject %q", sub)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m1, _ := NewManager("secret-one", time.Hour)
	m2, _ := NewManager("secret-two", time.Hour)
	tok, err := m1.Mint(testUser())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := m2.Verify(tok); err == nil {
		t.Fatal("expected verification failure for wrong secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m, _ := NewManager("test-secret", time.Nanosecond)
	tok, err := m.Mint(testUser())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := m.Verify(tok); err == nil {
		t.Fatal("expected verification failure for expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m, _ := NewManager("test-secret", time.Hour)
	for _, raw := range []string{"", "null", "not.a.jwt"} {
		if _, err := m.Verify(raw); err == nil {
			t.Fatalf("expected failure for %q", raw)
		}
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager("  ", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
