package app

import (
	"errors"
	"testing"

	"artbid/pkg/domain"
)

func TestRegisterAndLogin(t *testing.T) {
	a, _, _ := newTestApp(t)

	session, err := a.Register("Asha", "Rao", "9812345678", "secret-pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.Token == "" {
		t.Fatal("register should mint a token")
	}
	if session.User.Role != domain.RoleUser {
		t.Fatalf("registered role expected user, got %s", session.User.Role)
	}

	// The token resolves back to the same account.
	user, err := a.UserFromToken(session.Token)
	if err != nil {
		t.Fatalf("verify registered token: %v", err)
	}
	if user.ID != session.User.ID {
		t.Fatalf("token subject mismatch: %s vs %s", user.ID, session.User.ID)
	}

	if _, err := a.Register("Other", "Person", "9812345678", "pw"); !errors.Is(err, ErrMobileTaken) {
		t.Fatalf("duplicate mobile expected ErrMobileTaken, got %v", err)
	}
	if _, err := a.Register("Asha", "Rao", "12345", "pw"); !errors.Is(err, ErrInvalidMobile) {
		t.Fatalf("bad mobile expected ErrInvalidMobile, got %v", err)
	}
	if _, err := a.Register("", "", "9898989898", "pw"); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("blank name expected ErrNameRequired, got %v", err)
	}
	if _, err := a.Register("Asha", "Rao", "9898989898", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("blank password expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := a.Login("9812345678", "secret-pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := a.Login("9812345678", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := a.Login("9000000000", "secret-pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown mobile expected ErrInvalidCredentials, got %v", err)
	}
}

func TestGuestAccountCanLoginWithMobileAsPassword(t *testing.T) {
	a, _, _ := newTestApp(t)

	resolved, err := a.ResolveIdentity(Guest{Name: "Asha Rao", Mobile: "9812345678"})
	if err != nil {
		t.Fatalf("resolve guest: %v", err)
	}
	session, err := a.Login("9812345678", "9812345678")
	if err != nil {
		t.Fatalf("guest login with mobile as password: %v", err)
	}
	if session.User.ID != resolved.User.ID {
		t.Fatalf("login resolved wrong user: %s vs %s", session.User.ID, resolved.User.ID)
	}
}

func TestAdminLoginRequiresAdminRole(t *testing.T) {
	mem, tokens, clock := newTestDeps(t)
	a, err := New(Config{Store: mem, Tokens: tokens, Now: clock.Now, AdminMobile: "9111111111", AdminPassword: "root-pw"})
	if err != nil {
		t.Fatalf("new app with admin seed: %v", err)
	}

	if _, err := a.AdminLogin("9111111111", "root-pw"); err != nil {
		t.Fatalf("admin login: %v", err)
	}

	if _, err := a.Register("Asha", "Rao", "9812345678", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := a.AdminLogin("9812345678", "pw"); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("regular user expected ErrNotAdmin, got %v", err)
	}
	if _, err := a.AdminLogin("9111111111", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAdminSeedIsIdempotent(t *testing.T) {
	mem, tokens, clock := newTestDeps(t)
	cfg := Config{Store: mem, Tokens: tokens, Now: clock.Now, AdminMobile: "9111111111", AdminPassword: "root-pw"}
	if _, err := New(cfg); err != nil {
		t.Fatalf("first boot: %v", err)
	}
	if _, err := New(cfg); err != nil {
		t.Fatalf("second boot: %v", err)
	}
	n, err := mem.UserCount()
	if err != nil {
		t.Fatalf("user count: %v", err)
	}
	if n != 1 {
		t.Fatalf("repeated boots should keep one admin, got %d users", n)
	}
}

func TestAdminSeedRejectsNonAdminMobile(t *testing.T) {
	mem, tokens, clock := newTestDeps(t)
	plain, err := New(Config{Store: mem, Tokens: tokens, Now: clock.Now})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if _, err := plain.Register("Asha", "Rao", "9111111111", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Booting with that mobile as the admin seed must fail loudly
	// instead of leaving an admin login that can never succeed.
	_, err = New(Config{Store: mem, Tokens: tokens, Now: clock.Now, AdminMobile: "9111111111", AdminPassword: "root-pw"})
	if err == nil {
		t.Fatal("expected boot failure when admin mobile belongs to a regular user")
	}
}

func TestCheckMobile(t *testing.T) {
	a, _, _ := newTestApp(t)

	exists, _, err := a.CheckMobile("9812345678")
	if err != nil {
		t.Fatalf("check unknown mobile: %v", err)
	}
	if exists {
		t.Fatal("unknown mobile should not exist")
	}

	if _, err := a.Register("Asha", "Rao", "9812345678", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	exists, name, err := a.CheckMobile("9812345678")
	if err != nil {
		t.Fatalf("check known mobile: %v", err)
	}
	if !exists || name != "Asha Rao" {
		t.Fatalf("expected exists with name Asha Rao, got exists=%v name=%q", exists, name)
	}

	if _, _, err := a.CheckMobile("abc"); !errors.Is(err, ErrInvalidMobile) {
		t.Fatalf("bad mobile expected ErrInvalidMobile, got %v", err)
	}
}
