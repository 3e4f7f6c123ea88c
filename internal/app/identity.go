package app

import (
	"fmt"
	"regexp"
	"strings"

	"artbid/internal/util"
	"artbid/pkg/auth"
	"artbid/pkg/domain"
)

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Identity is the caller-supplied identity, resolved once at the entry
// point: either a bearer token or a guest name+mobile pair.
type Identity interface {
	isIdentity()
}

// Authenticated carries a bearer session token.
type Authenticated struct {
	Token string
}

func (Authenticated) isIdentity() {}

// Guest carries a display name and a 10-digit mobile number. The mobile
// is the identity key; the name is display-only.
type Guest struct {
	Name   string
	Mobile string
}

func (Guest) isIdentity() {}

// ResolvedUser is the uniform result of identity resolution. Token is
// set only when the guest flow minted a fresh session in this call.
type ResolvedUser struct {
	User  domain.User
	Token string
	IsNew bool
}

// ResolveIdentity maps a caller identity to a user row, creating one for
// an unseen mobile number. Repeat calls with the same mobile are
// idempotent.
func (a *App) ResolveIdentity(ident Identity) (ResolvedUser, error) {
	switch id := ident.(type) {
	case Authenticated:
		user, err := a.UserFromToken(id.Token)
		if err != nil {
			return ResolvedUser{}, err
		}
		return ResolvedUser{User: user}, nil
	case Guest:
		return a.resolveGuest(id.Name, id.Mobile)
	default:
		return ResolvedUser{}, ErrUnauthenticated
	}
}

// UserFromToken verifies a session token and loads its subject.
func (a *App) UserFromToken(raw string) (domain.User, error) {
	userID, err := a.tokens.Verify(raw)
	if err != nil {
		return domain.User{}, ErrInvalidToken
	}
	user, ok, err := a.store.GetUserByID(userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, ErrUnknownSubject
	}
	return user, nil
}

func (a *App) resolveGuest(name, mobile string) (ResolvedUser, error) {
	name = strings.TrimSpace(name)
	mobile = strings.TrimSpace(mobile)
	if !mobilePattern.MatchString(mobile) {
		return ResolvedUser{}, ErrInvalidMobile
	}
	if name == "" {
		return ResolvedUser{}, ErrNameRequired
	}

	user, found, err := a.store.GetUserByMobile(mobile)
	if err != nil {
		return ResolvedUser{}, fmt.Errorf("fetch user by mobile: %w", err)
	}
	isNew := false
	if !found {
		// The supplied name never overwrites a stored one; it only
		// seeds a brand-new account. The password is derived from the
		// mobile so a later login with mobile+mobile succeeds.
		firstName, lastName := splitName(name)
		passwordHash, err := auth.HashPassword(mobile)
		if err != nil {
			return ResolvedUser{}, fmt.Errorf("hash password: %w", err)
		}
		user = domain.User{
			ID:           util.NewID(),
			FirstName:    firstName,
			LastName:     lastName,
			Mobile:       mobile,
			PasswordHash: passwordHash,
			Role:         domain.RoleUser,
			CreatedAt:    a.now().UTC(),
		}
		if err := a.store.SaveUser(user); err != nil {
			return ResolvedUser{}, fmt.Errorf("create user: %w", err)
		}
		isNew = true
	}

	sessionToken, err := a.tokens.Mint(user)
	if err != nil {
		return ResolvedUser{}, fmt.Errorf("mint token: %w", err)
	}
	return ResolvedUser{User: user, Token: sessionToken, IsNew: isNew}, nil
}

// splitName splits a display name into first/last. With a single token
// the last name repeats the first.
func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	first := parts[0]
	last := strings.Join(parts[1:], " ")
	if last == "" {
		last = first
	}
	return first, last
}
