package app

import (
	"fmt"
	"strings"

	"artbid/internal/util"
	"artbid/pkg/auth"
	"artbid/pkg/domain"
)

// Session is a logged-in user plus their freshly minted token.
type Session struct {
	User  domain.User
	Token string
}

// Register creates an account with an explicit password and logs it in.
func (a *App) Register(firstName, lastName, mobile, password string) (Session, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	mobile = strings.TrimSpace(mobile)
	if !mobilePattern.MatchString(mobile) {
		return Session{}, ErrInvalidMobile
	}
	if firstName == "" {
		return Session{}, ErrNameRequired
	}
	if lastName == "" {
		lastName = firstName
	}
	if password == "" {
		return Session{}, ErrInvalidCredentials
	}
	if _, found, err := a.store.GetUserByMobile(mobile); err != nil {
		return Session{}, fmt.Errorf("check mobile: %w", err)
	} else if found {
		return Session{}, ErrMobileTaken
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           util.NewID(),
		FirstName:    firstName,
		LastName:     lastName,
		Mobile:       mobile,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    a.now().UTC(),
	}
	if err := a.store.SaveUser(user); err != nil {
		return Session{}, fmt.Errorf("create user: %w", err)
	}
	return a.newSession(user)
}

// Login validates mobile+password credentials and issues a token.
func (a *App) Login(mobile, password string) (Session, error) {
	user, err := a.checkCredentials(mobile, password)
	if err != nil {
		return Session{}, err
	}
	return a.newSession(user)
}

// AdminLogin is Login restricted to admin-role accounts.
func (a *App) AdminLogin(mobile, password string) (Session, error) {
	user, err := a.checkCredentials(mobile, password)
	if err != nil {
		return Session{}, err
	}
	if user.Role != domain.RoleAdmin {
		return Session{}, ErrNotAdmin
	}
	return a.newSession(user)
}

// CheckMobile reports whether a mobile is registered and, when it is, the
// stored display name.
func (a *App) CheckMobile(mobile string) (exists bool, name string, err error) {
	mobile = strings.TrimSpace(mobile)
	if !mobilePattern.MatchString(mobile) {
		return false, "", ErrInvalidMobile
	}
	user, found, err := a.store.GetUserByMobile(mobile)
	if err != nil {
		return false, "", fmt.Errorf("fetch user by mobile: %w", err)
	}
	if !found {
		return false, "", nil
	}
	return true, user.Name(), nil
}

func (a *App) checkCredentials(mobile, password string) (domain.User, error) {
	mobile = strings.TrimSpace(mobile)
	user, found, err := a.store.GetUserByMobile(mobile)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user by mobile: %w", err)
	}
	if !found || !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (a *App) newSession(user domain.User) (Session, error) {
	tok, err := a.tokens.Mint(user)
	if err != nil {
		return Session{}, fmt.Errorf("mint token: %w", err)
	}
	return Session{User: user, Token: tok}, nil
}
