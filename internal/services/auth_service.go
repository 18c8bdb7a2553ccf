package services

import (
	"errors"
	"strings"

	"poolquote/internal/domain"
	"poolquote/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid email or password")

// AuthService authenticates back-office accounts and keeps their
// sessions fresh. Both roles log in the same way; what a session may
// do is decided at the route guards via User.IsAdmin.
type AuthService struct {
	Users *repos.UserRepo
}

// Login verifies the credentials and binds the session cookie to the
// account. Lookup failure and a wrong password collapse into one
// error so responses do not reveal which emails exist.
func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

// CurrentUser resolves the session's account and refreshes its
// last-seen timestamp, so idle sessions can be swept by age.
func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	u, err := s.Users.SessionUser(sid)
	if err != nil {
		return nil, err
	}
	_ = s.Users.TouchSession(sid)
	return u, nil
}
