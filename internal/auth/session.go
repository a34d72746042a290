package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"microblog/internal/db"
	"microblog/pkg/utils"
)

// Session is the identity of one request. It is not safe for concurrent use.
type Session struct {
	svc  *Service
	w    http.ResponseWriter
	ctx  context.Context
	user *db.User
}

func (s *Session) IsAuthorized() bool {
	return s.user != nil
}

// CurrentUser returns nil for anonymous requests.
func (s *Session) CurrentUser() *db.User {
	return s.user
}

// CurrentUserID returns 0 for anonymous requests.
func (s *Session) CurrentUserID() int64 {
	if s.user == nil {
		return 0
	}
	return s.user.Id
}

// AuthorizeUser checks the credentials and, on success, issues the session cookie.
func (s *Session) AuthorizeUser(login, password string) (bool, error) {
	user, err := s.svc.users.GetUserByLogin(s.ctx, login)
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("authorize: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}

	token, err := utils.GenerateToken(user.Id, s.svc.opts.SignKey, s.svc.opts.TokenTTL)
	if err != nil {
		return false, fmt.Errorf("authorize: generate token: %w", err)
	}
	s.svc.setCookie(s.w, token, int(s.svc.opts.TokenTTL.Seconds()))
	s.user = user

	s.svc.log.InfoContext(s.ctx, "user logged in", slog.Int64("user_id", user.Id))
	return true, nil
}

// RegisterUser returns false when the login is already taken.
func (s *Session) RegisterUser(login, password string) (bool, error) {
	hash, err := s.svc.hash(password)
	if err != nil {
		return false, err
	}
	user, err := s.svc.users.CreateUser(s.ctx, login, hash)
	if errors.Is(err, db.ErrLoginTaken) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("register: %w", err)
	}

	s.svc.log.InfoContext(s.ctx, "user registered", slog.Int64("user_id", user.Id))
	return true, nil
}

func (s *Session) Logout() {
	if s.user != nil {
		s.svc.log.InfoContext(s.ctx, "user logged out", slog.Int64("user_id", s.user.Id))
	}
	s.svc.setCookie(s.w, "", -1)
	s.user = nil
}
