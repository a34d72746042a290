package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"

	"microblog/internal/db"
)

// CookieName is also the cookie jwtauth.TokenFromCookie reads.
const CookieName = "jwt"

var ErrPasswordTooLong = errors.New("auth: password too long")

// Users is the part of the store the identity layer needs.
type Users interface {
	CreateUser(ctx context.Context, login, passwordHash string) (*db.User, error)
	GetUser(ctx context.Context, id int64) (*db.User, error)
	GetUserByLogin(ctx context.Context, login string) (*db.User, error)
}

type Options struct {
	SignKey    []byte
	TokenTTL   time.Duration
	Secure     bool
	BcryptCost int // bcrypt.DefaultCost when zero
}

type Service struct {
	users Users
	opts  Options
	log   *slog.Logger
}

func NewService(users Users, opts Options, log *slog.Logger) *Service {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	return &Service{users: users, opts: opts, log: log}
}

// Identify resolves the current user from the token jwtauth.Verifier put on the
// request context. Invalid, expired or orphaned tokens mean an anonymous session.
func (s *Service) Identify(w http.ResponseWriter, r *http.Request) (*Session, error) {
	sess := &Session{svc: s, w: w, ctx: r.Context()}

	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return sess, nil
	}

	userID, ok := claimInt(claims["user_id"])
	if !ok {
		return sess, nil
	}

	user, err := s.users.GetUser(r.Context(), userID)
	if errors.Is(err, db.ErrNotFound) {
		s.log.DebugContext(r.Context(), "token for unknown user", slog.Int64("user_id", userID))
		return sess, nil
	}
	if err != nil {
		return nil, fmt.Errorf("identify: %w", err)
	}
	sess.user = user
	return sess, nil
}

// EnsureUser creates the account unless the login already exists.
func (s *Service) EnsureUser(ctx context.Context, login, password string) error {
	_, err := s.users.GetUserByLogin(ctx, login)
	if err == nil {
		return nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return err
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	if _, err := s.users.CreateUser(ctx, login, hash); err != nil && !errors.Is(err, db.ErrLoginTaken) {
		return err
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (s *Service) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// numeric claims decode as float64
func claimInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), n > 0
	case int64:
		return n, n > 0
	case json.Number:
		i, err := n.Int64()
		return i, err == nil && i > 0
	default:
		return 0, false
	}
}
