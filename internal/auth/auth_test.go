package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"microblog/internal/db"
	"microblog/internal/logger"
	"microblog/pkg/utils"
)

var signKey = []byte("test-sign-key")

func newTestService(t *testing.T) (*Service, *db.Store) {
	t.Helper()

	store, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "auth.db"), logger.NewNope())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc := NewService(store, Options{
		SignKey:    signKey,
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, logger.NewNope())
	return svc, store
}

// identify runs a request through jwtauth.Verifier and returns the resolved session.
func identify(t *testing.T, svc *Service, req *http.Request) (*Session, *httptest.ResponseRecorder) {
	t.Helper()

	var sess *Session
	rec := httptest.NewRecorder()
	h := jwtauth.Verifier(jwtauth.New("HS256", signKey, nil))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		sess, err = svc.Identify(w, r)
		require.NoError(t, err)
	}))
	h.ServeHTTP(rec, req)
	require.NotNil(t, sess)
	return sess, rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestSession_Anonymous(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	sess, _ := identify(t, svc, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, sess.IsAuthorized())
	assert.Nil(t, sess.CurrentUser())
	assert.Zero(t, sess.CurrentUserID())
}

func TestSession_RegisterAndLogin(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	sess, _ := identify(t, svc, httptest.NewRequest(http.MethodPost, "/", nil))

	ok, err := sess.RegisterUser("alice", "secret")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, sess.IsAuthorized(), "registration does not log in")

	ok, err = sess.RegisterUser("alice", "other")
	require.NoError(t, err)
	assert.False(t, ok, "login is unique")

	sess, rec := identify(t, svc, httptest.NewRequest(http.MethodPost, "/", nil))
	ok, err = sess.AuthorizeUser("alice", "secret")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, sess.IsAuthorized())
	assert.Equal(t, "alice", sess.CurrentUser().Login)

	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	// the cookie identifies the user on the next request
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: cookie.Value})
	next, _ := identify(t, svc, req)
	require.True(t, next.IsAuthorized())
	assert.Equal(t, sess.CurrentUserID(), next.CurrentUserID())
}

func TestSession_WrongCredentials(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	require.NoError(t, svc.EnsureUser(context.Background(), "alice", "secret"))

	for _, tc := range []struct{ login, password string }{
		{"alice", "wrong"},
		{"bob", "secret"},
		{"", ""},
	} {
		sess, rec := identify(t, svc, httptest.NewRequest(http.MethodPost, "/", nil))
		ok, err := sess.AuthorizeUser(tc.login, tc.password)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, sess.IsAuthorized())
		assert.Empty(t, rec.Result().Cookies())
	}
}

func TestSession_Logout(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	require.NoError(t, svc.EnsureUser(context.Background(), "alice", "secret"))

	sess, _ := identify(t, svc, httptest.NewRequest(http.MethodPost, "/", nil))
	ok, err := sess.AuthorizeUser("alice", "secret")
	require.NoError(t, err)
	require.True(t, ok)

	rec := httptest.NewRecorder()
	sess.w = rec
	sess.Logout()

	assert.False(t, sess.IsAuthorized())
	cookie := sessionCookie(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestIdentify_RejectsBadTokens(t *testing.T) {
	t.Parallel()
	svc, store := newTestService(t)

	user, err := store.CreateUser(context.Background(), "alice", "x")
	require.NoError(t, err)

	expired, err := utils.GenerateToken(user.Id, signKey, -time.Minute)
	require.NoError(t, err)
	forged, err := utils.GenerateToken(user.Id, []byte("another-key"), time.Hour)
	require.NoError(t, err)
	orphan, err := utils.GenerateToken(user.Id+100, signKey, time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired": expired,
		"forged":  forged,
		"orphan":  orphan,
		"garbage": "not-a-token",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		sess, _ := identify(t, svc, req)
		assert.False(t, sess.IsAuthorized(), name)
	}
}

func TestEnsureUser_Idempotent(t *testing.T) {
	t.Parallel()
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureUser(ctx, "admin", "pass"))
	first, err := store.GetUserByLogin(ctx, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.EnsureUser(ctx, "admin", "changed"))
	again, err := store.GetUserByLogin(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, first.PasswordHash, again.PasswordHash)
}

func TestRegisterUser_PasswordTooLong(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	sess, _ := identify(t, svc, httptest.NewRequest(http.MethodPost, "/", nil))
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	_, err := sess.RegisterUser("alice", string(long))
	require.ErrorIs(t, err, ErrPasswordTooLong)
}
