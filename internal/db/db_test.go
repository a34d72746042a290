package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microblog/internal/logger"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), logger.NewNope())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_CreatesDatabase(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "blog.db")
	s, err := Open(context.Background(), path, logger.NewNope())
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, s.Ping(context.Background()))
}

func TestOpen_Idempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "blog.db")
	for i := 0; i < 3; i++ {
		s, err := Open(context.Background(), path, logger.NewNope())
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, s.Close())
	}
}

func TestUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	user, err := s.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)
	assert.NotZero(t, user.Id)

	_, err = s.CreateUser(ctx, "alice", "other")
	require.ErrorIs(t, err, ErrLoginTaken)

	got, err := s.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.Id, got.Id)
	assert.Equal(t, "hash", got.PasswordHash)

	got, err = s.GetUser(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Login)

	_, err = s.GetUserByLogin(ctx, "bob")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetUser(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPosts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	alice, err := s.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)

	posts, err := s.GetAllPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	first, err := s.CreatePost(ctx, alice.Id, "Hi", "World")
	require.NoError(t, err)
	second, err := s.CreatePost(ctx, alice.Id, "Second", "Body")
	require.NoError(t, err)

	post, err := s.GetPost(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "Hi", post.Title)
	assert.Equal(t, "World", post.Text)
	assert.Equal(t, alice.Id, post.UserId)
	assert.Equal(t, "alice", post.AuthorLogin)

	posts, err = s.GetAllPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second, posts[0].Id, "newest first")

	require.NoError(t, s.EditPost(ctx, first, "Hello", "Again"))
	post, err = s.GetPost(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, "Again", post.Text)
	assert.Equal(t, alice.Id, post.UserId)

	require.NoError(t, s.DeletePost(ctx, first))
	_, err = s.GetPost(ctx, first)
	require.ErrorIs(t, err, ErrNotFound)

	posts, err = s.GetAllPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestCreatePost_UnknownUser(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	_, err := s.CreatePost(context.Background(), 42, "t", "x")
	require.Error(t, err, "foreign key must reject unknown owner")
}
