package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const selectPosts = `
	SELECT p.id, p.user_id, u.login, p.title, p.text, p.created_at, p.updated_at
	FROM posts p JOIN users u ON u.id = p.user_id`

// GetAllPosts returns every post, newest first.
func (s *Store) GetAllPosts(ctx context.Context) ([]*Post, error) {
	rows, err := s.db.QueryContext(ctx, selectPosts+" ORDER BY p.id DESC")
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []*Post{}
	for rows.Next() {
		var post Post
		if err := rows.Scan(&post.Id, &post.UserId, &post.AuthorLogin, &post.Title, &post.Text, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

// GetPost returns ErrNotFound when no post has the id.
func (s *Store) GetPost(ctx context.Context, id int64) (*Post, error) {
	var post Post
	row := s.db.QueryRowContext(ctx, selectPosts+" WHERE p.id = ?", id)
	err := row.Scan(&post.Id, &post.UserId, &post.AuthorLogin, &post.Title, &post.Text, &post.CreatedAt, &post.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return &post, nil
}

func (s *Store) CreatePost(ctx context.Context, userID int64, title, text string) (int64, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO posts (user_id, title, text, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		userID, title, text, now, now)
	if err != nil {
		return 0, fmt.Errorf("create post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create post: %w", err)
	}
	return id, nil
}

// EditPost changes title and text only; the owner never changes.
func (s *Store) EditPost(ctx context.Context, id int64, title, text string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE posts SET title = ?, text = ?, updated_at = ? WHERE id = ?",
		title, text, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("edit post %d: %w", id, err)
	}
	return nil
}

func (s *Store) DeletePost(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}
