package db

import "time"

type User struct {
	Id           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}

type Post struct {
	Id          int64
	UserId      int64
	AuthorLogin string
	Title       string
	Text        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
