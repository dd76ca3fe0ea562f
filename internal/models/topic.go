package models

import (
	"time"
)

// Topic represents a discussion topic opened by a user
type Topic struct {
	ID            int64     `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Content       string    `json:"content" db:"content"`
	OwnerID       int64     `json:"owner_id" db:"user_id"`
	OwnerUsername string    `json:"owner_username" db:"username"` // snapshot taken at creation
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
	Active        bool      `json:"active" db:"active"`
}

// TopicInput carries the user-editable fields of a topic
type TopicInput struct {
	Title   string `json:"title" validate:"required,notblank,min=3,max=100"`
	Content string `json:"content" validate:"required,notblank,min=10,max=5000"`
}

// TopicWithCommentCount is a topic together with the number of its active comments
type TopicWithCommentCount struct {
	Topic
	CommentCount int `json:"comment_count"`
}

// TopicFilter restricts a topic scan
type TopicFilter struct {
	OwnerID     *int64
	ActiveOnly  bool
	NewestFirst bool
}
