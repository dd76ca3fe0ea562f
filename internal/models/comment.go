package models

import (
	"time"
)

// Comment represents a comment on a topic
type Comment struct {
	ID            int64     `json:"id" db:"id"`
	TopicID       int64     `json:"topic_id" db:"topic_id"`
	Content       string    `json:"content" db:"content"`
	OwnerID       int64     `json:"owner_id" db:"user_id"`
	OwnerUsername string    `json:"owner_username" db:"username"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
	Active        bool      `json:"active" db:"active"`
}

// CommentInput carries the fields of a comment create or update request.
// TopicID is only read on create.
type CommentInput struct {
	TopicID int64  `json:"topic_id"`
	Content string `json:"content" validate:"required,notblank,min=1,max=2000"`
}

// CommentFilter restricts a comment scan
type CommentFilter struct {
	TopicID    *int64
	OwnerID    *int64
	ActiveOnly bool
}
