package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/forum-api/internal/database"
	"github.com/forum-api/internal/models"
)

// TopicRepository defines the interface for topic data operations.
// GetByID returns nil, nil when the topic does not exist.
type TopicRepository interface {
	Insert(ctx context.Context, topic *models.Topic) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Topic, error)
	Update(ctx context.Context, topic *models.Topic) error
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter models.TopicFilter) ([]*models.Topic, error)
	Count(ctx context.Context, filter models.TopicFilter) (int, error)
}

// CommentRepository defines the interface for comment data operations.
// GetByID returns nil, nil when the comment does not exist.
type CommentRepository interface {
	Insert(ctx context.Context, comment *models.Comment) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	List(ctx context.Context, filter models.CommentFilter) ([]*models.Comment, error)
	Count(ctx context.Context, filter models.CommentFilter) (int, error)
	CountActiveByTopic(ctx context.Context, topicIDs []int64) (map[int64]int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Topic   TopicRepository
	Comment CommentRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Topic:   NewTopicRepo(db),
		Comment: NewCommentRepo(db),
	}
}

// psql builds PostgreSQL flavoured statements
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
