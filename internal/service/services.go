package service

import (
	"context"
	"time"

	"github.com/forum-api/internal/models"
	"github.com/forum-api/internal/repository"
	"github.com/forum-api/internal/validation"
	"github.com/rs/zerolog"
)

// TopicService defines the lifecycle operations on topics.
// Authorization is the caller's concern; the service only raises NotFound and Validation errors.
type TopicService interface {
	List(ctx context.Context) ([]*models.Topic, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Topic, error)
	ListLatest(ctx context.Context) ([]*models.TopicWithCommentCount, error)
	Get(ctx context.Context, id int64) (*models.Topic, error)
	Create(ctx context.Context, input *models.TopicInput, callerID int64, callerUsername string) (*models.Topic, error)
	Update(ctx context.Context, id int64, input *models.TopicInput) (*models.Topic, error)
	Delete(ctx context.Context, id int64) error
	Ban(ctx context.Context, id int64) error
	CountActive(ctx context.Context) (int, error)
}

// CommentService defines the lifecycle operations on comments
type CommentService interface {
	ListByTopic(ctx context.Context, topicID int64) ([]*models.Comment, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Comment, error)
	Get(ctx context.Context, id int64) (*models.Comment, error)
	Create(ctx context.Context, input *models.CommentInput, callerID int64, callerUsername string) (*models.Comment, error)
	Update(ctx context.Context, id int64, input *models.CommentInput) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error
	Ban(ctx context.Context, id int64) error
	CountActive(ctx context.Context) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Topic   TopicService
	Comment CommentService
}

// Option customises service construction
type Option func(*options)

type options struct {
	clock func() time.Time
}

// WithClock replaces the wall clock used for created_at and updated_at
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, log zerolog.Logger, opts ...Option) *Services {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	// Postgres keeps microseconds, so stored and returned timestamps agree
	now := func() time.Time {
		return o.clock().UTC().Truncate(time.Microsecond)
	}
	v := validation.NewValidator()

	return &Services{
		Topic:   newTopicService(repos, v, now, log),
		Comment: newCommentService(repos, v, now, log),
	}
}
