package service

import (
	"context"
	"time"

	"github.com/forum-api/internal/apperr"
	"github.com/forum-api/internal/models"
	"github.com/forum-api/internal/repository"
	"github.com/forum-api/internal/validation"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	comments  repository.CommentRepository
	topics    repository.TopicRepository
	validator *validation.Validator
	now       func() time.Time
	log       zerolog.Logger
}

func newCommentService(repos *repository.Repositories, v *validation.Validator, now func() time.Time, log zerolog.Logger) *commentService {
	return &commentService{
		comments:  repos.Comment,
		topics:    repos.Topic,
		validator: v,
		now:       now,
		log:       log.With().Str("service", "comment").Logger(),
	}
}

// ListByTopic returns the active comments of a topic. An unknown topic yields an empty list.
func (s *commentService) ListByTopic(ctx context.Context, topicID int64) ([]*models.Comment, error) {
	return s.comments.List(ctx, models.CommentFilter{TopicID: &topicID, ActiveOnly: true})
}

// ListByOwner returns the active comments of one user
func (s *commentService) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Comment, error) {
	return s.comments.List(ctx, models.CommentFilter{OwnerID: &ownerID, ActiveOnly: true})
}

// Get returns a comment whether or not it is active
func (s *commentService) Get(ctx context.Context, id int64) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperr.NotFound("comment not found with id: %d", id)
	}
	return comment, nil
}

// Create stores a new comment. The parent topic must exist but may be inactive.
func (s *commentService) Create(ctx context.Context, input *models.CommentInput, callerID int64, callerUsername string) (*models.Comment, error) {
	if errs := s.validator.ValidateComment(input); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	exists, err := s.topics.Exists(ctx, input.TopicID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("topic not found with id: %d", input.TopicID)
	}

	now := s.now()
	comment := &models.Comment{
		TopicID:       input.TopicID,
		Content:       input.Content,
		OwnerID:       callerID,
		OwnerUsername: callerUsername,
		CreatedAt:     now,
		UpdatedAt:     now,
		Active:        true,
	}

	id, err := s.comments.Insert(ctx, comment)
	if err != nil {
		return nil, err
	}
	comment.ID = id

	s.log.Info().
		Int64("comment_id", comment.ID).
		Int64("topic_id", comment.TopicID).
		Int64("owner_id", callerID).
		Msg("Comment created")

	return comment, nil
}

// Update overwrites the content only; a topic id in the input is ignored
func (s *commentService) Update(ctx context.Context, id int64, input *models.CommentInput) (*models.Comment, error) {
	if errs := s.validator.ValidateComment(input); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	comment.Content = input.Content
	comment.UpdatedAt = s.now()

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	s.log.Info().Int64("comment_id", id).Msg("Comment updated")
	return comment, nil
}

// Delete withdraws a comment on behalf of its owner
func (s *commentService) Delete(ctx context.Context, id int64) error {
	return s.deactivate(ctx, id, "Comment deleted")
}

// Ban removes a comment on behalf of a moderator
func (s *commentService) Ban(ctx context.Context, id int64) error {
	return s.deactivate(ctx, id, "Comment banned")
}

func (s *commentService) deactivate(ctx context.Context, id int64, msg string) error {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !comment.Active {
		s.log.Debug().Int64("comment_id", id).Msg("Comment already inactive")
		return nil
	}

	comment.Active = false
	comment.UpdatedAt = s.now()
	if err := s.comments.Update(ctx, comment); err != nil {
		return err
	}

	s.log.Info().
		Int64("comment_id", id).
		Int64("topic_id", comment.TopicID).
		Int64("owner_id", comment.OwnerID).
		Msg(msg)
	return nil
}

// CountActive returns the number of active comments
func (s *commentService) CountActive(ctx context.Context) (int, error) {
	return s.comments.Count(ctx, models.CommentFilter{ActiveOnly: true})
}
