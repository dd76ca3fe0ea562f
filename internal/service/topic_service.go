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

// topicService is the concrete implementation of TopicService
type topicService struct {
	topics    repository.TopicRepository
	comments  repository.CommentRepository
	validator *validation.Validator
	now       func() time.Time
	log       zerolog.Logger
}

func newTopicService(repos *repository.Repositories, v *validation.Validator, now func() time.Time, log zerolog.Logger) *topicService {
	return &topicService{
		topics:    repos.Topic,
		comments:  repos.Comment,
		validator: v,
		now:       now,
		log:       log.With().Str("service", "topic").Logger(),
	}
}

// List returns active topics in creation order
func (s *topicService) List(ctx context.Context) ([]*models.Topic, error) {
	return s.topics.List(ctx, models.TopicFilter{ActiveOnly: true})
}

// ListByOwner returns the active topics of one user
func (s *topicService) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Topic, error) {
	return s.topics.List(ctx, models.TopicFilter{OwnerID: &ownerID, ActiveOnly: true})
}

// ListLatest returns active topics newest first with their active comment counts
func (s *topicService) ListLatest(ctx context.Context) ([]*models.TopicWithCommentCount, error) {
	topics, err := s.topics.List(ctx, models.TopicFilter{ActiveOnly: true, NewestFirst: true})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(topics))
	for _, t := range topics {
		ids = append(ids, t.ID)
	}
	counts, err := s.comments.CountActiveByTopic(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]*models.TopicWithCommentCount, 0, len(topics))
	for _, t := range topics {
		result = append(result, &models.TopicWithCommentCount{Topic: *t, CommentCount: counts[t.ID]})
	}
	return result, nil
}

// Get returns a topic whether or not it is active
func (s *topicService) Get(ctx context.Context, id int64) (*models.Topic, error) {
	topic, err := s.topics.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, apperr.NotFound("topic not found with id: %d", id)
	}
	return topic, nil
}

// Create validates input and stores a new active topic owned by the caller
func (s *topicService) Create(ctx context.Context, input *models.TopicInput, callerID int64, callerUsername string) (*models.Topic, error) {
	if errs := s.validator.ValidateTopic(input); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	now := s.now()
	topic := &models.Topic{
		Title:         input.Title,
		Content:       input.Content,
		OwnerID:       callerID,
		OwnerUsername: callerUsername,
		CreatedAt:     now,
		UpdatedAt:     now,
		Active:        true,
	}

	id, err := s.topics.Insert(ctx, topic)
	if err != nil {
		return nil, err
	}
	topic.ID = id

	s.log.Info().
		Int64("topic_id", topic.ID).
		Int64("owner_id", callerID).
		Msg("Topic created")

	return topic, nil
}

// Update overwrites title and content. Inactive topics can still be edited.
func (s *topicService) Update(ctx context.Context, id int64, input *models.TopicInput) (*models.Topic, error) {
	if errs := s.validator.ValidateTopic(input); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	topic, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	topic.Title = input.Title
	topic.Content = input.Content
	topic.UpdatedAt = s.now()

	if err := s.topics.Update(ctx, topic); err != nil {
		return nil, err
	}

	s.log.Info().Int64("topic_id", id).Msg("Topic updated")
	return topic, nil
}

// Delete withdraws a topic on behalf of its owner
func (s *topicService) Delete(ctx context.Context, id int64) error {
	return s.deactivate(ctx, id, "Topic deleted")
}

// Ban removes a topic on behalf of a moderator
func (s *topicService) Ban(ctx context.Context, id int64) error {
	return s.deactivate(ctx, id, "Topic banned")
}

// deactivate clears the active flag. An inactive topic is left as is.
func (s *topicService) deactivate(ctx context.Context, id int64, msg string) error {
	topic, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !topic.Active {
		s.log.Debug().Int64("topic_id", id).Msg("Topic already inactive")
		return nil
	}

	topic.Active = false
	topic.UpdatedAt = s.now()
	if err := s.topics.Update(ctx, topic); err != nil {
		return err
	}

	s.log.Info().
		Int64("topic_id", id).
		Int64("owner_id", topic.OwnerID).
		Msg(msg)
	return nil
}

// CountActive returns the number of active topics
func (s *topicService) CountActive(ctx context.Context) (int, error) {
	return s.topics.Count(ctx, models.TopicFilter{ActiveOnly: true})
}
