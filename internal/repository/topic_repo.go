package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/forum-api/internal/database"
	"github.com/forum-api/internal/models"
)

var topicColumns = []string{"id", "title", "content", "user_id", "username", "created_at", "updated_at", "active"}

// topicRepo is the concrete implementation of TopicRepository
type topicRepo struct {
	db *database.DB
}

// NewTopicRepo creates a new topic repository
func NewTopicRepo(db *database.DB) TopicRepository {
	return &topicRepo{db: db}
}

// Insert stores a new topic and returns its generated id
func (r *topicRepo) Insert(ctx context.Context, topic *models.Topic) (int64, error) {
	query, args, err := psql.Insert("topics").
		Columns("title", "content", "user_id", "username", "created_at", "updated_at", "active").
		Values(topic.Title, topic.Content, topic.OwnerID, topic.OwnerUsername, topic.CreatedAt, topic.UpdatedAt, topic.Active).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build topic insert: %w", err)
	}

	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert topic: %w", err)
	}
	return id, nil
}

// GetByID retrieves a topic by ID, active or not
func (r *topicRepo) GetByID(ctx context.Context, id int64) (*models.Topic, error) {
	query, args, err := psql.Select(topicColumns...).From("topics").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build topic select: %w", err)
	}

	var topic models.Topic
	err = r.db.GetContext(ctx, &topic, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get topic %d: %w", id, err)
	}
	return &topic, nil
}

// Update writes the mutable columns of a topic. Owner and creation time are never rewritten.
func (r *topicRepo) Update(ctx context.Context, topic *models.Topic) error {
	query, args, err := psql.Update("topics").
		Set("title", topic.Title).
		Set("content", topic.Content).
		Set("active", topic.Active).
		Set("updated_at", topic.UpdatedAt).
		Where(sq.Eq{"id": topic.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build topic update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update topic %d: %w", topic.ID, err)
	}
	return nil
}

// Exists checks if a topic with the given ID exists, active or not
func (r *topicRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowxContext(ctx, "SELECT EXISTS(SELECT 1 FROM topics WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

// List returns the topics matching filter, oldest first unless NewestFirst is set
func (r *topicRepo) List(ctx context.Context, filter models.TopicFilter) ([]*models.Topic, error) {
	order := "created_at ASC, id ASC"
	if filter.NewestFirst {
		order = "created_at DESC, id DESC"
	}

	query, args, err := psql.Select(topicColumns...).
		From("topics").
		Where(topicConditions(filter)).
		OrderBy(order).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build topic list: %w", err)
	}

	topics := []*models.Topic{}
	if err := r.db.SelectContext(ctx, &topics, query, args...); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

// Count returns the number of topics matching filter
func (r *topicRepo) Count(ctx context.Context, filter models.TopicFilter) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From("topics").Where(topicConditions(filter)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build topic count: %w", err)
	}

	var count int
	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&count)
	return count, err
}

func topicConditions(filter models.TopicFilter) sq.And {
	conds := sq.And{}
	if filter.OwnerID != nil {
		conds = append(conds, sq.Eq{"user_id": *filter.OwnerID})
	}
	if filter.ActiveOnly {
		conds = append(conds, sq.Eq{"active": true})
	}
	return conds
}
