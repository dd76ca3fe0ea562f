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

var commentColumns = []string{"id", "topic_id", "content", "user_id", "username", "created_at", "updated_at", "active"}

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Insert stores a new comment and returns its generated id
func (r *commentRepo) Insert(ctx context.Context, comment *models.Comment) (int64, error) {
	query, args, err := psql.Insert("comments").
		Columns("topic_id", "content", "user_id", "username", "created_at", "updated_at", "active").
		Values(comment.TopicID, comment.Content, comment.OwnerID, comment.OwnerUsername, comment.CreatedAt, comment.UpdatedAt, comment.Active).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build comment insert: %w", err)
	}

	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert comment: %w", err)
	}
	return id, nil
}

// GetByID retrieves a comment by ID, active or not
func (r *commentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query, args, err := psql.Select(commentColumns...).From("comments").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build comment select: %w", err)
	}

	var comment models.Comment
	err = r.db.GetContext(ctx, &comment, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get comment %d: %w", id, err)
	}
	return &comment, nil
}

// Update writes the mutable columns of a comment
func (r *commentRepo) Update(ctx context.Context, comment *models.Comment) error {
	query, args, err := psql.Update("comments").
		Set("content", comment.Content).
		Set("active", comment.Active).
		Set("updated_at", comment.UpdatedAt).
		Where(sq.Eq{"id": comment.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build comment update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update comment %d: %w", comment.ID, err)
	}
	return nil
}

// List returns the comments matching filter in creation order
func (r *commentRepo) List(ctx context.Context, filter models.CommentFilter) ([]*models.Comment, error) {
	query, args, err := psql.Select(commentColumns...).
		From("comments").
		Where(commentConditions(filter)).
		OrderBy("created_at ASC, id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build comment list: %w", err)
	}

	comments := []*models.Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Count returns the number of comments matching filter
func (r *commentRepo) Count(ctx context.Context, filter models.CommentFilter) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From("comments").Where(commentConditions(filter)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build comment count: %w", err)
	}

	var count int
	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&count)
	return count, err
}

// CountActiveByTopic returns active comment counts keyed by topic id.
// Topics without active comments are absent from the map.
func (r *commentRepo) CountActiveByTopic(ctx context.Context, topicIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(topicIDs))
	if len(topicIDs) == 0 {
		return counts, nil
	}

	query, args, err := psql.Select("topic_id", "COUNT(*)").
		From("comments").
		Where(sq.Eq{"topic_id": topicIDs, "active": true}).
		GroupBy("topic_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build comment counts: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count comments by topic: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var topicID int64
		var count int
		if err := rows.Scan(&topicID, &count); err != nil {
			return nil, err
		}
		counts[topicID] = count
	}
	return counts, rows.Err()
}

func commentConditions(filter models.CommentFilter) sq.And {
	conds := sq.And{}
	if filter.TopicID != nil {
		conds = append(conds, sq.Eq{"topic_id": *filter.TopicID})
	}
	if filter.OwnerID != nil {
		conds = append(conds, sq.Eq{"user_id": *filter.OwnerID})
	}
	if filter.ActiveOnly {
		conds = append(conds, sq.Eq{"active": true})
	}
	return conds
}
