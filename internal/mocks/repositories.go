package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/forum-api/internal/models"
	"github.com/forum-api/internal/repository"
)

// Verify interface compliance
var (
	_ repository.TopicRepository   = (*MockTopicRepository)(nil)
	_ repository.CommentRepository = (*MockCommentRepository)(nil)
)

// MockTopicRepository is an in-memory implementation of TopicRepository.
// Stored values are copied so callers cannot mutate them behind the store.
type MockTopicRepository struct {
	mu          sync.RWMutex
	Topics      map[int64]*models.Topic
	InsertError error
	UpdateError error
	InsertCalls int
	UpdateCalls int
	nextID      int64
}

func NewMockTopicRepository() *MockTopicRepository {
	return &MockTopicRepository{
		Topics: make(map[int64]*models.Topic),
		nextID: 1,
	}
}

func (m *MockTopicRepository) Insert(ctx context.Context, topic *models.Topic) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InsertCalls++
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	stored := *topic
	stored.ID = m.nextID
	m.nextID++
	m.Topics[stored.ID] = &stored
	return stored.ID, nil
}

func (m *MockTopicRepository) GetByID(ctx context.Context, id int64) (*models.Topic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.Topics[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (m *MockTopicRepository) Update(ctx context.Context, topic *models.Topic) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	existing, ok := m.Topics[topic.ID]
	if !ok {
		return nil
	}
	existing.Title = topic.Title
	existing.Content = topic.Content
	existing.Active = topic.Active
	existing.UpdatedAt = topic.UpdatedAt
	return nil
}

func (m *MockTopicRepository) Exists(ctx context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.Topics[id]
	return exists, nil
}

func (m *MockTopicRepository) List(ctx context.Context, filter models.TopicFilter) ([]*models.Topic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	topics := make([]*models.Topic, 0, len(m.Topics))
	for _, t := range m.Topics {
		if matchTopic(t, filter) {
			copied := *t
			topics = append(topics, &copied)
		}
	}
	sort.Slice(topics, func(i, j int) bool {
		if filter.NewestFirst {
			return topics[i].ID > topics[j].ID
		}
		return topics[i].ID < topics[j].ID
	})
	return topics, nil
}

func (m *MockTopicRepository) Count(ctx context.Context, filter models.TopicFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, t := range m.Topics {
		if matchTopic(t, filter) {
			count++
		}
	}
	return count, nil
}

func matchTopic(t *models.Topic, filter models.TopicFilter) bool {
	if filter.OwnerID != nil && t.OwnerID != *filter.OwnerID {
		return false
	}
	return !filter.ActiveOnly || t.Active
}

// MockCommentRepository is an in-memory implementation of CommentRepository
type MockCommentRepository struct {
	mu          sync.RWMutex
	Comments    map[int64]*models.Comment
	InsertError error
	UpdateError error
	InsertCalls int
	UpdateCalls int
	nextID      int64
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[int64]*models.Comment),
		nextID:   1,
	}
}

func (m *MockCommentRepository) Insert(ctx context.Context, comment *models.Comment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InsertCalls++
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	stored := *comment
	stored.ID = m.nextID
	m.nextID++
	m.Comments[stored.ID] = &stored
	return stored.ID, nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.Comments[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	existing, ok := m.Comments[comment.ID]
	if !ok {
		return nil
	}
	existing.Content = comment.Content
	existing.Active = comment.Active
	existing.UpdatedAt = comment.UpdatedAt
	return nil
}

func (m *MockCommentRepository) List(ctx context.Context, filter models.CommentFilter) ([]*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	comments := make([]*models.Comment, 0, len(m.Comments))
	for _, c := range m.Comments {
		if matchComment(c, filter) {
			copied := *c
			comments = append(comments, &copied)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (m *MockCommentRepository) Count(ctx context.Context, filter models.CommentFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, c := range m.Comments {
		if matchComment(c, filter) {
			count++
		}
	}
	return count, nil
}

func (m *MockCommentRepository) CountActiveByTopic(ctx context.Context, topicIDs []int64) (map[int64]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[int64]bool, len(topicIDs))
	for _, id := range topicIDs {
		wanted[id] = true
	}
	counts := make(map[int64]int)
	for _, c := range m.Comments {
		if c.Active && wanted[c.TopicID] {
			counts[c.TopicID]++
		}
	}
	return counts, nil
}

func matchComment(c *models.Comment, filter models.CommentFilter) bool {
	if filter.TopicID != nil && c.TopicID != *filter.TopicID {
		return false
	}
	if filter.OwnerID != nil && c.OwnerID != *filter.OwnerID {
		return false
	}
	return !filter.ActiveOnly || c.Active
}
