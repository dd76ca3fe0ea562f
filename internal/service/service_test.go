package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/forum-api/internal/apperr"
	"github.com/forum-api/internal/mocks"
	"github.com/forum-api/internal/models"
	"github.com/forum-api/internal/repository"
	"github.com/forum-api/internal/service"
	"github.com/forum-api/internal/validation"
	"github.com/rs/zerolog"
)

// fakeClock advances one second per reading
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	topics   *mocks.MockTopicRepository
	comments *mocks.MockCommentRepository
	svc      *service.Services
	clock    *fakeClock
}

func newFixture() *fixture {
	f := &fixture{
		topics:   mocks.NewMockTopicRepository(),
		comments: mocks.NewMockCommentRepository(),
		clock:    &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
	}
	repos := &repository.Repositories{Topic: f.topics, Comment: f.comments}
	f.svc = service.NewServices(repos, zerolog.Nop(), service.WithClock(f.clock.Now))
	return f
}

func (f *fixture) createTopic(t *testing.T, ownerID int64, username string) *models.Topic {
	t.Helper()
	topic, err := f.svc.Topic.Create(context.Background(), &models.TopicInput{
		Title:   "Valid Title",
		Content: "0123456789",
	}, ownerID, username)
	if err != nil {
		t.Fatalf("create topic: %v", err)
	}
	return topic
}

func (f *fixture) createComment(t *testing.T, topicID, ownerID int64, username string) *models.Comment {
	t.Helper()
	comment, err := f.svc.Comment.Create(context.Background(), &models.CommentInput{
		TopicID: topicID,
		Content: "hi",
	}, ownerID, username)
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return comment
}

func TestTopicService_CreateThenGet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created := f.createTopic(t, 1, "alice")
	if created.ID == 0 {
		t.Fatal("Expected an id to be assigned")
	}

	got, err := f.svc.Topic.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.Active {
		t.Error("New topic should be active")
	}
	if got.OwnerID != 1 || got.OwnerUsername != "alice" {
		t.Errorf("Unexpected owner: %d/%s", got.OwnerID, got.OwnerUsername)
	}
	if !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Errorf("Expected createdAt == updatedAt, got %s and %s", got.CreatedAt, got.UpdatedAt)
	}
}

func TestTopicService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		input  models.TopicInput
		fields []string
	}{
		{"short title", models.TopicInput{Title: "ab", Content: "0123456789"}, []string{"title"}},
		{"blank title", models.TopicInput{Title: "     ", Content: "0123456789"}, []string{"title"}},
		{"short content", models.TopicInput{Title: "Valid Title", Content: "short"}, []string{"content"}},
		{"long title", models.TopicInput{Title: strings.Repeat("x", 101), Content: "0123456789"}, []string{"title"}},
		{"both invalid", models.TopicInput{}, []string{"title", "content"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.Topic.Create(context.Background(), &tt.input, 1, "alice")
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("Expected validation error, got %v", err)
			}

			var appErr *apperr.Error
			errors.As(err, &appErr)
			details, ok := appErr.Details.([]validation.ValidationError)
			if !ok {
				t.Fatalf("Expected validation details, got %T", appErr.Details)
			}
			if len(details) != len(tt.fields) {
				t.Fatalf("Expected %d violations, got %v", len(tt.fields), details)
			}
			for i, field := range tt.fields {
				if details[i].Field != field {
					t.Errorf("Expected violation on %s, got %s", field, details[i].Field)
				}
			}
			if f.topics.InsertCalls != 0 {
				t.Error("Invalid input must not reach the store")
			}
		})
	}
}

func TestTopicService_Get_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Topic.Get(context.Background(), 42)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestTopicService_Update(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.createTopic(t, 1, "alice")

	updated, err := f.svc.Topic.Update(ctx, created.ID, &models.TopicInput{
		Title:   "Another title",
		Content: "Some different content",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Title != "Another title" || updated.Content != "Some different content" {
		t.Errorf("Fields not updated: %+v", updated)
	}
	if updated.OwnerID != 1 || updated.OwnerUsername != "alice" || !updated.Active {
		t.Errorf("Update touched ownership or state: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("Update must not change createdAt")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Error("Update must advance updatedAt")
	}
}

func TestTopicService_Update_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Topic.Update(context.Background(), 9, &models.TopicInput{Title: "Valid Title", Content: "0123456789"})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestTopicService_Update_InactiveAllowed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.createTopic(t, 1, "alice")

	if err := f.svc.Topic.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	updated, err := f.svc.Topic.Update(ctx, created.ID, &models.TopicInput{Title: "Still editable", Content: "0123456789"})
	if err != nil {
		t.Fatalf("Update on inactive topic failed: %v", err)
	}
	if updated.Active {
		t.Error("Update must not reactivate a topic")
	}
}

func TestTopicService_DeleteIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.createTopic(t, 1, "alice")

	if err := f.svc.Topic.Delete(ctx, created.ID); err != nil {
		t.Fatalf("first Delete failed: %v", err)
	}
	first, _ := f.svc.Topic.Get(ctx, created.ID)
	writes := f.topics.UpdateCalls

	if err := f.svc.Topic.Delete(ctx, created.ID); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	second, _ := f.svc.Topic.Get(ctx, created.ID)

	if first.Active || second.Active {
		t.Error("Topic should stay inactive")
	}
	if !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Error("Second delete must not change updatedAt")
	}
	if f.topics.UpdateCalls != writes {
		t.Error("Second delete must not write to the store")
	}
}

func TestTopicService_BanAfterDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.createTopic(t, 1, "alice")

	if err := f.svc.Topic.Ban(ctx, created.ID); err != nil {
		t.Fatalf("Ban failed: %v", err)
	}
	if err := f.svc.Topic.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete after ban failed: %v", err)
	}

	if err := f.svc.Topic.Ban(ctx, 999); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Expected not found for missing topic, got %v", err)
	}
}

func TestTopicService_ListsExcludeInactive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	first := f.createTopic(t, 1, "alice")
	second := f.createTopic(t, 1, "alice")
	third := f.createTopic(t, 2, "bob")

	if err := f.svc.Topic.Ban(ctx, second.ID); err != nil {
		t.Fatalf("Ban failed: %v", err)
	}

	all, err := f.svc.Topic.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != first.ID || all[1].ID != third.ID {
		t.Errorf("Unexpected list: %+v", all)
	}

	mine, _ := f.svc.Topic.ListByOwner(ctx, 1)
	if len(mine) != 1 || mine[0].ID != first.ID {
		t.Errorf("Unexpected owner list: %+v", mine)
	}

	none, _ := f.svc.Topic.ListByOwner(ctx, 77)
	if none == nil || len(none) != 0 {
		t.Errorf("Expected empty non-nil list, got %v", none)
	}

	// Direct lookups still see the banned topic
	banned, err := f.svc.Topic.Get(ctx, second.ID)
	if err != nil || banned.Active {
		t.Errorf("Expected inactive topic from Get, got %+v, %v", banned, err)
	}

	count, _ := f.svc.Topic.CountActive(ctx)
	if count != 2 {
		t.Errorf("Expected 2 active topics, got %d", count)
	}
}

func TestTopicService_ListLatest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	older := f.createTopic(t, 1, "alice")
	newer := f.createTopic(t, 2, "bob")

	f.createComment(t, older.ID, 2, "bob")
	f.createComment(t, older.ID, 3, "carol")
	banned := f.createComment(t, older.ID, 3, "carol")
	if err := f.svc.Comment.Ban(ctx, banned.ID); err != nil {
		t.Fatalf("Ban failed: %v", err)
	}

	latest, err := f.svc.Topic.ListLatest(ctx)
	if err != nil {
		t.Fatalf("ListLatest failed: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("Expected 2 topics, got %d", len(latest))
	}
	if latest[0].ID != newer.ID || latest[1].ID != older.ID {
		t.Errorf("Expected newest first, got %d then %d", latest[0].ID, latest[1].ID)
	}
	if latest[0].CommentCount != 0 || latest[1].CommentCount != 2 {
		t.Errorf("Unexpected comment counts: %d, %d", latest[0].CommentCount, latest[1].CommentCount)
	}
}

func TestTopicService_StoreErrorPropagates(t *testing.T) {
	f := newFixture()
	boom := errors.New("store unavailable")
	f.topics.InsertError = boom

	_, err := f.svc.Topic.Create(context.Background(), &models.TopicInput{Title: "Valid Title", Content: "0123456789"}, 1, "alice")
	if !errors.Is(err, boom) {
		t.Errorf("Expected store error, got %v", err)
	}
	if apperr.KindOf(err) != apperr.KindUnknown {
		t.Errorf("Store errors must stay opaque, got kind %s", apperr.KindOf(err))
	}
}

func TestCommentService_CreateThenGet(t *testing.T) {
	f := newFixture()
	topic := f.createTopic(t, 1, "alice")

	created := f.createComment(t, topic.ID, 2, "bob")

	got, err := f.svc.Comment.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.Active || got.OwnerID != 2 || got.OwnerUsername != "bob" || got.TopicID != topic.ID {
		t.Errorf("Unexpected comment: %+v", got)
	}
	if !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Error("Expected createdAt == updatedAt")
	}
}

func TestCommentService_Create_MissingTopic(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Comment.Create(context.Background(), &models.CommentInput{TopicID: 404, Content: "hi"}, 2, "bob")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("Expected not found, got %v", err)
	}
	if f.comments.InsertCalls != 0 || len(f.comments.Comments) != 0 {
		t.Error("Missing parent topic must not produce a store write")
	}
}

func TestCommentService_Create_InactiveTopicAllowed(t *testing.T) {
	f := newFixture()
	topic := f.createTopic(t, 1, "alice")
	if err := f.svc.Topic.Ban(context.Background(), topic.ID); err != nil {
		t.Fatalf("Ban failed: %v", err)
	}

	f.createComment(t, topic.ID, 2, "bob")
}

func TestCommentService_Create_Validation(t *testing.T) {
	f := newFixture()
	topic := f.createTopic(t, 1, "alice")

	for _, content := range []string{"", "   ", strings.Repeat("a", 2001)} {
		_, err := f.svc.Comment.Create(context.Background(), &models.CommentInput{TopicID: topic.ID, Content: content}, 2, "bob")
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("Expected validation error for content of length %d, got %v", len(content), err)
		}
	}
	if f.comments.InsertCalls != 0 {
		t.Error("Invalid comments must not reach the store")
	}
}

func TestCommentService_UpdateIgnoresTopicID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	topic := f.createTopic(t, 1, "alice")
	other := f.createTopic(t, 1, "alice")
	comment := f.createComment(t, topic.ID, 2, "bob")

	updated, err := f.svc.Comment.Update(ctx, comment.ID, &models.CommentInput{TopicID: other.ID, Content: "edited"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.TopicID != topic.ID {
		t.Errorf("Update must not move a comment, got topic %d", updated.TopicID)
	}
	if updated.Content != "edited" {
		t.Errorf("Expected edited content, got %q", updated.Content)
	}
}

func TestCommentService_DeleteIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	topic := f.createTopic(t, 1, "alice")
	comment := f.createComment(t, topic.ID, 2, "bob")

	for i := 0; i < 2; i++ {
		if err := f.svc.Comment.Delete(ctx, comment.ID); err != nil {
			t.Fatalf("Delete #%d failed: %v", i+1, err)
		}
		got, _ := f.svc.Comment.Get(ctx, comment.ID)
		if got.Active {
			t.Errorf("Comment should be inactive after delete #%d", i+1)
		}
	}
	if f.comments.UpdateCalls != 1 {
		t.Errorf("Expected a single store write, got %d", f.comments.UpdateCalls)
	}

	if err := f.svc.Comment.Delete(ctx, 999); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestCommentService_Lists(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	topic := f.createTopic(t, 1, "alice")
	other := f.createTopic(t, 1, "alice")

	kept := f.createComment(t, topic.ID, 2, "bob")
	removed := f.createComment(t, topic.ID, 2, "bob")
	f.createComment(t, other.ID, 3, "carol")
	if err := f.svc.Comment.Ban(ctx, removed.ID); err != nil {
		t.Fatalf("Ban failed: %v", err)
	}

	byTopic, err := f.svc.Comment.ListByTopic(ctx, topic.ID)
	if err != nil {
		t.Fatalf("ListByTopic failed: %v", err)
	}
	if len(byTopic) != 1 || byTopic[0].ID != kept.ID {
		t.Errorf("Unexpected comments: %+v", byTopic)
	}

	byOwner, _ := f.svc.Comment.ListByOwner(ctx, 2)
	if len(byOwner) != 1 {
		t.Errorf("Expected 1 active comment by bob, got %d", len(byOwner))
	}

	unknown, err := f.svc.Comment.ListByTopic(ctx, 12345)
	if err != nil || len(unknown) != 0 {
		t.Errorf("Unknown topic should give an empty list, got %v, %v", unknown, err)
	}

	count, _ := f.svc.Comment.CountActive(ctx)
	if count != 2 {
		t.Errorf("Expected 2 active comments, got %d", count)
	}
}

func TestServices_TimestampsTruncatedToMicroseconds(t *testing.T) {
	repos := &repository.Repositories{
		Topic:   mocks.NewMockTopicRepository(),
		Comment: mocks.NewMockCommentRepository(),
	}
	at := time.Date(2024, 1, 1, 0, 0, 0, 123456789, time.FixedZone("CET", 3600))
	svc := service.NewServices(repos, zerolog.Nop(), service.WithClock(func() time.Time { return at }))

	topic, err := svc.Topic.Create(context.Background(), &models.TopicInput{Title: "Valid Title", Content: "0123456789"}, 1, "alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if topic.CreatedAt.Nanosecond() != 123456000 {
		t.Errorf("Expected microsecond precision, got %d ns", topic.CreatedAt.Nanosecond())
	}
	if topic.CreatedAt.Location() != time.UTC {
		t.Errorf("Expected UTC, got %s", topic.CreatedAt.Location())
	}
}
