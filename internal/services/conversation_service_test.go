package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/nirgal-soft/cbt-chat/internal/models"
)

func TestCreateConversation(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	svc := NewConversationService(fs)

	userID := uuid.New()
	created, err := svc.CreateConversation(context.Background(), userID, models.CreateConversationRequest{Title: "  Trip planning  "})
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}
	if created.Title != "Trip planning" {
		t.Errorf("expected trimmed title, got %q", created.Title)
	}
	if created.ID == uuid.Nil {
		t.Error("expected a generated conversation ID")
	}

	stored, err := fs.GetConversationByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("conversation not persisted: %v", err)
	}
	if stored.UserID != userID {
		t.Errorf("stored owner %s, want %s", stored.UserID, userID)
	}
}

func TestCreateConversationRejectsEmptyTitle(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	svc := NewConversationService(fs)

	_, err := svc.CreateConversation(context.Background(), uuid.New(), models.CreateConversationRequest{Title: "   "})
	if !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestListConversationsScopedToCaller(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	svc := NewConversationService(fs)

	alice := uuid.New()
	bob := uuid.New()
	for _, c := range []struct {
		owner uuid.UUID
		title string
	}{
		{alice, "groceries"},
		{alice, "work"},
		{bob, "secret"},
	} {
		if _, err := svc.CreateConversation(context.Background(), c.owner, models.CreateConversationRequest{Title: c.title}); err != nil {
			t.Fatalf("CreateConversation failed: %v", err)
		}
	}

	list, err := svc.ListConversations(context.Background(), alice)
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	if len(list.Conversations) != 2 {
		t.Fatalf("expected 2 conversations for alice, got %d", len(list.Conversations))
	}
	for _, c := range list.Conversations {
		if c.Title == "secret" {
			t.Error("another user's conversation leaked into the listing")
		}
	}
}
