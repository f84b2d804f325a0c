package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nirgal-soft/cbt-chat/internal/models"
	"github.com/nirgal-soft/cbt-chat/internal/store"
)

// Custom errors for conversation access
var (
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrConversationForbidden = errors.New("conversation is not owned by the caller")
	ErrEmptyTitle            = errors.New("conversation title cannot be empty")
)

// ConversationService handles conversation grouping.
type ConversationService struct {
	store store.Store
}

// NewConversationService creates a new ConversationService.
func NewConversationService(s store.Store) *ConversationService {
	return &ConversationService{store: s}
}

// CreateConversation creates a named conversation owned by the caller.
func (s *ConversationService) CreateConversation(ctx context.Context, userID uuid.UUID, req models.CreateConversationRequest) (*models.ConversationResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	created, err := s.store.CreateConversation(ctx, &models.Conversation{
		ID:     uuid.New(),
		Title:  title,
		UserID: userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation in store: %w", err)
	}

	resp := toConversationResponse(created)
	return &resp, nil
}

// ListConversations returns the caller's conversations, most recent activity first.
func (s *ConversationService) ListConversations(ctx context.Context, userID uuid.UUID) (*models.ListConversationsResponse, error) {
	convs, err := s.store.ListConversationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations from store: %w", err)
	}

	items := make([]models.ConversationResponse, 0, len(convs))
	for i := range convs {
		items = append(items, toConversationResponse(&convs[i]))
	}

	return &models.ListConversationsResponse{Conversations: items}, nil
}

func toConversationResponse(conv *models.Conversation) models.ConversationResponse {
	return models.ConversationResponse{
		ID:        conv.ID,
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}
}
