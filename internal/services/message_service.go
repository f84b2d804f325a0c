package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/nirgal-soft/cbt-chat/internal/models"
	"github.com/nirgal-soft/cbt-chat/internal/store"
)

// Custom errors for direct message operations
var (
	ErrInvalidSender = errors.New("sender must be \"user\" or \"ai\"")
	ErrEmptyContent  = errors.New("message content cannot be empty")
)

// MessageService handles direct message reads and writes outside the chat
// turn pipeline.
type MessageService struct {
	store store.Store
}

// NewMessageService creates a new MessageService.
func NewMessageService(s store.Store) *MessageService {
	return &MessageService{store: s}
}

// ListMessages returns the caller's messages in the given conversation in
// replay order. Reading is idempotent; no state changes.
func (s *MessageService) ListMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]models.MessageResponse, error) {
	msgs, err := s.store.ListMessagesByConversation(ctx, conversationID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages from store: %w", err)
	}

	items := make([]models.MessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, toMessageResponse(&msgs[i]))
	}
	return items, nil
}

// CreateMessage inserts a message into a conversation the caller owns. The
// ownership check runs before any write; a failed check writes nothing.
func (s *MessageService) CreateMessage(ctx context.Context, userID uuid.UUID, req models.CreateMessageRequest) (*models.MessageResponse, error) {
	if req.Sender != models.SenderUser && req.Sender != models.SenderAI {
		return nil, ErrInvalidSender
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}

	conv, err := s.store.GetConversationByID(ctx, req.ConversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to verify conversation: %w", err)
	}
	if conv.UserID != userID {
		return nil, ErrConversationForbidden
	}

	conversationID := req.ConversationID
	created, err := s.store.CreateMessage(ctx, store.CreateMessageParams{
		Content:        req.Content,
		Sender:         req.Sender,
		UserID:         userID,
		ConversationID: &conversationID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create message in store: %w", err)
	}

	if err := s.store.TouchConversation(ctx, req.ConversationID); err != nil {
		log.Printf("Warning: failed to touch conversation %s: %v", req.ConversationID, err)
	}

	resp := toMessageResponse(created)
	return &resp, nil
}

// ClearHistory deletes every message owned by the caller.
func (s *MessageService) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.DeleteMessagesByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}
	log.Printf("Cleared chat history for user %s", userID)
	return nil
}
