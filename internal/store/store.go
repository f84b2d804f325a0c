package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	db_models "github.com/nirgal-soft/cbt-chat/internal/models"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// CreateMessageParams contains parameters for inserting a message.
// ConversationID is nil for messages outside any conversation.
type CreateMessageParams struct {
	ID             uuid.UUID
	Content        string
	Sender         string // "user" or "ai"
	UserID         uuid.UUID
	ConversationID *uuid.UUID
}

// Store defines the interface for database operations.
// This allows for mocking in tests and potential DB backend switching.
type Store interface {
	// User operations
	GetUserByEmail(ctx context.Context, email string) (*db_models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	CreateUser(ctx context.Context, user *db_models.User) error

	// Message operations
	CreateMessage(ctx context.Context, arg CreateMessageParams) (*db_models.Message, error)
	// ListRecentMessages returns the caller's most recent `limit` messages in
	// ascending insertion order. When conversationID is non-nil the window is
	// scoped to that conversation.
	ListRecentMessages(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID, limit int) ([]db_models.Message, error)
	// ListMessagesByConversation returns all of the caller's messages in the
	// given conversation, ascending insertion order.
	ListMessagesByConversation(ctx context.Context, conversationID, userID uuid.UUID) ([]db_models.Message, error)
	// DeleteMessagesByUser removes every message owned by the user.
	DeleteMessagesByUser(ctx context.Context, userID uuid.UUID) error

	// Conversation operations
	CreateConversation(ctx context.Context, conv *db_models.Conversation) (*db_models.Conversation, error)
	GetConversationByID(ctx context.Context, id uuid.UUID) (*db_models.Conversation, error)
	ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Conversation, error)
	// TouchConversation bumps updated_at, recording message activity.
	TouchConversation(ctx context.Context, id uuid.UUID) error

	// Settings operations
	GetSettings(ctx context.Context) (*db_models.Settings, error)
	UpdateSettings(ctx context.Context, basePrompt string) (*db_models.Settings, error)
}
