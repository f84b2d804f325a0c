package models

import (
	"time"

	"github.com/google/uuid"
)

// --- Request Structs ---

// SignupRequest defines the expected body for the signup endpoint.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest defines the expected body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Response Structs ---

// UserResponse defines the user information returned by the API.
// Avoid returning sensitive info like HashedPassword.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// AuthResponse defines the response body for successful authentication.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// --- Chat DTOs ---

// ChatRequest defines the payload for submitting a new chat turn.
// ConversationID is optional; when absent the turn is part of the user's
// ungrouped history.
type ChatRequest struct {
	Message        string     `json:"message"`
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
}

// MessageResponse defines the standard representation of a message in API responses.
type MessageResponse struct {
	ID             uuid.UUID  `json:"id"`
	Content        string     `json:"content"`
	Sender         string     `json:"sender"` // "user" or "ai"
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ChatTurnResponse returns both records persisted for one completed turn.
type ChatTurnResponse struct {
	Reply   MessageResponse `json:"reply"`   // the assistant message
	Message MessageResponse `json:"message"` // the user message that elicited it
}

// CreateMessageRequest defines the payload for inserting a message directly.
type CreateMessageRequest struct {
	Content        string    `json:"content"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Sender         string    `json:"sender"` // must be "user" or "ai"
}

// --- Conversation DTOs ---

// CreateConversationRequest defines the payload for creating a conversation.
type CreateConversationRequest struct {
	Title string `json:"title"`
}

// ConversationResponse defines the standard representation of a conversation.
type ConversationResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListConversationsResponse defines the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []ConversationResponse `json:"conversations"`
}

// --- Settings DTOs ---

// SettingsResponse defines the admin-visible settings record.
type SettingsResponse struct {
	BasePrompt string `json:"base_prompt"`
}

// UpdateSettingsRequest defines the payload for replacing the base prompt.
type UpdateSettingsRequest struct {
	BasePrompt string `json:"base_prompt"`
}
