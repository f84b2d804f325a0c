package models

import (
	"time"

	"github.com/google/uuid"
)

// Role values stored in users.role.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Sender values stored in messages.sender.
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// User represents a user in the database.
type User struct {
	ID             uuid.UUID `db:"id"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	Role           string    `db:"role"` // "user" or "admin"
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Conversation represents a named grouping of messages owned by a user.
type Conversation struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Message represents a single persisted chat message. ConversationID is nil
// for messages that are not grouped into a conversation.
type Message struct {
	ID             uuid.UUID  `db:"id"`
	Content        string     `db:"content"`
	Sender         string     `db:"sender"` // "user" or "ai"
	UserID         uuid.UUID  `db:"user_id"`
	ConversationID *uuid.UUID `db:"conversation_id"`
	Seq            int64      `db:"seq"` // monotonic insertion order, breaks timestamp ties
	CreatedAt      time.Time  `db:"created_at"`
}

// Settings holds the single mutable application settings row.
// Only one logical row exists (id = 1).
type Settings struct {
	ID         int32  `db:"id"`
	BasePrompt string `db:"base_prompt"`
}
