package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	db_models "github.com/nirgal-soft/cbt-chat/internal/models"
	"github.com/nirgal-soft/cbt-chat/internal/store"
)

const createMessage = `-- name: CreateMessage :one
INSERT INTO messages (
    id, content, sender, user_id, conversation_id
) VALUES (
    $1, $2, $3, $4, $5
)
RETURNING id, content, sender, user_id, conversation_id, seq, created_at;
`

func (s *PostgresStore) CreateMessage(ctx context.Context, arg store.CreateMessageParams) (*db_models.Message, error) {
	id := arg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := s.db.QueryRow(ctx, createMessage,
		id,
		arg.Content,
		arg.Sender,
		arg.UserID,
		arg.ConversationID, // pgx handles *uuid.UUID to NULL automatically
	)

	var msg db_models.Message
	err := row.Scan(
		&msg.ID,
		&msg.Content,
		&msg.Sender,
		&msg.UserID,
		&msg.ConversationID,
		&msg.Seq,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning message: %w", err)
	}

	return &msg, nil
}

// listRecentMessages selects the newest `limit` rows, then re-sorts them
// ascending so callers always see replay order.
const listRecentMessages = `-- name: ListRecentMessages :many
SELECT id, content, sender, user_id, conversation_id, seq, created_at
FROM (
    SELECT id, content, sender, user_id, conversation_id, seq, created_at
    FROM messages
    WHERE user_id = $1 AND ($2::uuid IS NULL OR conversation_id = $2)
    ORDER BY seq DESC
    LIMIT $3
) recent
ORDER BY seq ASC;
`

func (s *PostgresStore) ListRecentMessages(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID, limit int) ([]db_models.Message, error) {
	rows, err := s.db.Query(ctx, listRecentMessages, userID, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent messages: %w", err)
	}
	defer rows.Close()

	var items []db_models.Message
	for rows.Next() {
		var msg db_models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.Content,
			&msg.Sender,
			&msg.UserID,
			&msg.ConversationID,
			&msg.Seq,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		items = append(items, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return items, nil
}

const listMessagesByConversation = `-- name: ListMessagesByConversation :many
SELECT id, content, sender, user_id, conversation_id, seq, created_at
FROM messages
WHERE conversation_id = $1 AND user_id = $2
ORDER BY seq ASC;
`

func (s *PostgresStore) ListMessagesByConversation(ctx context.Context, conversationID, userID uuid.UUID) ([]db_models.Message, error) {
	rows, err := s.db.Query(ctx, listMessagesByConversation, conversationID, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying conversation messages: %w", err)
	}
	defer rows.Close()

	var items []db_models.Message
	for rows.Next() {
		var msg db_models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.Content,
			&msg.Sender,
			&msg.UserID,
			&msg.ConversationID,
			&msg.Seq,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		items = append(items, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return items, nil
}

const deleteMessagesByUser = `-- name: DeleteMessagesByUser :exec
DELETE FROM messages
WHERE user_id = $1;
`

func (s *PostgresStore) DeleteMessagesByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.Exec(ctx, deleteMessagesByUser, userID)
	if err != nil {
		return fmt.Errorf("error deleting messages for user: %w", err)
	}
	// Deleting zero rows is fine; an empty history is already clear.
	return nil
}
