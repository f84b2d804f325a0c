package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	db_models "github.com/nirgal-soft/cbt-chat/internal/models"
	"github.com/nirgal-soft/cbt-chat/internal/store"
)

const createConversation = `-- name: CreateConversation :one
INSERT INTO conversations (
    id, title, user_id
) VALUES (
    $1, $2, $3
)
RETURNING id, title, user_id, created_at, updated_at;
`

func (s *PostgresStore) CreateConversation(ctx context.Context, conv *db_models.Conversation) (*db_models.Conversation, error) {
	id := conv.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := s.db.QueryRow(ctx, createConversation, id, conv.Title, conv.UserID)

	var created db_models.Conversation
	err := row.Scan(
		&created.ID,
		&created.Title,
		&created.UserID,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning conversation: %w", err)
	}

	return &created, nil
}

const getConversationByID = `-- name: GetConversationByID :one
SELECT id, title, user_id, created_at, updated_at
FROM conversations
WHERE id = $1;
`

// GetConversationByID returns the conversation regardless of owner; ownership
// is the caller's decision (the owner field is what the authorization check reads).
func (s *PostgresStore) GetConversationByID(ctx context.Context, id uuid.UUID) (*db_models.Conversation, error) {
	row := s.db.QueryRow(ctx, getConversationByID, id)

	var conv db_models.Conversation
	err := row.Scan(
		&conv.ID,
		&conv.Title,
		&conv.UserID,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning conversation: %w", err)
	}

	return &conv, nil
}

const listConversationsByUser = `-- name: ListConversationsByUser :many
SELECT id, title, user_id, created_at, updated_at
FROM conversations
WHERE user_id = $1
ORDER BY updated_at DESC;
`

func (s *PostgresStore) ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Conversation, error) {
	rows, err := s.db.Query(ctx, listConversationsByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying conversations: %w", err)
	}
	defer rows.Close()

	var items []db_models.Conversation
	for rows.Next() {
		var conv db_models.Conversation
		if err := rows.Scan(
			&conv.ID,
			&conv.Title,
			&conv.UserID,
			&conv.CreatedAt,
			&conv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning conversation row: %w", err)
		}
		items = append(items, conv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}

	return items, nil
}

const touchConversation = `-- name: TouchConversation :exec
UPDATE conversations
SET updated_at = NOW()
WHERE id = $1;
`

func (s *PostgresStore) TouchConversation(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, touchConversation, id)
	if err != nil {
		return fmt.Errorf("error touching conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
