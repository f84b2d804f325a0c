package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	db_models "github.com/nirgal-soft/cbt-chat/internal/models"
	"github.com/nirgal-soft/cbt-chat/internal/store"
)

// The settings table holds a single logical row with id = 1.

const getSettings = `-- name: GetSettings :one
SELECT id, base_prompt
FROM settings
WHERE id = 1;
`

func (s *PostgresStore) GetSettings(ctx context.Context) (*db_models.Settings, error) {
	row := s.db.QueryRow(ctx, getSettings)

	var settings db_models.Settings
	err := row.Scan(&settings.ID, &settings.BasePrompt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning settings: %w", err)
	}

	return &settings, nil
}

// updateSettings upserts so an admin edit works even before seed data exists.
const updateSettings = `-- name: UpdateSettings :one
INSERT INTO settings (id, base_prompt)
VALUES (1, $1)
ON CONFLICT (id) DO UPDATE SET base_prompt = EXCLUDED.base_prompt
RETURNING id, base_prompt;
`

func (s *PostgresStore) UpdateSettings(ctx context.Context, basePrompt string) (*db_models.Settings, error) {
	row := s.db.QueryRow(ctx, updateSettings, basePrompt)

	var settings db_models.Settings
	err := row.Scan(&settings.ID, &settings.BasePrompt)
	if err != nil {
		return nil, fmt.Errorf("error scanning updated settings: %w", err)
	}

	return &settings, nil
}
