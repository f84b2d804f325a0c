package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/nirgal-soft/cbt-chat/internal/models"
	"github.com/nirgal-soft/cbt-chat/internal/store"
)

// ErrEmptyPrompt rejects attempts to blank out the base prompt.
var ErrEmptyPrompt = errors.New("base prompt cannot be empty")

// SettingsService manages the single application settings row. Authorization
// is enforced at the routing layer (admin-only); the service assumes the
// caller has already been gated.
type SettingsService struct {
	store store.Store
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(s store.Store) *SettingsService {
	return &SettingsService{store: s}
}

// GetSettings returns the current settings record. A missing row is reported
// as an empty prompt rather than an error so the admin page can render.
func (s *SettingsService) GetSettings(ctx context.Context) (*models.SettingsResponse, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &models.SettingsResponse{BasePrompt: ""}, nil
		}
		return nil, fmt.Errorf("failed to read settings from store: %w", err)
	}
	return &models.SettingsResponse{BasePrompt: settings.BasePrompt}, nil
}

// UpdateSettings replaces the base prompt.
func (s *SettingsService) UpdateSettings(ctx context.Context, req models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	prompt := strings.TrimSpace(req.BasePrompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	settings, err := s.store.UpdateSettings(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to update settings in store: %w", err)
	}

	log.Printf("Base prompt updated (%d characters)", len(settings.BasePrompt))
	return &models.SettingsResponse{BasePrompt: settings.BasePrompt}, nil
}
