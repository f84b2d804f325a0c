package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/nirgal-soft/cbt-chat/internal/models"
	"github.com/nirgal-soft/cbt-chat/internal/services"
	"github.com/nirgal-soft/cbt-chat/pkg/httputil"
)

// SettingsService defines the interface expected from the settings service.
// Routes using this handler must sit behind the admin-only middleware.
type SettingsService interface {
	GetSettings(ctx context.Context) (*models.SettingsResponse, error)
	UpdateSettings(ctx context.Context, req models.UpdateSettingsRequest) (*models.SettingsResponse, error)
}

type SettingsHandlers struct {
	settingsService SettingsService
}

func NewSettingsHandlers(settingsSvc SettingsService) *SettingsHandlers {
	return &SettingsHandlers{
		settingsService: settingsSvc,
	}
}

// HandleGetSettings handles GET /v1/admin/settings.
func (h *SettingsHandlers) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	resp, err := h.settingsService.GetSettings(r.Context())
	if err != nil {
		log.Printf("ERROR [SettingsHandlers] HandleGetSettings: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to read settings")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleUpdateSettings handles PUT /v1/admin/settings.
func (h *SettingsHandlers) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	resp, err := h.settingsService.UpdateSettings(r.Context(), req)
	if err != nil {
		log.Printf("ERROR [SettingsHandlers] HandleUpdateSettings: %v", err)
		switch {
		case errors.Is(err, services.ErrEmptyPrompt):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to update settings")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
