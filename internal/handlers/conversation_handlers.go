package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/nirgal-soft/cbt-chat/internal/auth"
	"github.com/nirgal-soft/cbt-chat/internal/models"
	"github.com/nirgal-soft/cbt-chat/internal/services"
	"github.com/nirgal-soft/cbt-chat/pkg/httputil"
)

// ConversationService defines the interface expected from the conversation service.
type ConversationService interface {
	CreateConversation(ctx context.Context, userID uuid.UUID, req models.CreateConversationRequest) (*models.ConversationResponse, error)
	ListConversations(ctx context.Context, userID uuid.UUID) (*models.ListConversationsResponse, error)
}

type ConversationHandlers struct {
	conversationService ConversationService
}

func NewConversationHandlers(conversationSvc ConversationService) *ConversationHandlers {
	return &ConversationHandlers{
		conversationService: conversationSvc,
	}
}

// HandleCreateConversation handles POST /v1/conversations.
func (h *ConversationHandlers) HandleCreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return
	}

	var req models.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	created, err := h.conversationService.CreateConversation(r.Context(), userID, req)
	if err != nil {
		log.Printf("ERROR [ConversationHandlers] HandleCreateConversation for user %s: %v", userID, err)
		switch {
		case errors.Is(err, services.ErrEmptyTitle):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to create conversation")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, created)
}

// HandleListConversations handles GET /v1/conversations.
func (h *ConversationHandlers) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return
	}

	resp, err := h.conversationService.ListConversations(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [ConversationHandlers] HandleListConversations for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list conversations")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
