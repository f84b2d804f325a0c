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

// MessageService defines the interface expected from the message service.
type MessageService interface {
	ListMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]models.MessageResponse, error)
	CreateMessage(ctx context.Context, userID uuid.UUID, req models.CreateMessageRequest) (*models.MessageResponse, error)
	ClearHistory(ctx context.Context, userID uuid.UUID) error
}

type MessageHandlers struct {
	messageService MessageService
}

func NewMessageHandlers(messageSvc MessageService) *MessageHandlers {
	return &MessageHandlers{
		messageService: messageSvc,
	}
}

// HandleListMessages handles GET /v1/messages?conversation_id=ID.
func (h *MessageHandlers) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return
	}

	convIDStr := r.URL.Query().Get("conversation_id")
	if convIDStr == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Conversation ID is required")
		return
	}
	conversationID, err := uuid.Parse(convIDStr)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	messages, err := h.messageService.ListMessages(r.Context(), userID, conversationID)
	if err != nil {
		log.Printf("ERROR [MessageHandlers] HandleListMessages for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, messages)
}

// HandleCreateMessage handles POST /v1/messages.
func (h *MessageHandlers) HandleCreateMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return
	}

	var req models.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	created, err := h.messageService.CreateMessage(r.Context(), userID, req)
	if err != nil {
		log.Printf("ERROR [MessageHandlers] HandleCreateMessage for user %s: %v", userID, err)
		switch {
		case errors.Is(err, services.ErrInvalidSender):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrEmptyContent):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrConversationNotFound):
			httputil.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrConversationForbidden):
			httputil.RespondError(w, http.StatusForbidden, err.Error())
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to create message")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, created)
}

// HandleClearHistory handles DELETE /v1/messages, removing all of the
// caller's messages.
func (h *MessageHandlers) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return
	}

	if err := h.messageService.ClearHistory(r.Context(), userID); err != nil {
		log.Printf("ERROR [MessageHandlers] HandleClearHistory for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to clear chat history")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
