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

// ChatService defines the interface expected from the chat turn service.
type ChatService interface {
	SendMessage(ctx context.Context, userID uuid.UUID, req models.ChatRequest) (*models.ChatTurnResponse, error)
}

// ChatHandlers handles HTTP requests for the chat turn pipeline.
type ChatHandlers struct {
	chatService ChatService
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(chatSvc ChatService) *ChatHandlers {
	return &ChatHandlers{
		chatService: chatSvc,
	}
}

// HandleChat handles POST /v1/chat: one user message in, one assistant reply out.
func (h *ChatHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	resp, err := h.chatService.SendMessage(r.Context(), userID, req)
	if err != nil {
		log.Printf("ERROR [ChatHandlers] HandleChat for user %s: %v", userID, err)
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrConversationNotFound):
			httputil.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrConversationForbidden):
			httputil.RespondError(w, http.StatusForbidden, err.Error())
		default:
			// History fetch, gateway, and persistence failures all surface
			// as a generic 500; details stay in the server log.
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to process message")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
