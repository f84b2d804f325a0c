package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/nirgal-soft/cbt-chat/internal/config"
	"github.com/nirgal-soft/cbt-chat/internal/llm"
	"github.com/nirgal-soft/cbt-chat/internal/models"
	"github.com/nirgal-soft/cbt-chat/internal/store"
)

// Custom errors for the chat turn pipeline
var (
	ErrEmptyMessage     = errors.New("message cannot be empty")
	ErrHistoryFetch     = errors.New("failed to fetch chat history")
	ErrCompletionFailed = errors.New("completion gateway call failed")
)

// Completer is the contract the chat service expects from the language-model
// gateway. Satisfied by *llm.Client.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// ChatService runs the chat turn pipeline: assemble history, call the model,
// persist the user message and the assistant reply in order.
type ChatService struct {
	store         store.Store
	completer     Completer
	historyLimit  int
	defaultPrompt string
	turnLocks     *keyedMutex
}

// NewChatService creates a new ChatService.
func NewChatService(s store.Store, completer Completer, cfg *config.Config) *ChatService {
	return &ChatService{
		store:         s,
		completer:     completer,
		historyLimit:  cfg.HistoryLimit,
		defaultPrompt: cfg.DefaultBasePrompt,
		turnLocks:     newKeyedMutex(),
	}
}

// SendMessage processes one chat turn for the given user.
//
// Order of operations: validate -> check conversation ownership -> fetch
// history -> assemble -> persist user message -> call completion gateway ->
// persist assistant message. If the gateway or the final write fails after the
// user message was stored, the user message stays in place (an orphaned turn);
// no compensating delete is attempted.
func (s *ChatService) SendMessage(ctx context.Context, userID uuid.UUID, req models.ChatRequest) (*models.ChatTurnResponse, error) {
	content := strings.TrimSpace(req.Message)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	if req.ConversationID != nil {
		if err := s.checkConversationOwner(ctx, *req.ConversationID, userID); err != nil {
			return nil, err
		}
	}

	// One writer per conversation at a time. Conversation-less turns are
	// serialized per user since they share one history window.
	lockKey := "user:" + userID.String()
	if req.ConversationID != nil {
		lockKey = "conversation:" + req.ConversationID.String()
	}
	s.turnLocks.Lock(lockKey)
	defer s.turnLocks.Unlock(lockKey)

	history, err := s.store.ListRecentMessages(ctx, userID, req.ConversationID, s.historyLimit)
	if err != nil {
		// Abort before any write or external call; no partial state.
		return nil, fmt.Errorf("%w: %v", ErrHistoryFetch, err)
	}

	assembled := s.assemble(ctx, history, content)

	userMsg, err := s.store.CreateMessage(ctx, store.CreateMessageParams{
		Content:        content,
		Sender:         models.SenderUser,
		UserID:         userID,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	reply, err := s.completer.Complete(ctx, assembled)
	if err != nil {
		// The user message above is left in place as an orphaned turn.
		log.Printf("Completion failed for user %s (user message %s persisted without reply): %v", userID, userMsg.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	aiMsg, err := s.store.CreateMessage(ctx, store.CreateMessageParams{
		Content:        reply,
		Sender:         models.SenderAI,
		UserID:         userID,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		log.Printf("Failed to persist assistant reply for user %s (user message %s persisted without reply): %v", userID, userMsg.ID, err)
		return nil, fmt.Errorf("failed to persist assistant message: %w", err)
	}

	if req.ConversationID != nil {
		if err := s.store.TouchConversation(ctx, *req.ConversationID); err != nil {
			// Activity bump is advisory; the turn itself already committed.
			log.Printf("Warning: failed to touch conversation %s: %v", *req.ConversationID, err)
		}
	}

	return &models.ChatTurnResponse{
		Reply:   toMessageResponse(aiMsg),
		Message: toMessageResponse(userMsg),
	}, nil
}

// assemble builds the ordered role-tagged list handed to the model. The base
// prompt is prepended only when the fetched history is empty: later turns rely
// on prior messages for context and the system entry is not re-sent.
func (s *ChatService) assemble(ctx context.Context, history []models.Message, newMessage string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)

	if len(history) == 0 {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: s.basePrompt(ctx)})
	}

	for _, m := range history {
		role := llm.RoleUser
		if m.Sender == models.SenderAI {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}

	return append(messages, llm.Message{Role: llm.RoleUser, Content: newMessage})
}

// basePrompt returns the settings row's prompt when readable and non-blank,
// otherwise the configured default. A settings read failure never fails the
// surrounding turn.
func (s *ChatService) basePrompt(ctx context.Context) string {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Warning: failed to read settings, using default base prompt: %v", err)
		}
		return s.defaultPrompt
	}
	if strings.TrimSpace(settings.BasePrompt) == "" {
		return s.defaultPrompt
	}
	return settings.BasePrompt
}

// checkConversationOwner verifies the conversation exists and belongs to the
// caller, reading the owner field off the conversation record.
func (s *ChatService) checkConversationOwner(ctx context.Context, conversationID, userID uuid.UUID) error {
	conv, err := s.store.GetConversationByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrConversationNotFound
		}
		return fmt.Errorf("failed to verify conversation: %w", err)
	}
	if conv.UserID != userID {
		return ErrConversationForbidden
	}
	return nil
}

// toMessageResponse converts a DB message to its API representation.
func toMessageResponse(msg *models.Message) models.MessageResponse {
	return models.MessageResponse{
		ID:             msg.ID,
		Content:        msg.Content,
		Sender:         msg.Sender,
		ConversationID: msg.ConversationID,
		CreatedAt:      msg.CreatedAt,
	}
}
