package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nirgal-soft/cbt-chat/internal/config"
	"github.com/nirgal-soft/cbt-chat/internal/llm"
	"github.com/nirgal-soft/cbt-chat/internal/models"
)

// fakeCompleter records every assembled message list it receives and can
// simulate failures, latency, and overlapping calls.
type fakeCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	delay time.Duration
	calls [][]llm.Message

	inFlight int32
	overlap  atomic.Bool
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	if atomic.AddInt32(&f.inFlight, 1) > 1 {
		f.overlap.Store(true)
	}
	defer atomic.AddInt32(&f.inFlight, -1)

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.calls = append(f.calls, messages)
	f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeCompleter) lastCall() []llm.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

func newTestChatService(fs *fakeStore, fc *fakeCompleter) *ChatService {
	cfg := &config.Config{
		HistoryLimit:      10,
		DefaultBasePrompt: config.DefaultBasePrompt,
	}
	return NewChatService(fs, fc, cfg)
}

func TestSendMessageSeedsSystemPromptOnEmptyHistory(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.settings = &models.Settings{ID: 1, BasePrompt: "Be concise."}
	fc := &fakeCompleter{reply: "Hello!"}
	svc := newTestChatService(fs, fc)

	userID := uuid.New()
	resp, err := svc.SendMessage(context.Background(), userID, models.ChatRequest{Message: "Hi"})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	assembled := fc.lastCall()
	if len(assembled) != 2 {
		t.Fatalf("expected 2 assembled messages, got %d: %+v", len(assembled), assembled)
	}
	if assembled[0].Role != llm.RoleSystem || assembled[0].Content != "Be concise." {
		t.Errorf("expected leading system entry with settings prompt, got %+v", assembled[0])
	}
	if assembled[1].Role != llm.RoleUser || assembled[1].Content != "Hi" {
		t.Errorf("expected trailing user entry, got %+v", assembled[1])
	}

	if resp.Reply.Content != "Hello!" || resp.Reply.Sender != models.SenderAI {
		t.Errorf("unexpected reply record: %+v", resp.Reply)
	}
	if resp.Message.Content != "Hi" || resp.Message.Sender != models.SenderUser {
		t.Errorf("unexpected user message record: %+v", resp.Message)
	}
	if got := fs.messageCount(); got != 2 {
		t.Errorf("expected 2 persisted messages, got %d", got)
	}
}

func TestSendMessageDefaultPromptWhenSettingsMissing(t *testing.T) {
	t.Parallel()

	fs := newFakeStore() // no settings row
	fc := &fakeCompleter{reply: "ok"}
	svc := newTestChatService(fs, fc)

	if _, err := svc.SendMessage(context.Background(), uuid.New(), models.ChatRequest{Message: "Hi"}); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	assembled := fc.lastCall()
	if assembled[0].Role != llm.RoleSystem || assembled[0].Content != config.DefaultBasePrompt {
		t.Errorf("expected default base prompt fallback, got %+v", assembled[0])
	}
}

func TestSendMessageNoSystemEntryWithHistory(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.settings = &models.Settings{ID: 1, BasePrompt: "Be concise."}
	fc := &fakeCompleter{reply: "ok"}
	svc := newTestChatService(fs, fc)

	userID := uuid.New()
	if _, err := svc.SendMessage(context.Background(), userID, models.ChatRequest{Message: "first"}); err != nil {
		t.Fatalf("first turn failed: %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), userID, models.ChatRequest{Message: "second"}); err != nil {
		t.Fatalf("second turn failed: %v", err)
	}

	assembled := fc.lastCall()
	for _, m := range assembled {
		if m.Role == llm.RoleSystem {
			t.Fatalf("expected no system entry on non-empty history, got %+v", assembled)
		}
	}
	// History from the first turn plus the new message, in replay order.
	want := []llm.Message{
		{Role: llm.RoleUser, Content: "first"},
		{Role: llm.RoleAssistant, Content: "ok"},
		{Role: llm.RoleUser, Content: "second"},
	}
	if len(assembled) != len(want) {
		t.Fatalf("expected %d assembled messages, got %d: %+v", len(want), len(assembled), assembled)
	}
	for i := range want {
		if assembled[i] != want[i] {
			t.Errorf("assembled[%d] = %+v, want %+v", i, assembled[i], want[i])
		}
	}
}

func TestSendMessageRejectsBlankMessage(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fc := &fakeCompleter{reply: "ok"}
	svc := newTestChatService(fs, fc)

	_, err := svc.SendMessage(context.Background(), uuid.New(), models.ChatRequest{Message: "   "})
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if got := fs.messageCount(); got != 0 {
		t.Errorf("expected no persisted messages, got %d", got)
	}
}

func TestSendMessageForbiddenConversationWritesNothing(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fc := &fakeCompleter{reply: "ok"}
	svc := newTestChatService(fs, fc)

	owner := uuid.New()
	conv, err := fs.CreateConversation(context.Background(), &models.Conversation{Title: "private", UserID: owner})
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}

	intruder := uuid.New()
	_, err = svc.SendMessage(context.Background(), intruder, models.ChatRequest{Message: "Hi", ConversationID: &conv.ID})
	if !errors.Is(err, ErrConversationForbidden) {
		t.Fatalf("expected ErrConversationForbidden, got %v", err)
	}
	if got := fs.messageCount(); got != 0 {
		t.Errorf("expected no persisted messages, got %d", got)
	}
	if len(fc.calls) != 0 {
		t.Errorf("expected no completion call, got %d", len(fc.calls))
	}
}

func TestSendMessageGatewayFailureLeavesOrphanedTurn(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fc := &fakeCompleter{err: errors.New("rate limited")}
	svc := newTestChatService(fs, fc)

	userID := uuid.New()
	_, err := svc.SendMessage(context.Background(), userID, models.ChatRequest{Message: "Hi"})
	if !errors.Is(err, ErrCompletionFailed) {
		t.Fatalf("expected ErrCompletionFailed, got %v", err)
	}

	// The user message survives the failed turn; no assistant message exists.
	history, err := fs.ListRecentMessages(context.Background(), userID, nil, 10)
	if err != nil {
		t.Fatalf("ListRecentMessages failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected exactly the orphaned user message, got %d messages", len(history))
	}
	if history[0].Sender != models.SenderUser || history[0].Content != "Hi" {
		t.Errorf("unexpected orphaned message: %+v", history[0])
	}
}

func TestSendMessageHistoryFetchErrorWritesNothing(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.historyErr = errors.New("connection refused")
	fc := &fakeCompleter{reply: "ok"}
	svc := newTestChatService(fs, fc)

	_, err := svc.SendMessage(context.Background(), uuid.New(), models.ChatRequest{Message: "Hi"})
	if !errors.Is(err, ErrHistoryFetch) {
		t.Fatalf("expected ErrHistoryFetch, got %v", err)
	}
	if got := fs.messageCount(); got != 0 {
		t.Errorf("expected no persisted messages, got %d", got)
	}
	if len(fc.calls) != 0 {
		t.Errorf("expected no completion call before history, got %d", len(fc.calls))
	}
}

func TestSendMessageSerializesTurnsOnSameConversation(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fc := &fakeCompleter{reply: "ok", delay: 20 * time.Millisecond}
	svc := newTestChatService(fs, fc)

	userID := uuid.New()
	conv, err := fs.CreateConversation(context.Background(), &models.Conversation{Title: "t", UserID: userID})
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SendMessage(context.Background(), userID, models.ChatRequest{Message: "hello", ConversationID: &conv.ID})
			if err != nil {
				t.Errorf("SendMessage failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if fc.overlap.Load() {
		t.Error("expected turns on the same conversation to run one at a time")
	}
	if got := fs.messageCount(); got != 8 {
		t.Errorf("expected 8 persisted messages (4 turns), got %d", got)
	}
}
