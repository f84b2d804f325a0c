package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nirgal-soft/cbt-chat/internal/models"
	"github.com/nirgal-soft/cbt-chat/internal/store"
)

// fakeStore is an in-memory store.Store used across the service tests.
// Error fields, when set, are returned by the corresponding methods to
// simulate store failures.
type fakeStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]models.User
	conversations map[uuid.UUID]models.Conversation
	messages      []models.Message
	settings      *models.Settings
	seq           int64

	historyErr       error
	createMessageErr error
	settingsErr      error
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[uuid.UUID]models.User),
		conversations: make(map[uuid.UUID]models.Conversation),
	}
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	user := u
	return &user, nil
}

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = *user
	return nil
}

func (f *fakeStore) CreateMessage(ctx context.Context, arg store.CreateMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createMessageErr != nil {
		return nil, f.createMessageErr
	}
	id := arg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	f.seq++
	msg := models.Message{
		ID:             id,
		Content:        arg.Content,
		Sender:         arg.Sender,
		UserID:         arg.UserID,
		ConversationID: arg.ConversationID,
		Seq:            f.seq,
		CreatedAt:      time.Now(),
	}
	f.messages = append(f.messages, msg)
	return &msg, nil
}

func (f *fakeStore) ListRecentMessages(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID, limit int) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	var matched []models.Message
	for _, m := range f.messages {
		if m.UserID != userID {
			continue
		}
		if conversationID != nil && (m.ConversationID == nil || *m.ConversationID != *conversationID) {
			continue
		}
		matched = append(matched, m)
	}
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched, nil
}

func (f *fakeStore) ListMessagesByConversation(ctx context.Context, conversationID, userID uuid.UUID) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []models.Message
	for _, m := range f.messages {
		if m.UserID == userID && m.ConversationID != nil && *m.ConversationID == conversationID {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

func (f *fakeStore) DeleteMessagesByUser(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []models.Message
	for _, m := range f.messages {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	f.messages = kept
	return nil
}

func (f *fakeStore) CreateConversation(ctx context.Context, conv *models.Conversation) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := *conv
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.conversations[created.ID] = created
	return &created, nil
}

func (f *fakeStore) GetConversationByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := conv
	return &c, nil
}

func (f *fakeStore) ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []models.Conversation
	for _, c := range f.conversations {
		if c.UserID == userID {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (f *fakeStore) TouchConversation(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[id]
	if !ok {
		return store.ErrNotFound
	}
	conv.UpdatedAt = time.Now()
	f.conversations[id] = conv
	return nil
}

func (f *fakeStore) GetSettings(ctx context.Context) (*models.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	if f.settings == nil {
		return nil, store.ErrNotFound
	}
	s := *f.settings
	return &s, nil
}

func (f *fakeStore) UpdateSettings(ctx context.Context, basePrompt string) (*models.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	f.settings = &models.Settings{ID: 1, BasePrompt: basePrompt}
	s := *f.settings
	return &s, nil
}

// messageCount returns the number of stored messages, for write-isolation asserts.
func (f *fakeStore) messageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}
