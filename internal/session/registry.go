package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/set-night/routinebot/internal/chat"
	"github.com/set-night/routinebot/internal/domain"
	"github.com/set-night/routinebot/internal/selection"
)

// StorageFactory returns the durable storage owned by a chat.
type StorageFactory func(chatID int64) selection.Storage

// Session is the state of one chat: its selection, its conversation and
// the view state needed to re-render.
type Session struct {
	ID        uuid.UUID
	ChatID    int64
	Selection *selection.Store
	Chat      *chat.Session

	mu       sync.Mutex
	category string
	visible  []domain.Product
	page     int
	gridMsg  int
	panelMsg int
	status   int
}

// Category returns the category picked last and the grid page shown.
func (s *Session) Category() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category, s.page
}

// Visible returns the products of the picked category as last loaded.
func (s *Session) Visible() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.visible))
	copy(out, s.visible)
	return out
}

// SetCategory records the picked category with its products and resets paging.
func (s *Session) SetCategory(category string, products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = category
	s.visible = products
	s.page = 0
}

func (s *Session) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
}

// Messages returns the ids of the grid and panel messages, 0 if not sent.
func (s *Session) Messages() (grid, panel int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gridMsg, s.panelMsg
}

func (s *Session) SetGridMessage(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gridMsg = id
}

func (s *Session) SetPanelMessage(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panelMsg = id
}

// SetStatusMessage records the "pending" message of the request in flight.
func (s *Session) SetStatusMessage(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = id
}

// TakeStatusMessage returns the pending message id and forgets it.
func (s *Session) TakeStatusMessage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.status
	s.status = 0
	return id
}

// Registry hands out one Session per chat, creating it on first use.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*Session

	storage   StorageFactory
	completer chat.Completer
	chatOpts  chat.Options
	onCreate  func(*Session)
}

func NewRegistry(storage StorageFactory, completer chat.Completer, opts chat.Options) *Registry {
	return &Registry{
		sessions:  make(map[int64]*Session),
		storage:   storage,
		completer: completer,
		chatOpts:  opts,
	}
}

// OnCreate sets a hook run once for every new session, before it is
// returned. Views use it to subscribe to state changes.
func (r *Registry) OnCreate(fn func(*Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onCreate = fn
}

// Get returns the chat's session. A new session loads the persisted
// selection and starts with an empty conversation.
func (r *Registry) Get(ctx context.Context, chatID int64) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[chatID]; ok {
		return s
	}

	s := &Session{
		ID:        uuid.New(),
		ChatID:    chatID,
		Selection: selection.NewStore(r.storage(chatID)),
		Chat:      chat.NewSession(r.completer, r.chatOpts),
	}
	s.Selection.Load(ctx)
	if r.onCreate != nil {
		r.onCreate(s)
	}
	r.sessions[chatID] = s

	slog.Debug("session created", "session_id", s.ID, "chat_id", chatID, "selected", s.Selection.Len())
	return s
}

// Drop forgets the chat's session. Persisted selection is kept.
func (r *Registry) Drop(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, chatID)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
