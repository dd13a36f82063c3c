package selection

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/set-night/routinebot/internal/config"
	"github.com/set-night/routinebot/internal/domain"
)

// Storage is durable key/value storage owned by one chat.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Listener receives a snapshot of the selection after every mutation.
type Listener func(ctx context.Context, items []domain.Product)

// Store is an insertion-ordered set of products, unique by id, mirrored to
// Storage. The in-memory list is authoritative; storage errors are logged.
type Store struct {
	mu        sync.Mutex
	items     []domain.Product
	storage   Storage
	listeners []Listener
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Load replaces the in-memory list with the persisted one. Missing or
// unparsable data leaves the store empty.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil

	raw, ok, err := s.storage.Get(ctx, config.SelectionKey)
	if err != nil {
		slog.Warn("load selection", "error", err)
		return
	}
	if !ok {
		return
	}

	var saved []domain.Product
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		slog.Warn("discarding unreadable selection", "error", err)
		return
	}

	seen := make(map[int]bool, len(saved))
	for _, p := range saved {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		s.items = append(s.items, p)
	}
}

// Toggle removes the product if selected, otherwise appends it.
// It reports whether the product is selected afterwards.
func (s *Store) Toggle(ctx context.Context, p domain.Product) bool {
	s.mu.Lock()
	added := true
	if i := s.indexOf(p.ID); i >= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
		added = false
	} else {
		s.items = append(s.items, p)
	}
	s.persist(ctx)
	snapshot, listeners := s.snapshot()
	s.mu.Unlock()

	notify(ctx, listeners, snapshot)
	return added
}

// Clear empties the selection and removes the persisted entry.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	if err := s.storage.Delete(ctx, config.SelectionKey); err != nil {
		slog.Warn("delete selection", "error", err)
	}
	snapshot, listeners := s.snapshot()
	s.mu.Unlock()

	notify(ctx, listeners, snapshot)
}

// Subscribe registers fn to run after every Toggle and Clear.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Items returns a copy of the selection in insertion order.
func (s *Store) Items() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, _ := s.snapshot()
	return items
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Contains(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// Find returns the selected product with the given id.
func (s *Store) Find(id int) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return domain.Product{}, false
}

// IDs returns the selected ids as a set.
func (s *Store) IDs() map[int]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make(map[int]bool, len(s.items))
	for _, p := range s.items {
		ids[p.ID] = true
	}
	return ids
}

func (s *Store) indexOf(id int) int {
	for i, p := range s.items {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []domain.Product{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		slog.Warn("encode selection", "error", err)
		return
	}
	if err := s.storage.Set(ctx, config.SelectionKey, string(data)); err != nil {
		slog.Warn("save selection", "error", err)
	}
}

// snapshot must be called with mu held.
func (s *Store) snapshot() ([]domain.Product, []Listener) {
	items := make([]domain.Product, len(s.items))
	copy(items, s.items)
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	return items, listeners
}

func notify(ctx context.Context, listeners []Listener, items []domain.Product) {
	for _, fn := range listeners {
		fn(ctx, items)
	}
}
