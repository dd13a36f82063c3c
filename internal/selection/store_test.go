package selection

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/set-night/routinebot/internal/config"
	"github.com/set-night/routinebot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	values map[string]string
	err    error
}

func newMemStorage() *memStorage {
	return &memStorage{values: make(map[string]string)}
}

func (m *memStorage) Get(_ context.Context, key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStorage) Set(_ context.Context, key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.values, key)
	return nil
}

var (
	prodA = domain.Product{ID: 1, Name: "A", Brand: "BrandA", Category: "cleanser"}
	prodB = domain.Product{ID: 2, Name: "B", Brand: "BrandB", Category: "cleanser"}
	prodC = domain.Product{ID: 3, Name: "C", Brand: "BrandC", Category: "suncare"}
)

func ids(items []domain.Product) []int {
	out := make([]int, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestToggleTwiceRestoresContentsAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemStorage())
	s.Toggle(ctx, prodA)
	s.Toggle(ctx, prodB)
	before := s.Items()

	assert.True(t, s.Toggle(ctx, prodC))
	assert.False(t, s.Toggle(ctx, prodC))

	assert.Equal(t, before, s.Items())
}

func TestToggleReappendsAtEnd(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemStorage())

	s.Toggle(ctx, prodA)
	assert.Equal(t, []int{1}, ids(s.Items()))
	s.Toggle(ctx, prodA)
	assert.Empty(t, s.Items())
	s.Toggle(ctx, prodA)
	assert.Equal(t, []int{1}, ids(s.Items()))

	s.Toggle(ctx, prodB)
	s.Toggle(ctx, prodC)
	s.Toggle(ctx, prodA)
	s.Toggle(ctx, prodA)
	assert.Equal(t, []int{2, 3, 1}, ids(s.Items()))
}

func TestToggleMatchesByID(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemStorage())
	s.Toggle(ctx, prodA)

	renamed := prodA
	renamed.Name = "A (new label)"
	assert.False(t, s.Toggle(ctx, renamed))
	assert.Zero(t, s.Len())
}

func TestPersistThenReload(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	s := NewStore(storage)
	s.Toggle(ctx, prodB)
	s.Toggle(ctx, prodA)

	restarted := NewStore(storage)
	restarted.Load(ctx)

	assert.Equal(t, []int{2, 1}, ids(restarted.Items()))
	assert.Equal(t, s.Items(), restarted.Items())
}

func TestLoadCorruptDataYieldsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	storage.values[config.SelectionKey] = "{not json"

	s := NewStore(storage)
	s.Load(ctx)

	assert.Zero(t, s.Len())
}

func TestLoadMissingAndFailingStorage(t *testing.T) {
	ctx := context.Background()

	s := NewStore(newMemStorage())
	s.Load(ctx)
	assert.Zero(t, s.Len())

	broken := newMemStorage()
	broken.err = errors.New("db down")
	s = NewStore(broken)
	s.Load(ctx)
	assert.Zero(t, s.Len())
}

func TestLoadDropsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	data, err := json.Marshal([]domain.Product{prodA, prodB, prodA})
	require.NoError(t, err)
	storage.values[config.SelectionKey] = string(data)

	s := NewStore(storage)
	s.Load(ctx)

	assert.Equal(t, []int{1, 2}, ids(s.Items()))
}

func TestClearRemovesPersistedEntry(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	s := NewStore(storage)
	s.Toggle(ctx, prodA)
	require.Contains(t, storage.values, config.SelectionKey)

	s.Clear(ctx)

	assert.Zero(t, s.Len())
	assert.NotContains(t, storage.values, config.SelectionKey)
}

func TestStorageFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	storage.err = errors.New("db down")
	s := NewStore(storage)

	s.Toggle(ctx, prodA)

	assert.True(t, s.Contains(prodA.ID))
}

func TestSubscribersSeeEveryMutation(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemStorage())

	var seen [][]int
	s.Subscribe(func(_ context.Context, items []domain.Product) {
		seen = append(seen, ids(items))
	})

	s.Toggle(ctx, prodA)
	s.Toggle(ctx, prodB)
	s.Toggle(ctx, prodA)
	s.Clear(ctx)

	assert.Equal(t, [][]int{{1}, {1, 2}, {2}, {}}, seen)
}

func TestFindAndIDs(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemStorage())
	s.Toggle(ctx, prodC)

	p, ok := s.Find(3)
	assert.True(t, ok)
	assert.Equal(t, prodC, p)

	_, ok = s.Find(1)
	assert.False(t, ok)

	assert.Equal(t, map[int]bool{3: true}, s.IDs())
}
