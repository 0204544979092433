package testutil

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/nhle/notekeeper/internal/store"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestMedium creates an in-memory SQLiteMedium with all migrations applied.
// It automatically closes the medium when the test completes.
func NewTestMedium(t *testing.T) *store.SQLiteMedium {
	t.Helper()

	m, err := store.NewSQLiteMedium(":memory:")
	if err != nil {
		t.Fatalf("creating test medium: %v", err)
	}

	t.Cleanup(func() {
		if err := m.Close(); err != nil {
			t.Errorf("closing test medium: %v", err)
		}
	})

	return m
}

// NewTestStore creates a CollectionStore over an in-memory SQLite medium.
func NewTestStore(t *testing.T) *store.CollectionStore {
	t.Helper()
	return store.NewCollectionStore(NewTestMedium(t), DiscardLogger())
}

// MemoryMedium is a map-backed store.Medium with injectable failures.
// GetErr fails every read; GetErrs fails reads of the listed keys only.
type MemoryMedium struct {
	mu      sync.Mutex
	data    map[string]string
	GetErr  error
	GetErrs map[string]error
	SetErr  error
	Sets    int
}

// NewMemoryMedium returns an empty MemoryMedium.
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{data: make(map[string]string), GetErrs: make(map[string]error)}
}

func (m *MemoryMedium) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	if err := m.GetErrs[key]; err != nil {
		return "", false, err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryMedium) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = value
	m.Sets++
	return nil
}

// Raw returns the stored payload for key, bypassing injected failures.
func (m *MemoryMedium) Raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

// Put stores a payload directly, bypassing injected failures.
func (m *MemoryMedium) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}
