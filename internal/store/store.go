package store

import (
	"context"
	"log/slog"

	"github.com/nhle/notekeeper/internal/model"
)

// Collection keys on the storage medium.
const (
	NotesCollection     = "notes"
	RemindersCollection = "reminders"
)

// Medium is the raw key-value persistence the collections are serialized into.
type Medium interface {
	// Get returns the value for key. ok is false when nothing is stored.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
}

// Store defines the persistence interface for notes and reminders.
type Store interface {
	// === Notes ===

	Notes(ctx context.Context) []model.Note
	LoadNotes(ctx context.Context) ([]model.Note, error)
	SaveNote(ctx context.Context, note model.Note) error
	DeleteNote(ctx context.Context, id string) error

	// === Reminders ===

	Reminders(ctx context.Context) []model.Reminder
	LoadReminders(ctx context.Context) ([]model.Reminder, error)
	SaveReminder(ctx context.Context, reminder model.Reminder) error
	DeleteReminder(ctx context.Context, id string) error
}

// CollectionStore implements Store by rewriting whole collections on a Medium.
type CollectionStore struct {
	medium Medium
	logger *slog.Logger
}

// NewCollectionStore returns a store backed by medium. A nil logger falls
// back to slog.Default().
func NewCollectionStore(medium Medium, logger *slog.Logger) *CollectionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectionStore{medium: medium, logger: logger}
}

// Notes returns every stored note, or an empty slice if none can be read.
func (s *CollectionStore) Notes(ctx context.Context) []model.Note {
	return loadCollection[model.Note](ctx, s, NotesCollection)
}

// LoadNotes returns every stored note. Unlike Notes it reports read and
// decode failures, for callers that must not act on a partial view.
func (s *CollectionStore) LoadNotes(ctx context.Context) ([]model.Note, error) {
	return readCollection[model.Note](ctx, s, NotesCollection)
}

// SaveNote inserts or replaces a note by ID.
func (s *CollectionStore) SaveNote(ctx context.Context, note model.Note) error {
	note.ReminderID = nil
	return upsertRecord(ctx, s, NotesCollection, note)
}

// DeleteNote removes a note by ID.
func (s *CollectionStore) DeleteNote(ctx context.Context, id string) error {
	return deleteRecord[model.Note](ctx, s, NotesCollection, id)
}

// Reminders returns every stored reminder, or an empty slice if none can be read.
func (s *CollectionStore) Reminders(ctx context.Context) []model.Reminder {
	return loadCollection[model.Reminder](ctx, s, RemindersCollection)
}

// LoadReminders is the strict form of Reminders.
func (s *CollectionStore) LoadReminders(ctx context.Context) ([]model.Reminder, error) {
	return readCollection[model.Reminder](ctx, s, RemindersCollection)
}

// SaveReminder inserts or replaces a reminder by ID.
func (s *CollectionStore) SaveReminder(ctx context.Context, reminder model.Reminder) error {
	return upsertRecord(ctx, s, RemindersCollection, reminder)
}

// DeleteReminder removes a reminder by ID.
func (s *CollectionStore) DeleteReminder(ctx context.Context, id string) error {
	return deleteRecord[model.Reminder](ctx, s, RemindersCollection, id)
}

var _ Store = (*CollectionStore)(nil)
var _ Medium = (*SQLiteMedium)(nil)
var _ Medium = (*KeyringMedium)(nil)
