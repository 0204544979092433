// Package notes is the only place note and reminder state is mutated. It
// keeps the two collections consistent with each other and with the
// notification scheduler.
package notes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nhle/notekeeper/internal/model"
	"github.com/nhle/notekeeper/internal/schedule"
	"github.com/nhle/notekeeper/internal/store"
)

// Notifier schedules and cancels reminder alerts.
type Notifier interface {
	ScheduleNotification(ctx context.Context, reminderID string, fireAt time.Time, title string) error
	CancelNotification(ctx context.Context, reminderID string) error
}

// Forgetter is implemented by notifiers that track live alerts and must be
// told when one has fired on its own.
type Forgetter interface {
	Forget(reminderID string)
}

var (
	_ Notifier  = (*schedule.Bridge)(nil)
	_ Forgetter = (*schedule.Bridge)(nil)
)

// Service implements the note and reminder operations.
type Service struct {
	store    store.Store
	notifier Notifier
	opts     *options

	// mu serializes mutations so a cascade is never observed half done.
	mu sync.Mutex
}

// New creates a Service over st that reports reminder changes to notifier.
func New(st store.Store, notifier Notifier, opts ...Option) *Service {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Service{store: st, notifier: notifier, opts: o}
}

// === Queries ===

// ListNotes returns every note with its ReminderID derived from the
// reminders collection.
func (s *Service) ListNotes(ctx context.Context) []model.Note {
	notes := s.store.Notes(ctx)
	attachReminders(notes, s.store.Reminders(ctx))
	return notes
}

// ListReminders returns every stored reminder.
func (s *Service) ListReminders(ctx context.Context) []model.Reminder {
	return s.store.Reminders(ctx)
}

// GetNote returns a single note by ID.
func (s *Service) GetNote(ctx context.Context, id string) (model.Note, error) {
	for _, n := range s.ListNotes(ctx) {
		if n.ID == id {
			return n, nil
		}
	}
	return model.Note{}, fmt.Errorf("getting note %s: %w", id, ErrNotFound)
}

// === Notes ===

// CreateNote stores a new unpinned note built from draft.
func (s *Service) CreateNote(ctx context.Context, draft model.NoteDraft) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.now()
	note := model.Note{
		ID:        s.opts.newID(),
		Title:     draft.Title,
		Content:   draft.Content,
		Color:     draft.Color,
		IsPinned:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.SaveNote(ctx, note); err != nil {
		return model.Note{}, fmt.Errorf("creating note: %w", err)
	}

	s.opts.logger.DebugContext(ctx, "note created", "note_id", note.ID)
	return note, nil
}

// UpdateNote replaces an existing note. CreatedAt is kept from the stored
// version and UpdatedAt never moves backwards.
func (s *Service) UpdateNote(ctx context.Context, note model.Note) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note.ID == "" {
		return model.Note{}, fmt.Errorf("updating note: empty id: %w", ErrInvalidInput)
	}

	notes, err := s.store.LoadNotes(ctx)
	if err != nil {
		return model.Note{}, fmt.Errorf("updating note %s: %w", note.ID, err)
	}
	existing, ok := findNote(notes, note.ID)
	if !ok {
		return model.Note{}, fmt.Errorf("updating note %s: %w", note.ID, ErrNotFound)
	}

	now := s.opts.now()
	if now.Before(existing.UpdatedAt) {
		now = existing.UpdatedAt
	}
	note.CreatedAt = existing.CreatedAt
	note.UpdatedAt = now

	if err := s.store.SaveNote(ctx, note); err != nil {
		return model.Note{}, fmt.Errorf("updating note %s: %w", note.ID, err)
	}

	note.ReminderID = reminderFor(s.store.Reminders(ctx), note.ID)
	return note, nil
}

// TogglePin flips the pinned state of note and saves it.
func (s *Service) TogglePin(ctx context.Context, note model.Note) (model.Note, error) {
	note.IsPinned = !note.IsPinned
	return s.UpdateNote(ctx, note)
}

// DeleteNote removes a note after removing every reminder that references
// it. If the reminders cannot be read, or any of them cannot be removed, the
// note is kept.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminders, err := s.store.LoadReminders(ctx)
	if err != nil {
		return fmt.Errorf("deleting note %s: %w", id, err)
	}
	for _, r := range reminders {
		if r.NoteID != id {
			continue
		}
		if err := s.deleteReminder(ctx, r.ID); err != nil {
			return fmt.Errorf("deleting note %s: %w", id, err)
		}
	}

	if err := s.store.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("deleting note %s: %w", id, err)
	}

	s.opts.logger.DebugContext(ctx, "note deleted", "note_id", id)
	return nil
}

// === Reminders ===

// CreateReminder stores a reminder for an existing note and schedules its
// alert. A scheduling failure is logged; the reminder is kept regardless.
func (s *Service) CreateReminder(
	ctx context.Context,
	noteID string,
	date time.Time,
) (model.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createReminder(ctx, noteID, date)
}

// SetReminder makes date the only reminder of a note, replacing any others.
func (s *Service) SetReminder(
	ctx context.Context,
	noteID string,
	date time.Time,
) (model.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.store.LoadNotes(ctx)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("setting reminder for note %s: %w", noteID, err)
	}
	if _, ok := findNote(notes, noteID); !ok {
		return model.Reminder{}, fmt.Errorf("setting reminder for note %s: %w", noteID, ErrNotFound)
	}

	reminders, err := s.store.LoadReminders(ctx)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("setting reminder for note %s: %w", noteID, err)
	}
	for _, r := range reminders {
		if r.NoteID != noteID {
			continue
		}
		if err := s.deleteReminder(ctx, r.ID); err != nil {
			return model.Reminder{}, fmt.Errorf("replacing reminder %s: %w", r.ID, err)
		}
	}

	return s.createReminder(ctx, noteID, date)
}

// DeleteReminder cancels a reminder's alert and removes the reminder.
// Deleting an unknown ID is not an error.
func (s *Service) DeleteReminder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteReminder(ctx, id)
}

// CompleteReminder cancels any pending alert and marks the reminder completed.
func (s *Service) CompleteReminder(ctx context.Context, id string) (model.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.completeReminder(ctx, id)
}

// AcknowledgeFired is called when a reminder's alert has fired, before the
// alert is shown. It fails with ErrNotFound if the reminder or its note no
// longer exists and with ErrCompleted if the reminder was completed, so an
// alert armed before such a change elsewhere can be dropped. With
// complete-on-fire enabled the reminder is marked completed.
func (s *Service) AcknowledgeFired(ctx context.Context, id string) (model.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.notifier.(Forgetter); ok {
		f.Forget(id)
	}

	reminders, err := s.store.LoadReminders(ctx)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("acknowledging reminder %s: %w", id, err)
	}
	r, ok := findReminder(reminders, id)
	if !ok {
		return model.Reminder{}, fmt.Errorf("acknowledging reminder %s: %w", id, ErrNotFound)
	}
	if r.IsCompleted {
		return r, fmt.Errorf("acknowledging reminder %s: %w", id, ErrCompleted)
	}

	notes, err := s.store.LoadNotes(ctx)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("acknowledging reminder %s: %w", id, err)
	}
	if _, ok := findNote(notes, r.NoteID); !ok {
		return model.Reminder{}, fmt.Errorf("acknowledging reminder %s: note %s: %w", id, r.NoteID, ErrNotFound)
	}

	if s.opts.completeOnFire {
		return s.completeReminder(ctx, id)
	}
	return r, nil
}

// RestoreSchedules schedules an alert for every pending reminder whose time
// has not passed yet. It returns how many were scheduled, along with any
// scheduling failures.
func (s *Service) RestoreSchedules(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.notificationsEnabled() {
		s.opts.logger.InfoContext(ctx, "notifications disabled, not restoring schedules")
		return 0, nil
	}

	notes, err := s.store.LoadNotes(ctx)
	if err != nil {
		return 0, fmt.Errorf("restoring schedules: %w", err)
	}
	reminders, err := s.store.LoadReminders(ctx)
	if err != nil {
		return 0, fmt.Errorf("restoring schedules: %w", err)
	}

	titles := make(map[string]string, len(notes))
	for _, n := range notes {
		titles[n.ID] = n.Title
	}

	now := s.opts.now()
	var (
		count int
		errs  []error
	)
	for _, r := range reminders {
		if r.IsCompleted || !r.Date.After(now) {
			continue
		}
		title, ok := titles[r.NoteID]
		if !ok {
			s.opts.logger.WarnContext(ctx, "reminder references missing note, not scheduling",
				"reminder_id", r.ID, "note_id", r.NoteID)
			continue
		}
		if err := s.notifier.ScheduleNotification(ctx, r.ID, r.Date, title); err != nil {
			errs = append(errs, err)
			continue
		}
		count++
	}

	s.opts.logger.InfoContext(ctx, "reminder schedules restored", "count", count, "failed", len(errs))
	return count, errors.Join(errs...)
}

// createReminder expects s.mu to be held.
func (s *Service) createReminder(
	ctx context.Context,
	noteID string,
	date time.Time,
) (model.Reminder, error) {
	if date.IsZero() {
		return model.Reminder{}, fmt.Errorf("creating reminder: zero date: %w", ErrInvalidInput)
	}

	notes, err := s.store.LoadNotes(ctx)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("creating reminder for note %s: %w", noteID, err)
	}
	note, ok := findNote(notes, noteID)
	if !ok {
		return model.Reminder{}, fmt.Errorf("creating reminder for note %s: %w", noteID, ErrNotFound)
	}

	r := model.Reminder{
		ID:          s.opts.newID(),
		NoteID:      noteID,
		Date:        date,
		IsCompleted: false,
	}
	if err := s.store.SaveReminder(ctx, r); err != nil {
		return model.Reminder{}, fmt.Errorf("creating reminder for note %s: %w", noteID, err)
	}

	s.schedule(ctx, r, note.Title)
	return r, nil
}

// deleteReminder expects s.mu to be held.
func (s *Service) deleteReminder(ctx context.Context, id string) error {
	if err := s.notifier.CancelNotification(ctx, id); err != nil {
		s.opts.logger.WarnContext(ctx, "canceling notification failed",
			"reminder_id", id, "error", err)
	}
	if err := s.store.DeleteReminder(ctx, id); err != nil {
		return fmt.Errorf("deleting reminder %s: %w", id, err)
	}
	return nil
}

// completeReminder expects s.mu to be held.
func (s *Service) completeReminder(ctx context.Context, id string) (model.Reminder, error) {
	reminders, err := s.store.LoadReminders(ctx)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("completing reminder %s: %w", id, err)
	}
	r, ok := findReminder(reminders, id)
	if !ok {
		return model.Reminder{}, fmt.Errorf("completing reminder %s: %w", id, ErrNotFound)
	}

	if err := s.notifier.CancelNotification(ctx, id); err != nil {
		s.opts.logger.WarnContext(ctx, "canceling notification failed",
			"reminder_id", id, "error", err)
	}

	r.IsCompleted = true
	if err := s.store.SaveReminder(ctx, r); err != nil {
		return model.Reminder{}, fmt.Errorf("completing reminder %s: %w", id, err)
	}
	return r, nil
}

// schedule asks the notifier for an alert. Failures never undo the write.
func (s *Service) schedule(ctx context.Context, r model.Reminder, title string) {
	if !s.notificationsEnabled() {
		s.opts.logger.InfoContext(ctx, "notifications disabled, reminder not scheduled",
			"reminder_id", r.ID)
		return
	}
	if err := s.notifier.ScheduleNotification(ctx, r.ID, r.Date, title); err != nil {
		s.opts.logger.WarnContext(ctx, "scheduling notification failed, reminder kept",
			"reminder_id", r.ID, "error", err)
	}
}

func (s *Service) notificationsEnabled() bool {
	if s.opts.prefs == nil {
		return true
	}
	return s.opts.prefs.Current().NotificationsEnabled
}

func findNote(notes []model.Note, id string) (model.Note, bool) {
	for _, n := range notes {
		if n.ID == id {
			return n, true
		}
	}
	return model.Note{}, false
}

func findReminder(reminders []model.Reminder, id string) (model.Reminder, bool) {
	for _, r := range reminders {
		if r.ID == id {
			return r, true
		}
	}
	return model.Reminder{}, false
}

// reminderFor picks the reminder shown on a note, preferring one not yet completed.
func reminderFor(reminders []model.Reminder, noteID string) *string {
	var picked *model.Reminder
	for i := range reminders {
		r := &reminders[i]
		if r.NoteID != noteID {
			continue
		}
		if picked == nil || (picked.IsCompleted && !r.IsCompleted) {
			picked = r
		}
	}
	if picked == nil {
		return nil
	}
	id := picked.ID
	return &id
}

func attachReminders(notes []model.Note, reminders []model.Reminder) {
	for i := range notes {
		notes[i].ReminderID = reminderFor(reminders, notes[i].ID)
	}
}
