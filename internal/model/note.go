package model

import "time"

// Note is a user-authored text record with an optional pin and reminder.
type Note struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Color    string `json:"color,omitempty"`
	IsPinned bool   `json:"isPinned"`

	// ReminderID is derived from the reminders collection on read.
	// It is never written to storage.
	ReminderID *string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteDraft holds the user-supplied fields of a note that is about to be created.
type NoteDraft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Color   string `json:"color,omitempty"`
}

// GetID returns the note ID.
func (n Note) GetID() string { return n.ID }

// HasReminder reports whether a reminder currently references the note.
func (n Note) HasReminder() bool { return n.ReminderID != nil }
