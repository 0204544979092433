package model

import "time"

// Reminder is a wall-clock alert tied to exactly one note.
type Reminder struct {
	ID          string    `json:"id"`
	NoteID      string    `json:"noteId"`
	Date        time.Time `json:"date"`
	IsCompleted bool      `json:"isCompleted"`
}

// GetID returns the reminder ID.
func (r Reminder) GetID() string { return r.ID }

// IsDue reports whether the reminder's fire time is at or before now.
func (r Reminder) IsDue(now time.Time) bool {
	return !r.Date.After(now)
}
