package notes

import (
	"sort"
	"strings"
	"time"

	"github.com/nhle/notekeeper/internal/model"
)

// UntitledNote labels reminders whose note has no title or no longer exists.
const UntitledNote = "Untitled Note"

// ReminderView is a reminder joined with the note it belongs to.
type ReminderView struct {
	model.Reminder
	NoteTitle   string `json:"noteTitle"`
	NoteContent string `json:"noteContent"`
}

// FilterNotes keeps notes whose title or content contains query,
// case-insensitively. An empty query keeps everything.
func FilterNotes(notes []model.Note, query string) []model.Note {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		if q == "" ||
			strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	return out
}

// SplitPinned partitions notes into pinned and other notes, keeping order.
func SplitPinned(notes []model.Note) (pinned, others []model.Note) {
	pinned = []model.Note{}
	others = []model.Note{}
	for _, n := range notes {
		if n.IsPinned {
			pinned = append(pinned, n)
		} else {
			others = append(others, n)
		}
	}
	return pinned, others
}

// SortByUpdated returns a copy of notes, most recently updated first.
func SortByUpdated(notes []model.Note) []model.Note {
	out := append([]model.Note(nil), notes...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// ActiveReminders drops completed reminders.
func ActiveReminders(reminders []model.Reminder) []model.Reminder {
	out := make([]model.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if !r.IsCompleted {
			out = append(out, r)
		}
	}
	return out
}

// UpcomingReminders keeps active reminders that fire after now.
func UpcomingReminders(reminders []model.Reminder, now time.Time) []model.Reminder {
	out := make([]model.Reminder, 0, len(reminders))
	for _, r := range ActiveReminders(reminders) {
		if !r.IsDue(now) {
			out = append(out, r)
		}
	}
	return out
}

// SortedReminders joins each reminder with its note and orders them by date,
// earliest first.
func SortedReminders(reminders []model.Reminder, notes []model.Note) []ReminderView {
	byID := make(map[string]model.Note, len(notes))
	for _, n := range notes {
		byID[n.ID] = n
	}

	views := make([]ReminderView, 0, len(reminders))
	for _, r := range reminders {
		v := ReminderView{Reminder: r, NoteTitle: UntitledNote}
		if n, ok := byID[r.NoteID]; ok {
			if n.Title != "" {
				v.NoteTitle = n.Title
			}
			v.NoteContent = n.Content
		}
		views = append(views, v)
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Date.Before(views[j].Date)
	})
	return views
}
