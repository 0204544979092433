package notes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notekeeper/internal/model"
)

func TestFilterNotes(t *testing.T) {
	all := []model.Note{
		{ID: "1", Title: "Groceries", Content: "milk, eggs"},
		{ID: "2", Title: "Work", Content: "Quarterly REPORT"},
		{ID: "3", Title: "", Content: ""},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query keeps all", "", []string{"1", "2", "3"}},
		{"whitespace query keeps all", "   ", []string{"1", "2", "3"}},
		{"title match", "groc", []string{"1"}},
		{"content match ignores case", "report", []string{"2"}},
		{"no match", "zebra", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterNotes(all, tt.query)
			ids := make([]string, 0, len(got))
			for _, n := range got {
				ids = append(ids, n.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSplitPinned(t *testing.T) {
	pinned, others := SplitPinned([]model.Note{
		{ID: "a", IsPinned: true},
		{ID: "b"},
		{ID: "c", IsPinned: true},
	})
	require.Len(t, pinned, 2)
	assert.Equal(t, "a", pinned[0].ID)
	assert.Equal(t, "c", pinned[1].ID)
	require.Len(t, others, 1)
	assert.Equal(t, "b", others[0].ID)

	pinned, others = SplitPinned(nil)
	assert.NotNil(t, pinned)
	assert.NotNil(t, others)
}

func TestSortByUpdated(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []model.Note{
		{ID: "old", UpdatedAt: base},
		{ID: "new", UpdatedAt: base.Add(2 * time.Hour)},
		{ID: "mid", UpdatedAt: base.Add(time.Hour)},
	}

	got := SortByUpdated(in)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
	assert.Equal(t, "old", got[2].ID)
	assert.Equal(t, "old", in[0].ID, "input must not be reordered")
}

func TestUpcomingReminders(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rs := []model.Reminder{
		{ID: "past", Date: now.Add(-time.Minute)},
		{ID: "now", Date: now},
		{ID: "future", Date: now.Add(time.Minute)},
		{ID: "done", Date: now.Add(time.Hour), IsCompleted: true},
	}

	assert.Len(t, ActiveReminders(rs), 3)

	got := UpcomingReminders(rs, now)
	require.Len(t, got, 1)
	assert.Equal(t, "future", got[0].ID)
}

func TestSortedReminders(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	notes := []model.Note{
		{ID: "n1", Title: "Dentist", Content: "bring card"},
		{ID: "n2", Title: ""},
	}
	rs := []model.Reminder{
		{ID: "r3", NoteID: "gone", Date: now.Add(3 * time.Hour)},
		{ID: "r1", NoteID: "n1", Date: now.Add(time.Hour)},
		{ID: "r2", NoteID: "n2", Date: now.Add(2 * time.Hour)},
	}

	got := SortedReminders(rs, notes)
	require.Len(t, got, 3)

	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "Dentist", got[0].NoteTitle)
	assert.Equal(t, "bring card", got[0].NoteContent)

	assert.Equal(t, "r2", got[1].ID)
	assert.Equal(t, UntitledNote, got[1].NoteTitle)

	assert.Equal(t, "r3", got[2].ID)
	assert.Equal(t, UntitledNote, got[2].NoteTitle)
	assert.Empty(t, got[2].NoteContent)
}
