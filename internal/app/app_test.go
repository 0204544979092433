package app

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notekeeper/internal/model"
	"github.com/nhle/notekeeper/internal/notes"
	"github.com/nhle/notekeeper/internal/prefs"
	"github.com/nhle/notekeeper/internal/schedule"
	"github.com/nhle/notekeeper/tests/testutil"
)

type waitMsg struct{}

type fakeSource struct{ waits int }

func (f *fakeSource) WaitForFired() tea.Cmd {
	f.waits++
	return func() tea.Msg { return waitMsg{} }
}

// collect runs cmd and flattens any batch into the resulting messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func newTestModel(t *testing.T, opts ...notes.Option) (Model, *notes.Service, *fakeSource, *prefs.Manager) {
	t.Helper()
	m, svc, src, p, _ := newLoggedModel(t, opts...)
	return m, svc, src, p
}

// newLoggedModel is newTestModel with the agent's log output captured.
func newLoggedModel(t *testing.T, opts ...notes.Option) (Model, *notes.Service, *fakeSource, *prefs.Manager, *bytes.Buffer) {
	t.Helper()
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	bridge := schedule.NewBridge(testutil.NewRecordingScheduler(), logger)
	svc := notes.New(testutil.NewTestStore(t), bridge, append([]notes.Option{notes.WithLogger(logger)}, opts...)...)
	src := &fakeSource{}
	p := prefs.NewStatic(model.Preferences{NotificationsEnabled: true})
	return New(svc, src, p, logger), svc, src, p, logs
}

// deliver feeds a fired alert through Update and then feeds back the
// acknowledgement it produced.
func deliver(t *testing.T, m Model, fired schedule.FiredMsg) Model {
	t.Helper()
	updated, cmd := m.Update(fired)
	for _, msg := range collect(cmd) {
		if ack, ok := msg.(acknowledgedMsg); ok {
			updated, _ = updated.Update(ack)
		}
	}
	return updated.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInit_WaitsForFired(t *testing.T) {
	m, _, src, _ := newTestModel(t)

	msgs := collect(m.Init())
	assert.Equal(t, []tea.Msg{waitMsg{}}, msgs)
	assert.Equal(t, 1, src.waits)
}

func TestFiredMsg_AcknowledgesAndKeepsListening(t *testing.T) {
	m, svc, src, _ := newTestModel(t, notes.WithCompleteOnFire(true))
	ctx := context.Background()

	n, err := svc.CreateNote(ctx, model.NoteDraft{Title: "Call mom"})
	require.NoError(t, err)
	r, err := svc.CreateReminder(ctx, n.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)

	updated, cmd := m.Update(schedule.FiredMsg{
		ReminderID: r.ID,
		Payload:    schedule.Payload{ReminderID: r.ID, Title: schedule.DefaultTitle, Body: n.Title},
		FiredAt:    time.Now(),
	})
	assert.Equal(t, 1, src.waits)

	var ack *acknowledgedMsg
	sawWait := false
	for _, msg := range collect(cmd) {
		switch msg := msg.(type) {
		case acknowledgedMsg:
			ack = &msg
		case waitMsg:
			sawWait = true
		}
	}
	require.NotNil(t, ack)
	require.NoError(t, ack.err)
	assert.True(t, ack.reminder.IsCompleted)
	assert.True(t, sawWait)

	final, _ := updated.Update(*ack)
	assert.Equal(t, 1, final.(Model).Acknowledged())
	assert.True(t, svc.ListReminders(ctx)[0].IsCompleted)
}

func TestAcknowledgeFailureIsNotCounted(t *testing.T) {
	m, _, _, _ := newTestModel(t, notes.WithCompleteOnFire(true))

	msgs := collect(m.acknowledge(schedule.FiredMsg{ReminderID: "ghost"}))
	require.Len(t, msgs, 1)
	ack := msgs[0].(acknowledgedMsg)
	assert.ErrorIs(t, ack.err, notes.ErrNotFound)

	updated, cmd := m.Update(ack)
	assert.Nil(t, cmd)
	assert.Zero(t, updated.(Model).Acknowledged())
}

func TestQuitKeys(t *testing.T) {
	m, _, _, _ := newTestModel(t)

	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(msg)
		require.NotNil(t, cmd, msg.String())
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestToggleNotifications(t *testing.T) {
	m, _, _, p := newTestModel(t)

	_, cmd := m.Update(runes("n"))
	assert.Nil(t, cmd)
	assert.False(t, p.Current().NotificationsEnabled)

	_, cmd = m.Update(runes("n"))
	assert.True(t, p.Current().NotificationsEnabled)
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, restoredMsg{count: 0}, msgs[0])
}

func TestToggleTheme(t *testing.T) {
	m, _, _, p := newTestModel(t)

	_, cmd := m.Update(runes("t"))
	assert.Nil(t, cmd)
	assert.True(t, p.Current().ThemeDark)
}

func TestRestoreKey(t *testing.T) {
	m, svc, _, _ := newTestModel(t)
	ctx := context.Background()

	n, err := svc.CreateNote(ctx, model.NoteDraft{Title: "x"})
	require.NoError(t, err)
	_, err = svc.CreateReminder(ctx, n.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, cmd := m.Update(runes("r"))
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, restoredMsg{count: 1}, msgs[0])
}

func TestFiredMsg_AlertsOnlyForLiveReminders(t *testing.T) {
	m, svc, _, _, logs := newLoggedModel(t)
	ctx := context.Background()

	n, err := svc.CreateNote(ctx, model.NoteDraft{Title: "Water plants"})
	require.NoError(t, err)
	live, err := svc.CreateReminder(ctx, n.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	gone, err := svc.CreateReminder(ctx, n.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteReminder(ctx, gone.ID))

	fired := func(id string) schedule.FiredMsg {
		return schedule.FiredMsg{
			ReminderID: id,
			Payload:    schedule.Payload{ReminderID: id, Title: schedule.DefaultTitle, Body: n.Title},
			FiredAt:    time.Now(),
		}
	}

	m = deliver(t, m, fired(gone.ID))
	assert.Zero(t, m.Acknowledged())
	assert.NotContains(t, logs.String(), "body=")
	assert.Contains(t, logs.String(), "dropping alert for stale reminder")

	m = deliver(t, m, fired(live.ID))
	assert.Equal(t, 1, m.Acknowledged())
	assert.Contains(t, logs.String(), "msg=Reminder body=\"Water plants\"")
}

func TestFiredMsg_DropsAlertForDeletedNote(t *testing.T) {
	m, svc, _, _, logs := newLoggedModel(t)
	ctx := context.Background()

	n, err := svc.CreateNote(ctx, model.NoteDraft{Title: "N"})
	require.NoError(t, err)
	r, err := svc.CreateReminder(ctx, n.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteNote(ctx, n.ID))

	m = deliver(t, m, schedule.FiredMsg{
		ReminderID: r.ID,
		Payload:    schedule.Payload{ReminderID: r.ID, Title: schedule.DefaultTitle, Body: "N"},
	})
	assert.Zero(t, m.Acknowledged())
	assert.NotContains(t, logs.String(), "body=N")
}
