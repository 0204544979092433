// Package app is the headless Bubble Tea program that keeps reminder alerts
// armed while notekeeper runs in the background.
package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/notekeeper/internal/keys"
	"github.com/nhle/notekeeper/internal/model"
	"github.com/nhle/notekeeper/internal/notes"
	"github.com/nhle/notekeeper/internal/prefs"
	"github.com/nhle/notekeeper/internal/schedule"
)

// FiredSource delivers fired reminder alerts as tea messages.
type FiredSource interface {
	WaitForFired() tea.Cmd
}

// acknowledgedMsg carries the result of acknowledging a fired reminder.
type acknowledgedMsg struct {
	fired    schedule.FiredMsg
	reminder model.Reminder
	err      error
}

// restoredMsg carries the result of re-arming pending reminders.
type restoredMsg struct {
	count int
	err   error
}

// Model is the root Bubble Tea model. It renders nothing; fired alerts and
// preference changes are reported through the logger.
type Model struct {
	service *notes.Service
	fired   FiredSource
	prefs   *prefs.Manager
	keys    *keys.KeyMap
	logger  *slog.Logger

	acknowledged int
}

// New creates the agent model.
func New(service *notes.Service, fired FiredSource, p *prefs.Manager, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		service: service,
		fired:   fired,
		prefs:   p,
		keys:    keys.DefaultKeyMap(),
		logger:  logger,
	}
}

// Acknowledged returns how many fired reminders have been handled.
func (m Model) Acknowledged() int {
	return m.acknowledged
}

// Init announces the keybindings and starts listening for fired alerts.
func (m Model) Init() tea.Cmd {
	hints := make([]string, 0, 4)
	for _, b := range m.keys.ShortHelp() {
		hints = append(hints, b.Help().Key+" "+b.Help().Desc)
	}
	m.logger.Info("notekeeper agent running", "keys", strings.Join(hints, ", "))

	return m.fired.WaitForFired()
}

// Update handles fired alerts, command results and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case schedule.FiredMsg:
		// The alert is raised only once the store confirms the reminder is
		// still live; another process may have removed it since it was armed.
		return m, tea.Batch(m.acknowledge(msg), m.fired.WaitForFired())

	case acknowledgedMsg:
		switch {
		case errors.Is(msg.err, notes.ErrNotFound), errors.Is(msg.err, notes.ErrCompleted):
			m.logger.Debug("dropping alert for stale reminder",
				"reminder_id", msg.fired.ReminderID, "reason", msg.err)
			return m, nil
		case msg.err != nil:
			// Better a duplicate alert than a lost one.
			m.logger.Warn("acknowledging fired reminder failed", "error", msg.err)
			m.alert(msg.fired)
			return m, nil
		}
		m.alert(msg.fired)
		m.acknowledged++
		m.logger.Debug("fired reminder acknowledged",
			"reminder_id", msg.reminder.ID, "completed", msg.reminder.IsCompleted)
		return m, nil

	case restoredMsg:
		if msg.err != nil {
			m.logger.Warn("some reminders could not be scheduled", "error", msg.err)
		}
		m.logger.Info("reminders re-armed", "count", msg.count)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// View renders nothing; the program runs without a renderer.
func (m Model) View() string {
	return ""
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Restore):
		return m, m.restore()

	case key.Matches(msg, m.keys.ToggleNotifications):
		if m.prefs == nil {
			return m, nil
		}
		enabled := !m.prefs.Current().NotificationsEnabled
		if err := m.prefs.SetNotificationsEnabled(enabled); err != nil {
			m.logger.Warn("saving preferences failed", "error", err)
			return m, nil
		}
		m.logger.Info("notifications toggled", "enabled", enabled)
		if enabled {
			return m, m.restore()
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleTheme):
		if m.prefs == nil {
			return m, nil
		}
		p, err := m.prefs.ToggleTheme()
		if err != nil {
			m.logger.Warn("saving preferences failed", "error", err)
			return m, nil
		}
		m.logger.Info("theme toggled", "dark", p.ThemeDark)
		return m, nil
	}

	return m, nil
}

// alert reports a fired reminder, unless notifications are turned off.
func (m Model) alert(fired schedule.FiredMsg) {
	if m.prefs != nil && !m.prefs.Current().NotificationsEnabled {
		m.logger.Debug("reminder fired while notifications disabled",
			"reminder_id", fired.ReminderID)
		return
	}
	m.logger.Info(fired.Payload.Title,
		"body", fired.Payload.Body,
		"reminder_id", fired.ReminderID,
		"fired_at", fired.FiredAt)
}

func (m Model) acknowledge(fired schedule.FiredMsg) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		r, err := svc.AcknowledgeFired(context.Background(), fired.ReminderID)
		return acknowledgedMsg{fired: fired, reminder: r, err: err}
	}
}

func (m Model) restore() tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		count, err := svc.RestoreSchedules(context.Background())
		return restoredMsg{count: count, err: err}
	}
}
