// Package prefs holds the user's preferences as an explicit value with a
// defined lifecycle: created once at startup, changed only through setters,
// and handed to whichever component needs it.
package prefs

import (
	"fmt"
	"slices"
	"sync"

	"github.com/nhle/notekeeper/internal/model"
)

// Manager owns the current preferences and persists changes to the config file.
type Manager struct {
	mu        sync.RWMutex
	path      string
	cfg       model.AppConfig
	listeners []func(model.Preferences)
}

// NewManager creates a Manager seeded from cfg. Changes are written back to
// path; an empty path keeps them in memory only.
func NewManager(path string, cfg *model.AppConfig) *Manager {
	return &Manager{path: path, cfg: *cfg}
}

// NewStatic returns an in-memory Manager holding p.
func NewStatic(p model.Preferences) *Manager {
	return &Manager{cfg: model.AppConfig{Preferences: p}}
}

// Current returns a copy of the current preferences.
func (m *Manager) Current() model.Preferences {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Preferences
}

// Set replaces the preferences. Nothing changes if persisting fails.
func (m *Manager) Set(p model.Preferences) error {
	m.mu.Lock()
	next := m.cfg
	next.Preferences = p
	if m.path != "" {
		if err := model.SaveConfig(m.path, &next); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("saving preferences: %w", err)
		}
	}
	m.cfg = next
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(p)
	}
	return nil
}

// ToggleTheme flips between the light and dark theme.
func (m *Manager) ToggleTheme() (model.Preferences, error) {
	p := m.Current()
	p.ThemeDark = !p.ThemeDark
	if err := m.Set(p); err != nil {
		return m.Current(), err
	}
	return p, nil
}

// SetThemeDark selects the dark or light theme.
func (m *Manager) SetThemeDark(dark bool) error {
	p := m.Current()
	p.ThemeDark = dark
	return m.Set(p)
}

// SetNotificationsEnabled turns reminder alerts on or off.
func (m *Manager) SetNotificationsEnabled(enabled bool) error {
	p := m.Current()
	p.NotificationsEnabled = enabled
	return m.Set(p)
}

// OnChange registers fn to be called after every successful change.
func (m *Manager) OnChange(fn func(model.Preferences)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}
