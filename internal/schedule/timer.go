package schedule

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrSchedulerStopped is returned by Schedule after Stop has been called.
var ErrSchedulerStopped = errors.New("scheduler stopped")

// FiredMsg is a tea.Msg sent when a scheduled notification fires.
type FiredMsg struct {
	ReminderID string
	Payload    Payload
	FiredAt    time.Time
}

// firedBuffer is how many fired alerts may queue before new ones are dropped.
const firedBuffer = 16

// pending is one armed timer. Its identity tells a firing timer whether it
// was superseded by a later Schedule for the same ID.
type pending struct {
	timer   *time.Timer
	fireAt  time.Time
	payload Payload
}

// TimerScheduler is an in-process Scheduler backed by time.AfterFunc. Fired
// alerts are delivered on a channel that a Bubble Tea program can subscribe
// to with WaitForFired.
type TimerScheduler struct {
	logger  *slog.Logger
	firedCh chan FiredMsg

	mu      sync.Mutex
	timers  map[string]*pending
	stopped bool
}

// NewTimerScheduler creates a running TimerScheduler.
func NewTimerScheduler(logger *slog.Logger) *TimerScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimerScheduler{
		logger:  logger,
		firedCh: make(chan FiredMsg, firedBuffer),
		timers:  make(map[string]*pending),
	}
}

// Schedule arms a one-shot timer for id, replacing any timer already armed
// for it. A fireAt in the past fires immediately.
func (s *TimerScheduler) Schedule(
	_ context.Context,
	id string,
	fireAt time.Time,
	payload Payload,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrSchedulerStopped
	}

	if prev, ok := s.timers[id]; ok {
		prev.timer.Stop()
		delete(s.timers, id)
	}

	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}

	p := &pending{fireAt: fireAt, payload: payload}
	s.timers[id] = p
	p.timer = time.AfterFunc(delay, func() { s.fire(id, p) })

	return nil
}

// Cancel disarms the timer for id if one is pending.
func (s *TimerScheduler) Cancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.timers[id]; ok {
		p.timer.Stop()
		delete(s.timers, id)
	}
	return nil
}

// Pending returns the IDs that still have an armed timer, sorted.
func (s *TimerScheduler) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.timers))
	for id := range s.timers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Fired exposes the channel fired alerts are delivered on.
func (s *TimerScheduler) Fired() <-chan FiredMsg {
	return s.firedCh
}

// Stop disarms every timer and closes the fired channel.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	for id, p := range s.timers {
		p.timer.Stop()
		delete(s.timers, id)
	}
	s.stopped = true
	close(s.firedCh)
}

// WaitForFired returns a tea.Cmd that waits for the next fired alert.
// After handling a FiredMsg, call it again to keep listening.
func (s *TimerScheduler) WaitForFired() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-s.firedCh
		if !ok {
			return nil
		}
		return msg
	}
}

// fire delivers the alert for id unless p was cancelled or replaced.
func (s *TimerScheduler) fire(id string, p *pending) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || s.timers[id] != p {
		return
	}
	delete(s.timers, id)

	msg := FiredMsg{ReminderID: id, Payload: p.payload, FiredAt: time.Now().UTC()}
	select {
	case s.firedCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the timer goroutine.
		s.logger.Warn("fired notification dropped, channel full", "reminder_id", id)
	}
}

var _ Scheduler = (*TimerScheduler)(nil)
