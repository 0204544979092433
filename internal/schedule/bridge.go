package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Bridge is the only path from reminder operations to a Scheduler. It keeps
// at most one live notification per reminder ID.
type Bridge struct {
	scheduler Scheduler
	logger    *slog.Logger

	mu   sync.Mutex
	live map[string]time.Time
}

// NewBridge wraps scheduler. A nil logger falls back to slog.Default().
func NewBridge(scheduler Scheduler, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		scheduler: scheduler,
		logger:    logger,
		live:      make(map[string]time.Time),
	}
}

// ScheduleNotification requests a one-shot alert for reminderID carrying the
// note title. An alert this bridge already scheduled for the same ID is
// cancelled first. fireAt is not validated.
func (b *Bridge) ScheduleNotification(
	ctx context.Context,
	reminderID string,
	fireAt time.Time,
	title string,
) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.live[reminderID]; ok {
		if err := b.scheduler.Cancel(ctx, reminderID); err != nil {
			return &SchedulingError{Op: "cancel", ReminderID: reminderID, Err: err}
		}
		delete(b.live, reminderID)
	}

	payload := Payload{
		ReminderID: reminderID,
		Title:      DefaultTitle,
		Body:       title,
	}
	if err := b.scheduler.Schedule(ctx, reminderID, fireAt, payload); err != nil {
		return &SchedulingError{Op: "schedule", ReminderID: reminderID, Err: err}
	}
	b.live[reminderID] = fireAt

	b.logger.DebugContext(ctx, "notification scheduled",
		"reminder_id", reminderID, "fire_at", fireAt)
	return nil
}

// CancelNotification cancels the alert for reminderID. It always forwards to
// the scheduler, since the alert may have been scheduled by an earlier run.
func (b *Bridge) CancelNotification(ctx context.Context, reminderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.scheduler.Cancel(ctx, reminderID); err != nil {
		return &SchedulingError{Op: "cancel", ReminderID: reminderID, Err: err}
	}
	delete(b.live, reminderID)

	b.logger.DebugContext(ctx, "notification canceled", "reminder_id", reminderID)
	return nil
}

// Forget drops local bookkeeping for a reminder whose alert already fired.
func (b *Bridge) Forget(reminderID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.live, reminderID)
}
