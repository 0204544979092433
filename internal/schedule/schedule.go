// Package schedule adapts reminder lifecycle changes to a wall-clock
// notification scheduler.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTitle is the headline shown on every reminder alert.
const DefaultTitle = "Reminder"

// ErrScheduling matches every *SchedulingError via errors.Is.
var ErrScheduling = errors.New("scheduling failure")

// Payload is the content delivered when a notification fires.
type Payload struct {
	ReminderID string `json:"reminderId"`
	Title      string `json:"title"`
	Body       string `json:"body"`
}

// Scheduler is a one-shot notification service keyed by ID.
type Scheduler interface {
	// Schedule arranges for payload to be delivered at fireAt. A fireAt in
	// the past fires as soon as possible.
	Schedule(ctx context.Context, id string, fireAt time.Time, payload Payload) error

	// Cancel drops a pending notification. Unknown or already fired IDs
	// are not an error.
	Cancel(ctx context.Context, id string) error
}

// SchedulingError reports a schedule or cancel request the scheduler failed.
type SchedulingError struct {
	Op         string
	ReminderID string
	Err        error
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("%s notification %s: %v", e.Op, e.ReminderID, e.Err)
}

func (e *SchedulingError) Unwrap() []error {
	return []error{ErrScheduling, e.Err}
}
