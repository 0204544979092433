package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/nhle/notekeeper/internal/schedule"
)

// ScheduleCall records one Schedule request.
type ScheduleCall struct {
	ID      string
	FireAt  time.Time
	Payload schedule.Payload
}

// RecordingScheduler is a schedule.Scheduler that records every call.
// ScheduleErr and CancelErr make the respective calls fail.
type RecordingScheduler struct {
	mu          sync.Mutex
	schedules   []ScheduleCall
	cancels     []string
	live        map[string]ScheduleCall
	ScheduleErr error
	CancelErr   error
}

// NewRecordingScheduler returns an empty RecordingScheduler.
func NewRecordingScheduler() *RecordingScheduler {
	return &RecordingScheduler{live: make(map[string]ScheduleCall)}
}

func (r *RecordingScheduler) Schedule(
	_ context.Context,
	id string,
	fireAt time.Time,
	payload schedule.Payload,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ScheduleErr != nil {
		return r.ScheduleErr
	}
	call := ScheduleCall{ID: id, FireAt: fireAt, Payload: payload}
	r.schedules = append(r.schedules, call)
	r.live[id] = call
	return nil
}

func (r *RecordingScheduler) Cancel(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CancelErr != nil {
		return r.CancelErr
	}
	r.cancels = append(r.cancels, id)
	delete(r.live, id)
	return nil
}

// Schedules returns a copy of every successful Schedule call, in order.
func (r *RecordingScheduler) Schedules() []ScheduleCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ScheduleCall(nil), r.schedules...)
}

// Cancels returns the IDs passed to successful Cancel calls, in order.
func (r *RecordingScheduler) Cancels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.cancels...)
}

// Live returns the call currently scheduled for id, if any.
func (r *RecordingScheduler) Live(id string) (ScheduleCall, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.live[id]
	return c, ok
}

// LiveCount returns how many IDs currently have a live schedule.
func (r *RecordingScheduler) LiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

var _ schedule.Scheduler = (*RecordingScheduler)(nil)
