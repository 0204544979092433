package schedule

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTimerScheduler(t *testing.T) *TimerScheduler {
	t.Helper()
	s := NewTimerScheduler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(s.Stop)
	return s
}

func waitFired(t *testing.T, s *TimerScheduler) FiredMsg {
	t.Helper()
	select {
	case msg := <-s.Fired():
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fired notification")
		return FiredMsg{}
	}
}

func TestTimerScheduler_PastFireTimeFiresImmediately(t *testing.T) {
	s := newTestTimerScheduler(t)
	payload := Payload{ReminderID: "r1", Title: DefaultTitle, Body: "note"}

	require.NoError(t, s.Schedule(context.Background(), "r1", time.Now().Add(-time.Minute), payload))

	msg := waitFired(t, s)
	assert.Equal(t, "r1", msg.ReminderID)
	assert.Equal(t, payload, msg.Payload)
	assert.Empty(t, s.Pending())
}

func TestTimerScheduler_CancelPreventsFiring(t *testing.T) {
	s := newTestTimerScheduler(t)
	ctx := context.Background()

	require.NoError(t, s.Schedule(ctx, "r1", time.Now().Add(50*time.Millisecond), Payload{}))
	assert.Equal(t, []string{"r1"}, s.Pending())
	require.NoError(t, s.Cancel(ctx, "r1"))
	assert.Empty(t, s.Pending())

	select {
	case msg := <-s.Fired():
		t.Fatalf("unexpected fired notification %q", msg.ReminderID)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestTimerScheduler_RescheduleReplacesTimer(t *testing.T) {
	s := newTestTimerScheduler(t)
	ctx := context.Background()

	require.NoError(t, s.Schedule(ctx, "r1", time.Now().Add(time.Hour), Payload{Body: "old"}))
	require.NoError(t, s.Schedule(ctx, "r1", time.Now(), Payload{Body: "new"}))

	msg := waitFired(t, s)
	assert.Equal(t, "new", msg.Payload.Body)
	assert.Empty(t, s.Pending())
}

func TestTimerScheduler_CancelUnknownIsNoop(t *testing.T) {
	s := newTestTimerScheduler(t)
	assert.NoError(t, s.Cancel(context.Background(), "missing"))
}

func TestTimerScheduler_WaitForFired(t *testing.T) {
	s := newTestTimerScheduler(t)
	require.NoError(t, s.Schedule(context.Background(), "r2", time.Now(), Payload{ReminderID: "r2"}))

	msg := s.WaitForFired()()
	fired, ok := msg.(FiredMsg)
	require.True(t, ok)
	assert.Equal(t, "r2", fired.ReminderID)
}

func TestTimerScheduler_Stop(t *testing.T) {
	s := NewTimerScheduler(nil)
	ctx := context.Background()
	require.NoError(t, s.Schedule(ctx, "r1", time.Now().Add(time.Hour), Payload{}))

	s.Stop()
	s.Stop()

	assert.Empty(t, s.Pending())
	assert.ErrorIs(t, s.Schedule(ctx, "r2", time.Now(), Payload{}), ErrSchedulerStopped)
	assert.Nil(t, s.WaitForFired()())
}
