package notes

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/notekeeper/internal/model"
)

// PreferenceSource supplies the current user preferences.
type PreferenceSource interface {
	Current() model.Preferences
}

// options holds the internal configuration for the Service.
type options struct {
	logger         *slog.Logger
	now            func() time.Time
	newID          func() string
	prefs          PreferenceSource
	completeOnFire bool
}

// Option defines a functional option for configuring the Service.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator overrides how note and reminder IDs are minted.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}

// WithPreferences supplies user preferences. Without it, notifications are
// always enabled.
func WithPreferences(p PreferenceSource) Option {
	return func(o *options) {
		o.prefs = p
	}
}

// WithCompleteOnFire marks reminders completed when their notification fires.
func WithCompleteOnFire(enabled bool) Option {
	return func(o *options) {
		o.completeOnFire = enabled
	}
}
