package notes

import (
	"errors"

	"github.com/nhle/notekeeper/internal/schedule"
	"github.com/nhle/notekeeper/internal/store"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrCompleted    = errors.New("reminder already completed")

	// ErrStorage and ErrScheduling are re-exported so callers need only this package.
	ErrStorage    = store.ErrStorage
	ErrScheduling = schedule.ErrScheduling
)

// StorageError is returned when the storage medium fails a write.
type StorageError = store.StorageError

// SchedulingError describes a notification the scheduler refused. The service
// logs these and never fails a data operation because of one.
type SchedulingError = schedule.SchedulingError
