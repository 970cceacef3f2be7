package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDate is returned for dates that are not YYYY-MM-DD.
	ErrMalformedDate = errors.New("malformed date")
	// ErrWindowNotFound means an availability window does not line up with
	// the time grid. Read paths treat it as "no availability".
	ErrWindowNotFound = errors.New("availability window does not match the time grid")
	// ErrUnresolvedEndpoint means a range endpoint is not a grid slot.
	ErrUnresolvedEndpoint = errors.New("range endpoint is not on the time grid")
	// ErrInvalidRange means a range ends before it starts.
	ErrInvalidRange = errors.New("range ends before it starts")
	// ErrScheduleUnavailable means the day's records could not all be read.
	ErrScheduleUnavailable = errors.New("schedule unavailable")
	// ErrConflict means the requested slot is no longer free.
	ErrConflict = errors.New("time slot is no longer available")
	// ErrOutsideHours means the requested slot is outside the day's window.
	ErrOutsideHours = errors.New("time slot is outside business hours")
	// ErrSlotInPast means the requested slot has already started.
	ErrSlotInPast = errors.New("time slot has already passed")
	// ErrNoOffsets means a recurring block named no days.
	ErrNoOffsets = errors.New("at least one day offset is required")
	// ErrInvalidOffset means a recurring block offset is out of range.
	ErrInvalidOffset = errors.New("day offset out of range")
)

// BatchError reports a recurring block batch that could not be stored.
type BatchError struct {
	Succeeded []int
	Failed    []int
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("blocked range batch failed for offsets %v (stored %v): %v", e.Failed, e.Succeeded, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
