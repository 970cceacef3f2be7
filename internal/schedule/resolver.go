package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barber-booking-server/internal/timegrid"

	"go.uber.org/zap"
)

// Availability is the resolved state of one date.
type Availability struct {
	Date     string
	Window   Window
	Slots    []timegrid.TimeOfDay
	Snapshot *Snapshot
	// Misconfigured is set when the day's window does not match the grid.
	Misconfigured bool

	inWindow map[timegrid.TimeOfDay]bool
}

// InWindow reports whether t is within the day's business hours.
func (a *Availability) InWindow(t timegrid.TimeOfDay) bool {
	return a.inWindow[t]
}

// Free reports whether t can be booked.
func (a *Availability) Free(t timegrid.TimeOfDay) bool {
	return a.inWindow[t] && !a.Snapshot.Occupied(t)
}

// Resolver intersects business hours with a day's snapshot.
type Resolver struct {
	Policy   *Policy
	Builder  *Builder
	Location *time.Location
	Logger   *zap.Logger
}

// Resolve computes the availability of date as seen at now.
func (r *Resolver) Resolve(ctx context.Context, date string, now time.Time) (*Availability, error) {
	day, err := ParseDate(date, r.Location)
	if err != nil {
		return nil, err
	}
	canonical := FormatDate(day)

	window, err := r.Policy.WindowFor(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScheduleUnavailable, err)
	}

	avail := &Availability{Date: canonical, Window: window, inWindow: map[timegrid.TimeOfDay]bool{}}

	policySlots, err := r.Policy.SlotsWithin(window)
	if errors.Is(err, ErrWindowNotFound) {
		r.Logger.Error("availability window is misconfigured; no slots offered",
			zap.String("date", canonical),
			zap.Stringer("window_start", window.Start),
			zap.Stringer("window_end", window.End),
			zap.Error(err))
		avail.Misconfigured = true
	}
	for _, t := range policySlots {
		avail.inWindow[t] = true
	}

	snap, err := r.Builder.Build(ctx, canonical, now)
	if err != nil {
		return nil, err
	}
	avail.Snapshot = snap

	avail.Slots = make([]timegrid.TimeOfDay, 0, len(policySlots))
	for _, t := range policySlots {
		if !snap.Occupied(t) {
			avail.Slots = append(avail.Slots, t)
		}
	}
	return avail, nil
}

// AvailableSlots returns the bookable slots of date in grid order. A date
// whose window is misconfigured has no slots.
func (r *Resolver) AvailableSlots(ctx context.Context, date string, now time.Time) ([]timegrid.TimeOfDay, error) {
	avail, err := r.Resolve(ctx, date, now)
	if err != nil {
		return nil, err
	}
	return avail.Slots, nil
}
