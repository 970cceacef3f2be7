package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"barber-booking-server/internal/models"
	"barber-booking-server/internal/repository"
	"barber-booking-server/internal/timegrid"

	"go.uber.org/zap"
)

// AppointmentWriter inserts appointments. Implementations must refuse a
// second appointment on the same (date, start_time) with
// repository.ErrDuplicate.
type AppointmentWriter interface {
	CreateAppointment(ctx context.Context, appt *models.Appointment) error
}

// BookOptions tunes a booking attempt.
type BookOptions struct {
	// Override skips the business-hours, past-time and block checks for
	// bookings made by an administrator. The one-appointment-per-slot rule
	// still applies.
	Override bool
}

// Guard admits new appointments only onto free slots.
type Guard struct {
	Resolver *Resolver
	Store    AppointmentWriter
	Expander Expander
	Logger   *zap.Logger
	// ReserveDuration checks every slot the service duration covers.
	// Overlapping bookings that start on different slots are not caught by
	// the store's uniqueness rule, so in this mode bookings for the same date
	// are serialised within the process.
	ReserveDuration bool

	dates dateLocks
}

// dateLocks hands out one mutex per calendar date.
type dateLocks struct {
	mu    sync.Mutex
	locks map[string]*dateLock
}

type dateLock struct {
	sync.Mutex
	refs int
}

// lock blocks until date is free and returns the matching unlock.
func (l *dateLocks) lock(date string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*dateLock)
	}
	dl, ok := l.locks[date]
	if !ok {
		dl = &dateLock{}
		l.locks[date] = dl
	}
	dl.refs++
	l.mu.Unlock()

	dl.Lock()
	return func() {
		dl.Unlock()
		l.mu.Lock()
		if dl.refs--; dl.refs == 0 {
			delete(l.locks, date)
		}
		l.mu.Unlock()
	}
}

// AttemptBook validates appt against the day's availability and inserts it.
// The pre-check gives clients a precise reason; the store's uniqueness rule
// is what settles two requests racing for the same slot, and the loser gets
// ErrConflict.
func (g *Guard) AttemptBook(ctx context.Context, appt *models.Appointment, now time.Time, opts BookOptions) (*models.Appointment, error) {
	day, err := ParseDate(appt.Date, g.Resolver.Location)
	if err != nil {
		return nil, err
	}
	appt.Date = FormatDate(day)

	if !g.Expander.Grid.Contains(appt.StartTime) {
		return nil, fmt.Errorf("%w: %s is not a bookable slot", ErrOutsideHours, appt.StartTime)
	}

	if g.ReserveDuration {
		unlock := g.dates.lock(appt.Date)
		defer unlock()
	}

	if !opts.Override {
		if err := g.check(ctx, appt, now); err != nil {
			return nil, err
		}
	}

	if appt.TotalPrice == 0 {
		appt.TotalPrice = appt.ComputeTotal()
	}

	if err := g.Store.CreateAppointment(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			g.Logger.Info("booking lost race for slot",
				zap.String("date", appt.Date),
				zap.Stringer("start_time", appt.StartTime))
			return nil, fmt.Errorf("%w: %s at %s", ErrConflict, appt.Date, appt.StartTime)
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return appt, nil
}

func (g *Guard) check(ctx context.Context, appt *models.Appointment, now time.Time) error {
	avail, err := g.Resolver.Resolve(ctx, appt.Date, now)
	if err != nil {
		return err
	}

	if avail.Snapshot.IsPast(appt.StartTime) {
		return fmt.Errorf("%w: %s at %s", ErrSlotInPast, appt.Date, appt.StartTime)
	}
	if !avail.InWindow(appt.StartTime) {
		return fmt.Errorf("%w: %s at %s", ErrOutsideHours, appt.Date, appt.StartTime)
	}

	span := []timegrid.TimeOfDay{appt.StartTime}
	if g.ReserveDuration && appt.DurationMinutes > 0 {
		span = g.Expander.Span(appt.StartTime, appt.DurationMinutes)
		if len(span) < g.Expander.SlotCount(appt.DurationMinutes) {
			return fmt.Errorf("%w: %s at %s runs past closing", ErrOutsideHours, appt.Date, appt.StartTime)
		}
	}
	for _, t := range span {
		if !avail.Free(t) {
			return fmt.Errorf("%w: %s at %s", ErrConflict, appt.Date, t)
		}
	}
	return nil
}
