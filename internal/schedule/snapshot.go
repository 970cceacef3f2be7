package schedule

import (
	"context"
	"fmt"
	"slices"
	"time"

	"barber-booking-server/internal/models"
	"barber-booking-server/internal/timegrid"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SlotSource says why a slot is occupied.
type SlotSource string

const (
	SourceAppointment SlotSource = "booked"
	SourceBlocked     SlotSource = "blocked"
	SourcePast        SlotSource = "past"
)

// ScheduleReader is the part of the record store a snapshot is built from.
type ScheduleReader interface {
	AppointmentsOn(ctx context.Context, date string) ([]models.Appointment, error)
	ActiveBlocksOn(ctx context.Context, date string) ([]models.BlockedRange, error)
}

// Snapshot is the set of occupied slots on one date. It is rebuilt for every
// query and never cached.
type Snapshot struct {
	Date         string
	Appointments []models.Appointment
	Blocks       []models.BlockedRange
	// Unexpanded holds active ranges that did not resolve against the grid.
	Unexpanded []models.BlockedRange

	Booked  []timegrid.TimeOfDay
	Blocked []timegrid.TimeOfDay
	Past    []timegrid.TimeOfDay

	sources map[timegrid.TimeOfDay]SlotSource
}

func newSnapshot(date string) *Snapshot {
	return &Snapshot{Date: date, sources: map[timegrid.TimeOfDay]SlotSource{}}
}

// mark records t under src. The first source to claim a slot keeps it, so a
// booked slot stays "booked" even when a block also covers it.
func (s *Snapshot) mark(t timegrid.TimeOfDay, src SlotSource) {
	if _, seen := s.sources[t]; !seen {
		s.sources[t] = src
	}
	switch src {
	case SourceAppointment:
		s.Booked = append(s.Booked, t)
	case SourceBlocked:
		s.Blocked = append(s.Blocked, t)
	case SourcePast:
		s.Past = append(s.Past, t)
	}
}

// Occupied reports whether t is taken for any reason.
func (s *Snapshot) Occupied(t timegrid.TimeOfDay) bool {
	_, ok := s.sources[t]
	return ok
}

// SourceOf returns why t is occupied.
func (s *Snapshot) SourceOf(t timegrid.TimeOfDay) (SlotSource, bool) {
	src, ok := s.sources[t]
	return src, ok
}

// IsPast reports whether t has already elapsed on the snapshot's date.
func (s *Snapshot) IsPast(t timegrid.TimeOfDay) bool {
	_, found := slices.BinarySearch(s.Past, t)
	return found
}

// OccupiedSlots returns every occupied slot in order.
func (s *Snapshot) OccupiedSlots() []timegrid.TimeOfDay {
	out := make([]timegrid.TimeOfDay, 0, len(s.sources))
	for t := range s.sources {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

func (s *Snapshot) compact() {
	for _, list := range []*[]timegrid.TimeOfDay{&s.Booked, &s.Blocked, &s.Past} {
		slices.Sort(*list)
		*list = slices.Compact(*list)
	}
}

// Builder assembles snapshots from the record store.
type Builder struct {
	Store    ScheduleReader
	Expander Expander
	Location *time.Location
	Logger   *zap.Logger
	// ReserveDuration makes an appointment hold every slot its service
	// duration covers instead of only its start slot.
	ReserveDuration bool
}

// Build gathers the appointments, active blocks and elapsed slots of date.
// now is the current instant; it is converted to the service timezone to
// decide which slots have passed. If either record fetch fails the whole build
// fails: a snapshot missing its blocks would offer blocked slots for booking.
// date must be YYYY-MM-DD; records are looked up under its canonical form.
func (b *Builder) Build(ctx context.Context, date string, now time.Time) (*Snapshot, error) {
	day, err := ParseDate(date, b.Location)
	if err != nil {
		return nil, err
	}
	date = FormatDate(day)

	var (
		appointments []models.Appointment
		blocks       []models.BlockedRange
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appointments, err = b.Store.AppointmentsOn(gctx, date)
		if err != nil {
			return fmt.Errorf("fetch appointments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		blocks, err = b.Store.ActiveBlocksOn(gctx, date)
		if err != nil {
			return fmt.Errorf("fetch blocked ranges: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrScheduleUnavailable, date, err)
	}

	snap := newSnapshot(date)
	snap.Appointments = appointments

	for _, appt := range appointments {
		if !b.Expander.Grid.Contains(appt.StartTime) {
			b.Logger.Warn("appointment starts off the time grid",
				zap.String("appointment_id", appt.ID),
				zap.String("date", date),
				zap.Stringer("start_time", appt.StartTime))
		}
		if b.ReserveDuration && appt.DurationMinutes > 0 {
			for _, t := range b.Expander.Span(appt.StartTime, appt.DurationMinutes) {
				snap.mark(t, SourceAppointment)
			}
			continue
		}
		snap.mark(appt.StartTime, SourceAppointment)
	}

	for _, block := range blocks {
		if !block.Active() {
			continue
		}
		snap.Blocks = append(snap.Blocks, block)
		slots, err := b.Expander.Expand(Range{Start: block.StartTime, End: block.EndTime})
		if err != nil {
			b.Logger.Error("blocked range did not expand; its slots stay bookable",
				zap.String("block_id", block.ID),
				zap.String("date", date),
				zap.Stringer("start_time", block.StartTime),
				zap.Stringer("end_time", block.EndTime),
				zap.Error(err))
			snap.Unexpanded = append(snap.Unexpanded, block)
			continue
		}
		for _, t := range slots {
			snap.mark(t, SourceBlocked)
		}
	}

	today, clock := WallClock(now, b.Location)
	switch {
	case date == today:
		for _, t := range b.Expander.Grid.SlotsBefore(clock) {
			snap.mark(t, SourcePast)
		}
	case date < today:
		for _, t := range b.Expander.Grid.Slots() {
			snap.mark(t, SourcePast)
		}
	}

	snap.compact()
	return snap, nil
}
