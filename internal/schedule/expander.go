package schedule

import (
	"fmt"

	"barber-booking-server/internal/timegrid"
)

// Range is an inclusive [Start, End] span of time.
type Range struct {
	Start timegrid.TimeOfDay
	End   timegrid.TimeOfDay
}

// Expander turns ranges into the grid slots they cover.
type Expander struct {
	Grid timegrid.Grid
}

// Expand returns every grid slot from r.Start through r.End. An endpoint off
// the grid yields ErrUnresolvedEndpoint and a reversed range ErrInvalidRange;
// both return no slots, and callers must report them because a range that
// does not expand leaves its slots bookable.
func (e Expander) Expand(r Range) ([]timegrid.TimeOfDay, error) {
	i, okStart := e.Grid.Index(r.Start)
	j, okEnd := e.Grid.Index(r.End)
	switch {
	case !okStart && !okEnd:
		return nil, fmt.Errorf("%w: %s and %s", ErrUnresolvedEndpoint, r.Start, r.End)
	case !okStart:
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedEndpoint, r.Start)
	case !okEnd:
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedEndpoint, r.End)
	case j < i:
		return nil, fmt.Errorf("%w: %s-%s", ErrInvalidRange, r.Start, r.End)
	}
	return e.Grid.Between(i, j), nil
}

// Span returns the slots a booking of the given length occupies starting at
// start. Bookings shorter than one slot, or an off-grid start, cover just the
// start.
func (e Expander) Span(start timegrid.TimeOfDay, minutes int) []timegrid.TimeOfDay {
	i, ok := e.Grid.Index(start)
	if !ok {
		return []timegrid.TimeOfDay{start}
	}
	return e.Grid.Between(i, i+e.SlotCount(minutes)-1)
}

// SlotCount is the number of slots a booking of the given length needs.
func (e Expander) SlotCount(minutes int) int {
	step := e.Grid.Step()
	if step <= 0 || minutes <= step {
		return 1
	}
	return (minutes + step - 1) / step
}

// ParseRange reads a range from free-form labels. A label that is not a
// clock time is an unresolved endpoint like any other off-grid value.
func ParseRange(start, end string) (Range, error) {
	s, err := timegrid.Parse(start)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %w", ErrUnresolvedEndpoint, err)
	}
	e, err := timegrid.Parse(end)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %w", ErrUnresolvedEndpoint, err)
	}
	return Range{Start: s, End: e}, nil
}
