package timegrid

import (
	"errors"
	"fmt"
	"slices"
)

// SlotMinutes is the width of one bookable slot.
const SlotMinutes = 30

var ErrInvalidGrid = errors.New("invalid grid bounds")

// shopLabels are the start times the booking calendar offers. The evening
// ends on 10:00 PM then 11:00 PM; there is no 10:30 PM slot.
var shopLabels = []string{
	"7:00 AM", "7:30 AM", "8:00 AM", "8:30 AM", "9:00 AM", "9:30 AM",
	"10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM", "12:00 PM", "12:30 PM",
	"1:00 PM", "1:30 PM", "2:00 PM", "2:30 PM", "3:00 PM", "3:30 PM",
	"4:00 PM", "4:30 PM", "5:00 PM", "5:30 PM", "6:00 PM", "6:30 PM",
	"7:00 PM", "7:30 PM", "8:00 PM", "8:30 PM", "9:00 PM", "9:30 PM",
	"10:00 PM", "11:00 PM",
}

// Grid is the ordered set of bookable start times in a day. Positions in the
// grid, not clock distance, decide how ranges expand.
type Grid struct {
	slots []TimeOfDay
	step  int
}

// Default is the shop's 32-slot calendar from 7:00 AM through 11:00 PM.
func Default() Grid {
	g, err := FromLabels(shopLabels...)
	if err != nil {
		panic(err)
	}
	return g
}

// NewGrid returns a uniform grid running from first to last inclusive in
// step-minute increments. Both bounds must be aligned to step.
func NewGrid(first, last TimeOfDay, step int) (Grid, error) {
	switch {
	case step <= 0:
		return Grid{}, fmt.Errorf("%w: step %d", ErrInvalidGrid, step)
	case !first.Valid() || !last.Valid() || last < first:
		return Grid{}, fmt.Errorf("%w: %s-%s", ErrInvalidGrid, first, last)
	case first.Minutes()%step != 0 || last.Minutes()%step != 0:
		return Grid{}, fmt.Errorf("%w: %s-%s not aligned to %d minutes", ErrInvalidGrid, first, last, step)
	}
	var slots []TimeOfDay
	for t := first; t <= last; t = t.Add(step) {
		slots = append(slots, t)
	}
	return Grid{slots: slots, step: step}, nil
}

// FromLabels builds a grid from an explicit list of start times, which must
// be strictly increasing. Gaps between labels are allowed.
func FromLabels(labels ...string) (Grid, error) {
	if len(labels) == 0 {
		return Grid{}, fmt.Errorf("%w: no labels", ErrInvalidGrid)
	}
	slots := make([]TimeOfDay, 0, len(labels))
	for _, label := range labels {
		t, err := Parse(label)
		if err != nil {
			return Grid{}, fmt.Errorf("%w: %w", ErrInvalidGrid, err)
		}
		if n := len(slots); n > 0 && t <= slots[n-1] {
			return Grid{}, fmt.Errorf("%w: %s does not follow %s", ErrInvalidGrid, t, slots[n-1])
		}
		slots = append(slots, t)
	}
	return Grid{slots: slots, step: SlotMinutes}, nil
}

func (g Grid) First() TimeOfDay { return g.slots[0] }
func (g Grid) Last() TimeOfDay  { return g.slots[len(g.slots)-1] }

// Step is the nominal length of one slot in minutes.
func (g Grid) Step() int { return g.step }

// Len is the number of slots in the grid.
func (g Grid) Len() int { return len(g.slots) }

// At returns the slot at index i.
func (g Grid) At(i int) TimeOfDay { return g.slots[i] }

// Slots returns every slot in order.
func (g Grid) Slots() []TimeOfDay {
	return slices.Clone(g.slots)
}

// Index returns the position of t, or false when t is not a grid label.
func (g Grid) Index(t TimeOfDay) (int, bool) {
	return slices.BinarySearch(g.slots, t)
}

// Contains reports whether t is a grid label.
func (g Grid) Contains(t TimeOfDay) bool {
	_, ok := g.Index(t)
	return ok
}

// Between returns the slots from index i through j inclusive, clamped to the
// grid. It returns nil when j < i.
func (g Grid) Between(i, j int) []TimeOfDay {
	if i < 0 {
		i = 0
	}
	if n := g.Len(); j >= n {
		j = n - 1
	}
	if j < i {
		return nil
	}
	return slices.Clone(g.slots[i : j+1])
}

// SlotsBefore returns the slots that have fully elapsed by t, which is every
// slot strictly before the one t falls in. At 2:15 PM that is everything up to
// 1:30 PM; the 2:00 PM slot is still current. A slot runs until the next
// label, and the last one for Step minutes.
func (g Grid) SlotsBefore(t TimeOfDay) []TimeOfDay {
	n := len(g.slots)
	if n == 0 || t < g.slots[0] {
		return nil
	}
	if t >= g.Last().Add(g.step) {
		return g.Slots()
	}
	// current is the last slot starting at or before t.
	current, found := slices.BinarySearch(g.slots, t)
	if !found {
		current--
	}
	return g.Between(0, current-1)
}

// Compare orders two times by their grid position.
func Compare(a, b TimeOfDay) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
