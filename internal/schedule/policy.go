package schedule

import (
	"context"
	"fmt"
	"time"

	"barber-booking-server/internal/models"
	"barber-booking-server/internal/timegrid"
)

// Window is the open/close boundary of a day, inclusive at both ends.
type Window struct {
	Start timegrid.TimeOfDay `json:"start"`
	End   timegrid.TimeOfDay `json:"end"`
}

// WindowSource supplies the current weekday and weekend windows. Windows may
// change between requests, so sources are asked every time.
type WindowSource interface {
	Windows(ctx context.Context) (weekday, weekend Window, err error)
}

// StaticWindows is a WindowSource with fixed hours.
type StaticWindows struct {
	Weekday Window
	Weekend Window
}

func (s StaticWindows) Windows(context.Context) (Window, Window, error) {
	return s.Weekday, s.Weekend, nil
}

// WindowReader is the part of the record store holding configured windows.
type WindowReader interface {
	AvailabilityWindows(ctx context.Context) ([]models.AvailabilityWindow, error)
}

// StoredWindows reads windows from the record store and falls back to
// Defaults for any class that has no row.
type StoredWindows struct {
	Store    WindowReader
	Defaults StaticWindows
}

func (s StoredWindows) Windows(ctx context.Context) (Window, Window, error) {
	weekday, weekend := s.Defaults.Weekday, s.Defaults.Weekend
	rows, err := s.Store.AvailabilityWindows(ctx)
	if err != nil {
		return Window{}, Window{}, fmt.Errorf("load availability windows: %w", err)
	}
	for _, row := range rows {
		switch row.Class {
		case models.Weekday:
			weekday = Window{Start: row.Start, End: row.End}
		case models.Weekend:
			weekend = Window{Start: row.Start, End: row.End}
		}
	}
	return weekday, weekend, nil
}

// Policy decides which grid slots are within business hours on a date.
type Policy struct {
	Grid   timegrid.Grid
	Source WindowSource
}

// WindowFor picks the weekend window for Saturday and Sunday and the weekday
// window otherwise.
func (p *Policy) WindowFor(ctx context.Context, date time.Time) (Window, error) {
	weekday, weekend, err := p.Source.Windows(ctx)
	if err != nil {
		return Window{}, err
	}
	if models.ClassOf(date.Weekday()) == models.Weekend {
		return weekend, nil
	}
	return weekday, nil
}

// SlotsWithin returns the grid slots from w.Start through w.End.
func (p *Policy) SlotsWithin(w Window) ([]timegrid.TimeOfDay, error) {
	i, okStart := p.Grid.Index(w.Start)
	j, okEnd := p.Grid.Index(w.End)
	if !okStart || !okEnd || j < i {
		return nil, fmt.Errorf("%w: %s-%s", ErrWindowNotFound, w.Start, w.End)
	}
	return p.Grid.Between(i, j), nil
}

// ValidateWindow checks that w can be used by SlotsWithin.
func (p *Policy) ValidateWindow(w Window) error {
	_, err := p.SlotsWithin(w)
	return err
}
