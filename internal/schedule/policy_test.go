package schedule

import (
	"context"
	"errors"
	"testing"

	"barber-booking-server/internal/models"
	"barber-booking-server/internal/timegrid"
)

func TestWindowForSwitchesOnWeekend(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	loc := env.engine.Location

	cases := map[string]Window{
		thursday:     testDefaults().Weekday,
		saturday:     testDefaults().Weekend,
		"2025-07-13": testDefaults().Weekend, // Sunday
		"2025-07-14": testDefaults().Weekday, // Monday
	}
	for date, want := range cases {
		day, err := ParseDate(date, loc)
		if err != nil {
			t.Fatalf("ParseDate(%s): %v", date, err)
		}
		got, err := env.engine.Policy.WindowFor(ctx, day)
		if err != nil {
			t.Fatalf("WindowFor(%s): %v", date, err)
		}
		if got != want {
			t.Fatalf("WindowFor(%s) = %+v, want %+v", date, got, want)
		}
	}
}

func TestSlotsWithinIsInclusive(t *testing.T) {
	p := &Policy{Grid: timegrid.Default()}
	slots, err := p.SlotsWithin(window("7:00 AM", "3:00 PM"))
	if err != nil {
		t.Fatalf("SlotsWithin: %v", err)
	}
	if len(slots) != 17 {
		t.Fatalf("expected 17 slots, got %d: %v", len(slots), labels(slots))
	}
	if slots[0].String() != "7:00 AM" || slots[16].String() != "3:00 PM" {
		t.Fatalf("unexpected bounds %v", labels(slots))
	}
}

func TestSlotsWithinRejectsMisconfiguredWindows(t *testing.T) {
	p := &Policy{Grid: timegrid.Default()}
	for _, w := range []Window{
		window("5:15 PM", "10:00 PM"),
		window("5:00 AM", "10:00 AM"),
		window("10:00 PM", "5:00 PM"),
	} {
		if _, err := p.SlotsWithin(w); !errors.Is(err, ErrWindowNotFound) {
			t.Fatalf("SlotsWithin(%+v) error = %v, want ErrWindowNotFound", w, err)
		}
		if err := p.ValidateWindow(w); !errors.Is(err, ErrWindowNotFound) {
			t.Fatalf("ValidateWindow(%+v) error = %v", w, err)
		}
	}
}

func TestStoredWindowsOverrideDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.store.SaveAvailabilityWindow(ctx, &models.AvailabilityWindow{
		Class: models.Weekday,
		Start: timegrid.MustParse("9:00 AM"),
		End:   timegrid.MustParse("12:00 PM"),
	})
	if err != nil {
		t.Fatalf("save window: %v", err)
	}

	weekday, weekend, err := env.engine.Policy.Source.Windows(ctx)
	if err != nil {
		t.Fatalf("Windows: %v", err)
	}
	if weekday != window("9:00 AM", "12:00 PM") {
		t.Fatalf("stored weekday window not used: %+v", weekday)
	}
	if weekend != testDefaults().Weekend {
		t.Fatalf("weekend should fall back to default: %+v", weekend)
	}

	env.store.failWindows = true
	if _, _, err := env.engine.Policy.Source.Windows(ctx); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
}
