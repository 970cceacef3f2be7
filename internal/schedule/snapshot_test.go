package schedule

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"barber-booking-server/internal/models"
	"barber-booking-server/internal/timegrid"
)

func TestBuildMergesAppointmentsAndActiveBlocks(t *testing.T) {
	env := newTestEnv(t)
	env.book(t, thursday, "6:00 PM")
	env.block(t, thursday, "7:00 PM", "8:00 PM", models.BlockActive)
	env.block(t, thursday, "9:00 PM", "9:30 PM", models.BlockCancelled)
	env.book(t, "2025-07-11", "5:00 PM")

	snap, err := env.engine.Builder.Build(context.Background(), thursday, env.now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := labels(snap.Booked); !reflect.DeepEqual(got, []string{"6:00 PM"}) {
		t.Fatalf("Booked = %v", got)
	}
	if got := labels(snap.Blocked); !reflect.DeepEqual(got, []string{"7:00 PM", "7:30 PM", "8:00 PM"}) {
		t.Fatalf("Blocked = %v", got)
	}
	if len(snap.Past) != 0 {
		t.Fatalf("future date should have no past slots, got %v", labels(snap.Past))
	}
	if snap.Occupied(timegrid.MustParse("9:00 PM")) {
		t.Fatal("cancelled block must not occupy slots")
	}
	if src, ok := snap.SourceOf(timegrid.MustParse("7:30 PM")); !ok || src != SourceBlocked {
		t.Fatalf("SourceOf(7:30 PM) = %q, %v", src, ok)
	}
	if got := labels(snap.OccupiedSlots()); !reflect.DeepEqual(got, []string{"6:00 PM", "7:00 PM", "7:30 PM", "8:00 PM"}) {
		t.Fatalf("OccupiedSlots = %v", got)
	}
}

func TestBuildRejectsMalformedDates(t *testing.T) {
	env := newTestEnv(t)
	env.book(t, thursday, "6:00 PM")

	for _, date := range []string{"", "not-a-date", "2025-7-10", "2025-07-32"} {
		if _, err := env.engine.Builder.Build(context.Background(), date, env.now); !errors.Is(err, ErrMalformedDate) {
			t.Fatalf("Build(%q): expected ErrMalformedDate, got %v", date, err)
		}
	}

	snap, err := env.engine.Builder.Build(context.Background(), " "+thursday+" ", env.now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if snap.Date != thursday || len(snap.Booked) != 1 {
		t.Fatalf("snapshot for padded date: %s booked %v", snap.Date, labels(snap.Booked))
	}
}

func TestBuildAutoBlocksElapsedSlotsToday(t *testing.T) {
	env := newTestEnv(t)
	env.now = time.Date(2025, 7, 10, 14, 15, 0, 0, env.engine.Location)

	snap, err := env.engine.Builder.Build(context.Background(), thursday, env.now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, slot := range env.engine.Grid.Slots() {
		past := snap.IsPast(slot)
		if slot < timegrid.MustParse("2:00 PM") && !past {
			t.Fatalf("%s should be auto-blocked at 2:15 PM", slot)
		}
		if slot >= timegrid.MustParse("2:00 PM") && past {
			t.Fatalf("%s should not be auto-blocked at 2:15 PM", slot)
		}
	}
}

func TestBuildUsesServiceTimezoneForToday(t *testing.T) {
	env := newTestEnv(t)
	// 21:15 UTC is 2:15 PM in Los Angeles on the same day.
	env.now = time.Date(2025, 7, 10, 21, 15, 0, 0, time.UTC)

	snap, err := env.engine.Builder.Build(context.Background(), thursday, env.now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if last := snap.Past[len(snap.Past)-1]; last.String() != "1:30 PM" {
		t.Fatalf("last elapsed slot = %s, want 1:30 PM", last)
	}
}

func TestBuildBlocksWholeDayInThePast(t *testing.T) {
	env := newTestEnv(t)
	snap, err := env.engine.Builder.Build(context.Background(), "2025-06-30", env.now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(snap.Past) != env.engine.Grid.Len() {
		t.Fatalf("expected every slot past, got %d", len(snap.Past))
	}
}

func TestBuildFailsClosedWhenAFetchFails(t *testing.T) {
	for name, setup := range map[string]func(*failingStore){
		"appointments": func(s *failingStore) { s.failAppointments = true },
		"blocks":       func(s *failingStore) { s.failBlocks = true },
	} {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			env.book(t, thursday, "6:00 PM")
			setup(env.store)

			snap, err := env.engine.Builder.Build(context.Background(), thursday, env.now)
			if !errors.Is(err, ErrScheduleUnavailable) {
				t.Fatalf("expected ErrScheduleUnavailable, got %v", err)
			}
			if !errors.Is(err, errStoreDown) {
				t.Fatalf("expected the store error to be wrapped, got %v", err)
			}
			if snap != nil {
				t.Fatal("no partial snapshot may be returned")
			}
		})
	}
}

func TestBuildSurfacesRangesThatDoNotExpand(t *testing.T) {
	env := newTestEnv(t)
	env.block(t, thursday, "6:15 PM", "7:00 PM", models.BlockActive)
	env.block(t, thursday, "9:00 PM", "8:00 PM", models.BlockActive)

	snap, err := env.engine.Builder.Build(context.Background(), thursday, env.now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(snap.Unexpanded) != 2 {
		t.Fatalf("expected 2 unexpanded ranges, got %d", len(snap.Unexpanded))
	}
	if len(snap.Blocked) != 0 {
		t.Fatalf("unexpanded ranges must not invent blocked slots, got %v", labels(snap.Blocked))
	}
}

func TestBuildReservesServiceDurationWhenEnabled(t *testing.T) {
	env := newTestEnv(t)
	appt := &models.Appointment{
		Date:            thursday,
		StartTime:       timegrid.MustParse("6:00 PM"),
		DurationMinutes: 90,
		ClientName:      "Client",
		ClientPhone:     "555-0100",
		ServiceName:     "Cut and beard",
	}
	if err := env.store.MemoryStore.CreateAppointment(context.Background(), appt); err != nil {
		t.Fatalf("seed: %v", err)
	}

	snap, err := env.engine.Builder.Build(context.Background(), thursday, env.now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := labels(snap.Booked); !reflect.DeepEqual(got, []string{"6:00 PM"}) {
		t.Fatalf("default build reserves only the start slot, got %v", got)
	}

	env.engine.Builder.ReserveDuration = true
	snap, err = env.engine.Builder.Build(context.Background(), thursday, env.now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := labels(snap.Booked); !reflect.DeepEqual(got, []string{"6:00 PM", "6:30 PM", "7:00 PM"}) {
		t.Fatalf("duration build = %v", got)
	}
}
