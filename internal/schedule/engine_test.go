package schedule

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"barber-booking-server/internal/models"
	"barber-booking-server/internal/repository"
	"barber-booking-server/internal/timegrid"
)

// 2025-07-10 is a Thursday; 2025-07-12 a Saturday.
const (
	thursday = "2025-07-10"
	saturday = "2025-07-12"
)

var errStoreDown = errors.New("store unreachable")

func pacific(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func window(start, end string) Window {
	return Window{Start: timegrid.MustParse(start), End: timegrid.MustParse(end)}
}

func testDefaults() StaticWindows {
	return StaticWindows{
		Weekday: window("17:00", "22:00"),
		Weekend: window("07:00", "15:00"),
	}
}

// failingStore fails the reads named by its flags and otherwise defers to
// the memory store.
type failingStore struct {
	*repository.MemoryStore
	failAppointments bool
	failBlocks       bool
	failWindows      bool
	failInsert       bool
}

func (f *failingStore) AppointmentsOn(ctx context.Context, date string) ([]models.Appointment, error) {
	if f.failAppointments {
		return nil, errStoreDown
	}
	return f.MemoryStore.AppointmentsOn(ctx, date)
}

func (f *failingStore) ActiveBlocksOn(ctx context.Context, date string) ([]models.BlockedRange, error) {
	if f.failBlocks {
		return nil, errStoreDown
	}
	return f.MemoryStore.ActiveBlocksOn(ctx, date)
}

func (f *failingStore) AvailabilityWindows(ctx context.Context) ([]models.AvailabilityWindow, error) {
	if f.failWindows {
		return nil, errStoreDown
	}
	return f.MemoryStore.AvailabilityWindows(ctx)
}

func (f *failingStore) CreateBlockedRanges(ctx context.Context, ranges []*models.BlockedRange) error {
	if f.failInsert {
		return errStoreDown
	}
	return f.MemoryStore.CreateBlockedRanges(ctx, ranges)
}

func (f *failingStore) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	if f.failInsert {
		return errStoreDown
	}
	return f.MemoryStore.CreateAppointment(ctx, appt)
}

type testEnv struct {
	store  *failingStore
	engine *Engine
	now    time.Time
}

// newTestEnv pins "now" to the morning of 2025-07-01, before every test date.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	loc := pacific(t)
	env := &testEnv{
		store: &failingStore{MemoryStore: repository.NewMemoryStore()},
		now:   time.Date(2025, 7, 1, 8, 0, 0, 0, loc),
	}
	env.engine = NewEngine(env.store, Options{
		Location: loc,
		Defaults: testDefaults(),
		Now:      func() time.Time { return env.now },
	}, nil)
	return env
}

func (e *testEnv) book(t *testing.T, date, start string) {
	t.Helper()
	appt := &models.Appointment{
		Date:        date,
		StartTime:   timegrid.MustParse(start),
		ClientName:  "Client",
		ClientPhone: "555-0100",
		ServiceName: "Cut",
	}
	if err := e.store.MemoryStore.CreateAppointment(context.Background(), appt); err != nil {
		t.Fatalf("seed appointment %s %s: %v", date, start, err)
	}
}

func (e *testEnv) block(t *testing.T, date, start, end string, status models.BlockStatus) {
	t.Helper()
	b := &models.BlockedRange{
		Date:      date,
		StartTime: timegrid.MustParse(start),
		EndTime:   timegrid.MustParse(end),
		Status:    status,
	}
	if err := e.store.MemoryStore.CreateBlockedRanges(context.Background(), []*models.BlockedRange{b}); err != nil {
		t.Fatalf("seed block: %v", err)
	}
}

func labels(slots []timegrid.TimeOfDay) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}

func contains(slots []timegrid.TimeOfDay, label string) bool {
	want := timegrid.MustParse(label)
	for _, s := range slots {
		if s == want {
			return true
		}
	}
	return false
}

func TestEngineToday(t *testing.T) {
	env := newTestEnv(t)
	// 06:30 UTC on July 2nd is still July 1st in Los Angeles.
	env.now = time.Date(2025, 7, 2, 6, 30, 0, 0, time.UTC)
	if got := env.engine.Today(); got != "2025-07-01" {
		t.Fatalf("Today() = %s, want 2025-07-01", got)
	}
}
