package schedule

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"barber-booking-server/internal/models"
	"barber-booking-server/internal/repository"
	"barber-booking-server/internal/timegrid"
)

func recurring(anchor string, offsets ...int) RecurringRequest {
	return RecurringRequest{
		Anchor:  anchor,
		Offsets: offsets,
		Start:   timegrid.MustParse("9:00 AM"),
		End:     timegrid.MustParse("5:00 PM"),
		Reason:  "Vacation",
	}
}

func TestCreateRecurringBlocksEachOffset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.engine.Blocks.CreateRecurring(ctx, recurring(thursday, 0, 2, 4), env.now)
	if err != nil {
		t.Fatalf("CreateRecurring: %v", err)
	}

	var dates []string
	for _, b := range created {
		dates = append(dates, b.Date)
		if b.StartTime.String() != "9:00 AM" || b.EndTime.String() != "5:00 PM" {
			t.Fatalf("unexpected span %s-%s", b.StartTime, b.EndTime)
		}
		if b.Reason != "Vacation" || b.Status != models.BlockActive {
			t.Fatalf("unexpected block %+v", b)
		}
		if b.ID == "" {
			t.Fatal("stored blocks should carry an id")
		}
	}
	if want := []string{"2025-07-10", "2025-07-12", "2025-07-14"}; !reflect.DeepEqual(dates, want) {
		t.Fatalf("dates = %v, want %v", dates, want)
	}

	stored, err := env.store.ActiveBlocksOn(ctx, "2025-07-12")
	if err != nil || len(stored) != 1 {
		t.Fatalf("expected one stored block on 2025-07-12, got %d (%v)", len(stored), err)
	}
}

func TestCreateRecurringDefaultsAnchorToStartOfWeek(t *testing.T) {
	env := newTestEnv(t)
	// 2025-07-10 is a Thursday; its week starts Sunday 2025-07-06.
	env.now = time.Date(2025, 7, 10, 12, 0, 0, 0, env.engine.Location)

	created, err := env.engine.Blocks.CreateRecurring(context.Background(), recurring("", 1, 3), env.now)
	if err != nil {
		t.Fatalf("CreateRecurring: %v", err)
	}
	if len(created) != 2 || created[0].Date != "2025-07-07" || created[1].Date != "2025-07-09" {
		t.Fatalf("unexpected dates %+v", created)
	}
}

func TestCreateRecurringDeduplicatesOffsets(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.engine.Blocks.CreateRecurring(context.Background(), recurring(thursday, 2, 0, 2), env.now)
	if err != nil {
		t.Fatalf("CreateRecurring: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected duplicates to collapse to 2 blocks, got %d", len(created))
	}
}

func TestCreateRecurringValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  RecurringRequest
		want error
	}{
		{"no offsets", recurring(thursday), ErrNoOffsets},
		{"negative offset", recurring(thursday, -1, 2), ErrInvalidOffset},
		{"offset too far", recurring(thursday, MaxDayOffset+1), ErrInvalidOffset},
		{"bad anchor", recurring("10-07-2025", 0), ErrMalformedDate},
		{"reversed range", RecurringRequest{Anchor: thursday, Offsets: []int{0}, Start: timegrid.MustParse("5:00 PM"), End: timegrid.MustParse("9:00 AM")}, ErrInvalidRange},
		{"off-grid range", RecurringRequest{Anchor: thursday, Offsets: []int{0}, Start: timegrid.MustParse("9:10 AM"), End: timegrid.MustParse("5:00 PM")}, ErrUnresolvedEndpoint},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.engine.Blocks.CreateRecurring(ctx, tc.req, env.now); !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}

	all, err := env.store.ListBlockedRanges(ctx, repository.BlockFilter{})
	if err != nil {
		t.Fatalf("ListBlockedRanges: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("rejected requests must not store anything, found %d", len(all))
	}
}

func TestCreateRecurringReportsFailedBatch(t *testing.T) {
	env := newTestEnv(t)
	env.store.failInsert = true

	_, err := env.engine.Blocks.CreateRecurring(context.Background(), recurring(thursday, 0, 1), env.now)
	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected *BatchError, got %v", err)
	}
	if !reflect.DeepEqual(batchErr.Failed, []int{0, 1}) || len(batchErr.Succeeded) != 0 {
		t.Fatalf("unexpected batch outcome %+v", batchErr)
	}
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("batch error should wrap the store error, got %v", err)
	}
}

func TestCreateSingleBlockRemovesSlots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	block, err := env.engine.Blocks.Create(ctx, thursday, timegrid.MustParse("6:00 PM"), timegrid.MustParse("7:00 PM"), "Lunch")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if block.Status != models.BlockActive {
		t.Fatalf("new block should be active, got %q", block.Status)
	}

	slots, err := env.engine.Resolver.AvailableSlots(ctx, thursday, env.now)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	for _, label := range []string{"6:00 PM", "6:30 PM", "7:00 PM"} {
		if contains(slots, label) {
			t.Fatalf("%s should be blocked, got %v", label, labels(slots))
		}
	}

	if _, err := env.engine.Blocks.Create(ctx, thursday, timegrid.MustParse("7:00 PM"), timegrid.MustParse("6:00 PM"), ""); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}
