package schedule

import (
	"context"
	"fmt"
	"slices"
	"time"

	"barber-booking-server/internal/models"
	"barber-booking-server/internal/timegrid"

	"go.uber.org/zap"
)

// MaxDayOffset bounds how far ahead a recurring block may reach.
const MaxDayOffset = 365

// BlockWriter stores blocked ranges. A batch is stored entirely or not at
// all.
type BlockWriter interface {
	CreateBlockedRanges(ctx context.Context, ranges []*models.BlockedRange) error
}

// RecurringRequest asks for the same span to be blocked on several days.
type RecurringRequest struct {
	// Anchor is the YYYY-MM-DD date offsets count from. When empty it is the
	// Sunday starting the current week, so offsets read as weekdays.
	Anchor  string
	Offsets []int
	Start   timegrid.TimeOfDay
	End     timegrid.TimeOfDay
	Reason  string
}

// BlockCreator validates and stores admin blocks.
type BlockCreator struct {
	Store    BlockWriter
	Expander Expander
	Location *time.Location
	Logger   *zap.Logger
}

// ValidateRange rejects spans that would not expand against the grid.
func (c *BlockCreator) ValidateRange(start, end timegrid.TimeOfDay) error {
	_, err := c.Expander.Expand(Range{Start: start, End: end})
	return err
}

// Create stores a single active blocked range on date.
func (c *BlockCreator) Create(ctx context.Context, date string, start, end timegrid.TimeOfDay, reason string) (*models.BlockedRange, error) {
	day, err := ParseDate(date, c.Location)
	if err != nil {
		return nil, err
	}
	if err := c.ValidateRange(start, end); err != nil {
		return nil, err
	}
	block := &models.BlockedRange{
		Date:      FormatDate(day),
		StartTime: start,
		EndTime:   end,
		Reason:    reason,
		Status:    models.BlockActive,
	}
	if err := c.Store.CreateBlockedRanges(ctx, []*models.BlockedRange{block}); err != nil {
		return nil, fmt.Errorf("create blocked range: %w", err)
	}
	return block, nil
}

// CreateRecurring stores one active blocked range per distinct offset, at
// anchor + offset days. The batch is written in one call; if it fails a
// *BatchError says which offsets were not stored.
func (c *BlockCreator) CreateRecurring(ctx context.Context, req RecurringRequest, now time.Time) ([]models.BlockedRange, error) {
	if len(req.Offsets) == 0 {
		return nil, ErrNoOffsets
	}
	offsets := slices.Clone(req.Offsets)
	slices.Sort(offsets)
	offsets = slices.Compact(offsets)
	if offsets[0] < 0 || offsets[len(offsets)-1] > MaxDayOffset {
		return nil, fmt.Errorf("%w: offsets must be between 0 and %d", ErrInvalidOffset, MaxDayOffset)
	}

	if err := c.ValidateRange(req.Start, req.End); err != nil {
		return nil, err
	}

	var anchor time.Time
	if req.Anchor == "" {
		anchor = StartOfWeek(now, c.Location)
	} else {
		var err error
		if anchor, err = ParseDate(req.Anchor, c.Location); err != nil {
			return nil, err
		}
	}

	batch := make([]*models.BlockedRange, 0, len(offsets))
	for _, off := range offsets {
		batch = append(batch, &models.BlockedRange{
			Date:      FormatDate(anchor.AddDate(0, 0, off)),
			StartTime: req.Start,
			EndTime:   req.End,
			Reason:    req.Reason,
			Status:    models.BlockActive,
		})
	}

	if err := c.Store.CreateBlockedRanges(ctx, batch); err != nil {
		c.Logger.Error("recurring block batch failed",
			zap.String("anchor", FormatDate(anchor)),
			zap.Ints("offsets", offsets),
			zap.Error(err))
		return nil, &BatchError{Failed: offsets, Succeeded: []int{}, Err: err}
	}

	out := make([]models.BlockedRange, len(batch))
	for i, b := range batch {
		out[i] = *b
	}
	return out, nil
}
