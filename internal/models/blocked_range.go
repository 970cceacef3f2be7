package models

import "barber-booking-server/internal/timegrid"

// BlockStatus marks whether a blocked range still takes part in availability.
type BlockStatus string

const (
	BlockActive    BlockStatus = "active"
	BlockCancelled BlockStatus = "cancelled"
)

// BlockedRange is an admin-declared span of slots, inclusive at both ends,
// that clients cannot book. Cancelled ranges are kept for the record.
type BlockedRange struct {
	BaseModel
	Date      string             `gorm:"size:10;not null;index:idx_blocked_date_status,priority:1" json:"date"`
	StartTime timegrid.TimeOfDay `gorm:"not null" json:"startTime"`
	EndTime   timegrid.TimeOfDay `gorm:"not null" json:"endTime"`
	Reason    string             `gorm:"size:255" json:"reason,omitempty"`
	Status    BlockStatus        `gorm:"size:20;default:'active';index:idx_blocked_date_status,priority:2" json:"status"`
}

// Active reports whether the range should block slots.
func (b *BlockedRange) Active() bool {
	return b.Status == BlockActive
}

// BlockedRangePatch carries the editable fields of a blocked range.
type BlockedRangePatch struct {
	Date      *string
	StartTime *timegrid.TimeOfDay
	EndTime   *timegrid.TimeOfDay
	Reason    *string
	Status    *BlockStatus
}

func (p BlockedRangePatch) Apply(b *BlockedRange) {
	if p.Date != nil {
		b.Date = *p.Date
	}
	if p.StartTime != nil {
		b.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		b.EndTime = *p.EndTime
	}
	if p.Reason != nil {
		b.Reason = *p.Reason
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
}

func (p BlockedRangePatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Date != nil {
		cols["date"] = *p.Date
	}
	if p.StartTime != nil {
		cols["start_time"] = *p.StartTime
	}
	if p.EndTime != nil {
		cols["end_time"] = *p.EndTime
	}
	if p.Reason != nil {
		cols["reason"] = *p.Reason
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	return cols
}
