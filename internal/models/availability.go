package models

import (
	"time"

	"barber-booking-server/internal/timegrid"
)

// DayClass groups weekdays for opening hours.
type DayClass string

const (
	Weekday DayClass = "weekday"
	Weekend DayClass = "weekend"
)

// ClassOf returns the day class of a weekday. Saturday and Sunday are the
// weekend.
func ClassOf(d time.Weekday) DayClass {
	if d == time.Saturday || d == time.Sunday {
		return Weekend
	}
	return Weekday
}

// AvailabilityWindow is the open/close boundary for one day class.
type AvailabilityWindow struct {
	Class     DayClass           `gorm:"primaryKey;size:10" json:"class"`
	Start     timegrid.TimeOfDay `gorm:"not null" json:"start"`
	End       timegrid.TimeOfDay `gorm:"not null" json:"end"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
