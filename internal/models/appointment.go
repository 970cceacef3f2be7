package models

import (
	"barber-booking-server/internal/timegrid"

	"gorm.io/datatypes"
)

// Addon is an optional extra sold alongside the main service.
type Addon struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price"`
}

// Appointment is a client's booking of one start slot on one day.
//
// The composite unique index on (date, start_time) is what keeps two clients
// from holding the same slot.
type Appointment struct {
	BaseModel
	Date            string                     `gorm:"size:10;not null;uniqueIndex:idx_appointment_slot,priority:1" json:"date"`
	StartTime       timegrid.TimeOfDay         `gorm:"not null;uniqueIndex:idx_appointment_slot,priority:2" json:"startTime"`
	ClientName      string                     `gorm:"size:100;not null" json:"clientName"`
	ClientPhone     string                     `gorm:"size:30;not null" json:"clientPhone"`
	ServiceName     string                     `gorm:"size:100;not null" json:"serviceName"`
	DurationMinutes int                        `gorm:"default:0" json:"durationMinutes,omitempty"`
	Price           float64                    `json:"price"`
	Addons          datatypes.JSONSlice[Addon] `json:"addons"`
	TotalPrice      float64                    `json:"totalPrice"`
	SMSReminder     bool                       `gorm:"default:false" json:"smsReminder"`
}

// ComputeTotal returns the service price plus every add-on.
func (a *Appointment) ComputeTotal() float64 {
	total := a.Price
	for _, addon := range a.Addons {
		total += addon.Price
	}
	return total
}

// AppointmentPatch carries the fields an administrator may change. Nil fields
// are left untouched.
type AppointmentPatch struct {
	Date            *string
	StartTime       *timegrid.TimeOfDay
	ClientName      *string
	ClientPhone     *string
	ServiceName     *string
	DurationMinutes *int
	Price           *float64
	Addons          *[]Addon
	TotalPrice      *float64
	SMSReminder     *bool
}

// Apply copies the set fields onto a.
func (p AppointmentPatch) Apply(a *Appointment) {
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.StartTime != nil {
		a.StartTime = *p.StartTime
	}
	if p.ClientName != nil {
		a.ClientName = *p.ClientName
	}
	if p.ClientPhone != nil {
		a.ClientPhone = *p.ClientPhone
	}
	if p.ServiceName != nil {
		a.ServiceName = *p.ServiceName
	}
	if p.DurationMinutes != nil {
		a.DurationMinutes = *p.DurationMinutes
	}
	if p.Price != nil {
		a.Price = *p.Price
	}
	if p.Addons != nil {
		a.Addons = datatypes.JSONSlice[Addon](*p.Addons)
	}
	if p.TotalPrice != nil {
		a.TotalPrice = *p.TotalPrice
	}
	if p.SMSReminder != nil {
		a.SMSReminder = *p.SMSReminder
	}
}

// Columns maps the set fields to their column names for a partial update.
func (p AppointmentPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Date != nil {
		cols["date"] = *p.Date
	}
	if p.StartTime != nil {
		cols["start_time"] = *p.StartTime
	}
	if p.ClientName != nil {
		cols["client_name"] = *p.ClientName
	}
	if p.ClientPhone != nil {
		cols["client_phone"] = *p.ClientPhone
	}
	if p.ServiceName != nil {
		cols["service_name"] = *p.ServiceName
	}
	if p.DurationMinutes != nil {
		cols["duration_minutes"] = *p.DurationMinutes
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.Addons != nil {
		cols["addons"] = datatypes.JSONSlice[Addon](*p.Addons)
	}
	if p.TotalPrice != nil {
		cols["total_price"] = *p.TotalPrice
	}
	if p.SMSReminder != nil {
		cols["sms_reminder"] = *p.SMSReminder
	}
	return cols
}
