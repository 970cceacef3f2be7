package repository

import (
	"context"
	"errors"

	"barber-booking-server/internal/models"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert or update would put two
	// appointments on the same (date, start_time).
	ErrDuplicate = errors.New("duplicate appointment slot")
)

// AppointmentFilter narrows appointment listings. Empty fields match all.
type AppointmentFilter struct {
	From string
	To   string
}

// BlockFilter narrows blocked range listings. Empty fields match all.
type BlockFilter struct {
	Date   string
	Status models.BlockStatus
}

// Store is the record store behind the booking engine and the admin API.
type Store interface {
	AppointmentsOn(ctx context.Context, date string) ([]models.Appointment, error)
	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	UpdateAppointment(ctx context.Context, id string, patch models.AppointmentPatch) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error

	ActiveBlocksOn(ctx context.Context, date string) ([]models.BlockedRange, error)
	ListBlockedRanges(ctx context.Context, filter BlockFilter) ([]models.BlockedRange, error)
	GetBlockedRange(ctx context.Context, id string) (*models.BlockedRange, error)
	CreateBlockedRanges(ctx context.Context, ranges []*models.BlockedRange) error
	UpdateBlockedRange(ctx context.Context, id string, patch models.BlockedRangePatch) (*models.BlockedRange, error)
	DeleteBlockedRange(ctx context.Context, id string) error

	AvailabilityWindows(ctx context.Context) ([]models.AvailabilityWindow, error)
	SaveAvailabilityWindow(ctx context.Context, w *models.AvailabilityWindow) error

	FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	GetAdmin(ctx context.Context, id string) (*models.AdminUser, error)
	SaveAdmin(ctx context.Context, admin *models.AdminUser) error
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
