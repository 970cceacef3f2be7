package repository

import (
	"context"
	"errors"

	"barber-booking-server/internal/models"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// GormStore keeps records in MySQL through gorm.
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore wraps an open gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

func slotError(err error) error {
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) AppointmentsOn(ctx context.Context, date string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.DB.WithContext(ctx).
		Where("date = ?", date).
		Order("start_time asc").
		Find(&appointments).Error
	return appointments, err
}

func (s *GormStore) ListAppointments(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	query := s.DB.WithContext(ctx).Order("date asc").Order("start_time asc")
	if filter.From != "" {
		query = query.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		query = query.Where("date <= ?", filter.To)
	}
	var appointments []models.Appointment
	err := query.Find(&appointments).Error
	return appointments, err
}

func (s *GormStore) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.DB.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appt, nil
}

// CreateAppointment inserts appt. A second appointment on the same slot is
// rejected by the unique index and reported as ErrDuplicate.
func (s *GormStore) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	return slotError(s.DB.WithContext(ctx).Create(appt).Error)
}

func (s *GormStore) UpdateAppointment(ctx context.Context, id string, patch models.AppointmentPatch) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&appt, "id = ?", id).Error; err != nil {
			return err
		}
		if cols := patch.Columns(); len(cols) > 0 {
			if err := tx.Model(&appt).Updates(cols).Error; err != nil {
				return err
			}
		}
		return tx.First(&appt, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, slotError(err)
	}
	return &appt, nil
}

func (s *GormStore) DeleteAppointment(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id).Error
}

func (s *GormStore) ActiveBlocksOn(ctx context.Context, date string) ([]models.BlockedRange, error) {
	var ranges []models.BlockedRange
	err := s.DB.WithContext(ctx).
		Where("date = ? AND status = ?", date, models.BlockActive).
		Order("start_time asc").
		Find(&ranges).Error
	return ranges, err
}

func (s *GormStore) ListBlockedRanges(ctx context.Context, filter BlockFilter) ([]models.BlockedRange, error) {
	query := s.DB.WithContext(ctx).Order("date asc").Order("start_time asc")
	if filter.Date != "" {
		query = query.Where("date = ?", filter.Date)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	var ranges []models.BlockedRange
	err := query.Find(&ranges).Error
	return ranges, err
}

func (s *GormStore) GetBlockedRange(ctx context.Context, id string) (*models.BlockedRange, error) {
	var block models.BlockedRange
	if err := s.DB.WithContext(ctx).First(&block, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &block, nil
}

// CreateBlockedRanges inserts every range in one transaction; either all rows
// land or none do.
func (s *GormStore) CreateBlockedRanges(ctx context.Context, ranges []*models.BlockedRange) error {
	if len(ranges) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&ranges).Error
	})
}

func (s *GormStore) UpdateBlockedRange(ctx context.Context, id string, patch models.BlockedRangePatch) (*models.BlockedRange, error) {
	var block models.BlockedRange
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&block, "id = ?", id).Error; err != nil {
			return err
		}
		if cols := patch.Columns(); len(cols) > 0 {
			if err := tx.Model(&block).Updates(cols).Error; err != nil {
				return err
			}
		}
		return tx.First(&block, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (s *GormStore) DeleteBlockedRange(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Delete(&models.BlockedRange{}, "id = ?", id).Error
}

func (s *GormStore) AvailabilityWindows(ctx context.Context) ([]models.AvailabilityWindow, error) {
	var windows []models.AvailabilityWindow
	err := s.DB.WithContext(ctx).Find(&windows).Error
	return windows, err
}

func (s *GormStore) SaveAvailabilityWindow(ctx context.Context, w *models.AvailabilityWindow) error {
	return s.DB.WithContext(ctx).Save(w).Error
}

func (s *GormStore) FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (s *GormStore) GetAdmin(ctx context.Context, id string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.DB.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (s *GormStore) SaveAdmin(ctx context.Context, admin *models.AdminUser) error {
	admin.EnsureID()
	return s.DB.WithContext(ctx).Save(admin).Error
}
