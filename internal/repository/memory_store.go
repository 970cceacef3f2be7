package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"barber-booking-server/internal/models"
	"barber-booking-server/internal/timegrid"
)

type slotKey struct {
	date  string
	start timegrid.TimeOfDay
}

// MemoryStore is an in-process Store for local runs and tests. It enforces
// the same one-appointment-per-slot rule as the MySQL unique index.
type MemoryStore struct {
	mu           sync.RWMutex
	appointments map[string]models.Appointment
	slots        map[slotKey]string
	blocks       map[string]models.BlockedRange
	windows      map[models.DayClass]models.AvailabilityWindow
	admins       map[string]models.AdminUser
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		appointments: map[string]models.Appointment{},
		slots:        map[slotKey]string{},
		blocks:       map[string]models.BlockedRange{},
		windows:      map[models.DayClass]models.AvailabilityWindow{},
		admins:       map[string]models.AdminUser{},
	}
}

func sortAppointments(out []models.Appointment) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
}

func sortBlocks(out []models.BlockedRange) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
}

func (s *MemoryStore) AppointmentsOn(ctx context.Context, date string) ([]models.Appointment, error) {
	return s.ListAppointments(ctx, AppointmentFilter{From: date, To: date})
}

func (s *MemoryStore) ListAppointments(_ context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Appointment, 0, len(s.appointments))
	for _, a := range s.appointments {
		if filter.From != "" && a.Date < filter.From {
			continue
		}
		if filter.To != "" && a.Date > filter.To {
			continue
		}
		out = append(out, a)
	}
	sortAppointments(out)
	return out, nil
}

func (s *MemoryStore) GetAppointment(_ context.Context, id string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *MemoryStore) CreateAppointment(_ context.Context, appt *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey{appt.Date, appt.StartTime}
	if _, taken := s.slots[key]; taken {
		return ErrDuplicate
	}
	appt.EnsureID()
	now := time.Now()
	appt.CreatedAt, appt.UpdatedAt = now, now
	s.appointments[appt.ID] = *appt
	s.slots[key] = appt.ID
	return nil
}

func (s *MemoryStore) UpdateAppointment(_ context.Context, id string, patch models.AppointmentPatch) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	updated := current
	patch.Apply(&updated)

	oldKey := slotKey{current.Date, current.StartTime}
	newKey := slotKey{updated.Date, updated.StartTime}
	if newKey != oldKey {
		if _, taken := s.slots[newKey]; taken {
			return nil, ErrDuplicate
		}
		delete(s.slots, oldKey)
		s.slots[newKey] = id
	}
	updated.UpdatedAt = time.Now()
	s.appointments[id] = updated
	return &updated, nil
}

func (s *MemoryStore) DeleteAppointment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.appointments[id]; ok {
		delete(s.slots, slotKey{a.Date, a.StartTime})
		delete(s.appointments, id)
	}
	return nil
}

func (s *MemoryStore) ActiveBlocksOn(ctx context.Context, date string) ([]models.BlockedRange, error) {
	return s.ListBlockedRanges(ctx, BlockFilter{Date: date, Status: models.BlockActive})
}

func (s *MemoryStore) ListBlockedRanges(_ context.Context, filter BlockFilter) ([]models.BlockedRange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.BlockedRange, 0, len(s.blocks))
	for _, b := range s.blocks {
		if filter.Date != "" && b.Date != filter.Date {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, b)
	}
	sortBlocks(out)
	return out, nil
}

func (s *MemoryStore) GetBlockedRange(_ context.Context, id string) (*models.BlockedRange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blocks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (s *MemoryStore) CreateBlockedRanges(_ context.Context, ranges []*models.BlockedRange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, b := range ranges {
		b.EnsureID()
		if b.Status == "" {
			b.Status = models.BlockActive
		}
		b.CreatedAt, b.UpdatedAt = now, now
		s.blocks[b.ID] = *b
	}
	return nil
}

func (s *MemoryStore) UpdateBlockedRange(_ context.Context, id string, patch models.BlockedRangePatch) (*models.BlockedRange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blocks[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&b)
	b.UpdatedAt = time.Now()
	s.blocks[id] = b
	return &b, nil
}

func (s *MemoryStore) DeleteBlockedRange(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blocks, id)
	return nil
}

func (s *MemoryStore) AvailabilityWindows(_ context.Context) ([]models.AvailabilityWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AvailabilityWindow, 0, len(s.windows))
	for _, w := range s.windows {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Class > out[j].Class })
	return out, nil
}

func (s *MemoryStore) SaveAvailabilityWindow(_ context.Context, w *models.AvailabilityWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.UpdatedAt = time.Now()
	s.windows[w.Class] = *w
	return nil
}

func (s *MemoryStore) FindAdminByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetAdmin(_ context.Context, id string) (*models.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.admins[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *MemoryStore) SaveAdmin(_ context.Context, admin *models.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin.EnsureID()
	s.admins[admin.ID] = *admin
	return nil
}
