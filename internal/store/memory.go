package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"healify-server/internal/models"
)

// MemoryUserStore is a mutex-guarded in-memory UserStore, used by tests in
// place of a live database.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]models.User // by id
}

// NewMemoryUserStore creates an empty in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]models.User)}
}

func (m *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	user := u
	return &user, nil
}

func (m *MemoryUserStore) FindDoctors(ctx context.Context, specialization, location string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var doctors []models.User
	for _, u := range m.users {
		if u.Role != models.RoleDoctor {
			continue
		}
		if specialization != "" && !strings.Contains(strings.ToLower(u.Specialization), strings.ToLower(specialization)) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(u.Location), strings.ToLower(location)) {
			continue
		}
		doctors = append(doctors, u)
	}
	return doctors, nil
}

func (m *MemoryUserStore) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = *user
	return nil
}

// MemoryAppointmentStore is a mutex-guarded in-memory AppointmentStore.
// It resolves Patient/Doctor relations through the companion user store,
// mirroring the gorm store's preloads.
type MemoryAppointmentStore struct {
	mu           sync.Mutex
	appointments map[string]models.Appointment // by id
	users        *MemoryUserStore
}

// NewMemoryAppointmentStore creates an empty in-memory appointment store
// backed by the given user store.
func NewMemoryAppointmentStore(users *MemoryUserStore) *MemoryAppointmentStore {
	return &MemoryAppointmentStore{
		appointments: make(map[string]models.Appointment),
		users:        users,
	}
}

func (m *MemoryAppointmentStore) preload(appt models.Appointment) models.Appointment {
	if patient, err := m.users.FindByID(context.Background(), appt.PatientID); err == nil {
		appt.Patient = *patient
	}
	if doctor, err := m.users.FindByID(context.Background(), appt.DoctorID); err == nil {
		appt.Doctor = *doctor
	}
	return appt
}

func (m *MemoryAppointmentStore) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	appt, ok := m.appointments[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	loaded := m.preload(appt)
	return &loaded, nil
}

func (m *MemoryAppointmentStore) FindByDoctorID(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	m.mu.Lock()
	var matched []models.Appointment
	for _, a := range m.appointments {
		if a.DoctorID == doctorID {
			matched = append(matched, a)
		}
	}
	m.mu.Unlock()

	for i := range matched {
		matched[i] = m.preload(matched[i])
	}
	return matched, nil
}

func (m *MemoryAppointmentStore) Create(ctx context.Context, appt *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	m.appointments[appt.ID] = *appt
	return nil
}

func (m *MemoryAppointmentStore) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.appointments[id]
	if !ok {
		return ErrNotFound
	}
	if appt.Status != from {
		return ErrStale
	}
	appt.Status = to
	appt.UpdatedAt = time.Now()
	m.appointments[id] = appt
	return nil
}
