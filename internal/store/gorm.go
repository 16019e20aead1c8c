package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"healify-server/internal/models"
)

// GormUserStore implements UserStore on top of gorm/MySQL.
type GormUserStore struct {
	DB *gorm.DB
}

// NewGormUserStore creates a new GormUserStore.
func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{DB: db}
}

func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) FindDoctors(ctx context.Context, specialization, location string) ([]models.User, error) {
	query := s.DB.WithContext(ctx).Where("role = ?", models.RoleDoctor)
	if specialization != "" {
		query = query.Where("LOWER(specialization) LIKE ?", "%"+strings.ToLower(specialization)+"%")
	}
	if location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(location)+"%")
	}

	var doctors []models.User
	if err := query.Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (s *GormUserStore) Create(ctx context.Context, user *models.User) error {
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		// uniqueIndex on email
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// GormAppointmentStore implements AppointmentStore on top of gorm/MySQL.
type GormAppointmentStore struct {
	DB *gorm.DB
}

// NewGormAppointmentStore creates a new GormAppointmentStore.
func NewGormAppointmentStore(db *gorm.DB) *GormAppointmentStore {
	return &GormAppointmentStore{DB: db}
}

func (s *GormAppointmentStore) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.DB.WithContext(ctx).Preload("Patient").Preload("Doctor").First(&appt, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appt, nil
}

func (s *GormAppointmentStore) FindByDoctorID(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.DB.WithContext(ctx).Preload("Patient").Preload("Doctor").
		Where("doctor_id = ?", doctorID).Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *GormAppointmentStore) Create(ctx context.Context, appt *models.Appointment) error {
	return s.DB.WithContext(ctx).Create(appt).Error
}

// UpdateStatus performs a conditional UPDATE keyed on the expected prior
// status. Zero affected rows means either the appointment is gone or the
// guard failed; a follow-up read tells the two apart.
func (s *GormAppointmentStore) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) error {
	res := s.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var appt models.Appointment
		if err := s.DB.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return ErrStale
	}
	return nil
}
