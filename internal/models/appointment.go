package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending  AppointmentStatus = "PENDING"
	StatusAccepted AppointmentStatus = "ACCEPTED"
	StatusRejected AppointmentStatus = "REJECTED"
)

// Resolved reports whether the status is terminal. Terminal statuses
// never transition again.
func (s AppointmentStatus) Resolved() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Appointment represents a booking request from a patient to a doctor.
// It is created PENDING and transitions exactly once to ACCEPTED or
// REJECTED by the assigned doctor.
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID        string            `gorm:"size:36;index;not null" json:"doctorId"`
	AppointmentTime time.Time         `json:"appointmentTime"`
	Location        string            `gorm:"size:255" json:"location"`
	Status          AppointmentStatus `gorm:"size:20;default:'PENDING'" json:"status"`

	// Relations
	Patient User `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"-"`
}
