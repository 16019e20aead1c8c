package services

import (
	"context"
	"errors"
	"time"

	"healify-server/internal/models"
	"healify-server/internal/store"
)

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrNotAuthorized       = errors.New("not authorized")
	// ErrAlreadyResolved is returned when responding to an appointment
	// that has already been accepted or rejected. Terminal statuses are
	// immutable.
	ErrAlreadyResolved = errors.New("appointment already resolved")
)

// AppointmentResponse is the projection returned to clients: display names
// instead of identity references.
type AppointmentResponse struct {
	ID              string                   `json:"id"`
	DoctorName      string                   `json:"doctorName"`
	PatientName     string                   `json:"patientName"`
	AppointmentTime time.Time                `json:"appointmentTime"`
	Location        string                   `json:"location"`
	Status          models.AppointmentStatus `json:"status"`
}

// AppointmentService owns the booking and accept/reject state machine:
// PENDING at creation, exactly one transition to ACCEPTED or REJECTED, and
// only by the assigned doctor.
type AppointmentService struct {
	users        store.UserStore
	appointments store.AppointmentStore
}

// NewAppointmentService creates a new AppointmentService.
func NewAppointmentService(users store.UserStore, appointments store.AppointmentStore) *AppointmentService {
	return &AppointmentService{users: users, appointments: appointments}
}

// Book resolves the patient by email and the doctor by id, then persists a
// new PENDING appointment between them. No conflict or double-booking
// checks are performed.
func (s *AppointmentService) Book(ctx context.Context, doctorID string, appointmentTime time.Time, location, patientEmail string) (*AppointmentResponse, error) {
	patient, err := s.users.FindByEmail(ctx, patientEmail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	doctor, err := s.users.FindByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	if doctor.Role != models.RoleDoctor {
		return nil, ErrDoctorNotFound
	}

	appt := models.Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		AppointmentTime: appointmentTime,
		Location:        location,
		Status:          models.StatusPending,
	}
	if err := s.appointments.Create(ctx, &appt); err != nil {
		return nil, err
	}

	appt.Patient = *patient
	appt.Doctor = *doctor
	resp := toResponse(appt)
	return &resp, nil
}

// ListForDoctor returns every appointment addressed to the doctor with the
// given email, freshly computed per call, in store order.
func (s *AppointmentService) ListForDoctor(ctx context.Context, doctorEmail string) ([]AppointmentResponse, error) {
	doctor, err := s.users.FindByEmail(ctx, doctorEmail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	appts, err := s.appointments.FindByDoctorID(ctx, doctor.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]AppointmentResponse, len(appts))
	for i, a := range appts {
		responses[i] = toResponse(a)
	}
	return responses, nil
}

// Respond records the assigned doctor's decision on a pending appointment.
// The responding identity must be the appointment's doctor. The transition
// runs as a compare-and-swap on the PENDING status, so a second response
// (or a concurrent one that lost the race) fails with ErrAlreadyResolved
// instead of overwriting a terminal status.
func (s *AppointmentService) Respond(ctx context.Context, appointmentID string, accept bool, doctorEmail string) error {
	appt, err := s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}

	doctor, err := s.users.FindByEmail(ctx, doctorEmail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDoctorNotFound
		}
		return err
	}

	if appt.DoctorID != doctor.ID {
		return ErrNotAuthorized
	}

	if appt.Status.Resolved() {
		return ErrAlreadyResolved
	}

	to := models.StatusRejected
	if accept {
		to = models.StatusAccepted
	}
	if err := s.appointments.UpdateStatus(ctx, appt.ID, models.StatusPending, to); err != nil {
		if errors.Is(err, store.ErrStale) {
			return ErrAlreadyResolved
		}
		if errors.Is(err, store.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}
	return nil
}

func toResponse(appt models.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              appt.ID,
		DoctorName:      appt.Doctor.Name,
		PatientName:     appt.Patient.Name,
		AppointmentTime: appt.AppointmentTime,
		Location:        appt.Location,
		Status:          appt.Status,
	}
}
