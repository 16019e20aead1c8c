package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"healify-server/internal/middleware"
	"healify-server/internal/services"
	"healify-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Appointments *services.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(appointments *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Appointments: appointments}
}

// BookAppointmentRequest represents the request body for booking an appointment.
type BookAppointmentRequest struct {
	DoctorID        string    `json:"doctorId" binding:"required"`
	AppointmentTime time.Time `json:"appointmentTime" binding:"required"`
	Location        string    `json:"location" binding:"required"`
}

// Book handles creating a new appointment. The route is public by policy;
// an attached identity takes precedence over the patientEmail query
// parameter so an authenticated caller can only book for themselves.
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req BookAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientEmail := c.Query("patientEmail")
	if identity, ok := middleware.GetIdentity(c); ok {
		patientEmail = identity.Email
	}
	if patientEmail == "" {
		utils.BadRequest(c, "patientEmail is required")
		return
	}

	resp, err := h.Appointments.Book(c.Request.Context(), req.DoctorID, req.AppointmentTime, req.Location, patientEmail)
	if err != nil {
		// do not reveal which side of the booking failed to resolve
		if errors.Is(err, services.ErrPatientNotFound) || errors.Is(err, services.ErrDoctorNotFound) {
			utils.NotFound(c, "Patient or doctor not found")
			return
		}
		utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		return
	}

	utils.Created(c, "Appointment created successfully", resp)
}

// ListForDoctor handles fetching all appointments addressed to the
// authenticated doctor.
func (h *AppointmentHandler) ListForDoctor(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		utils.Unauthorized(c, "Authentication required")
		return
	}
	if email := c.Query("email"); email != "" && email != identity.Email {
		utils.Forbidden(c, "Cannot view another doctor's appointments")
		return
	}

	appts, err := h.Appointments.ListForDoctor(c.Request.Context(), identity.Email)
	if err != nil {
		if errors.Is(err, services.ErrDoctorNotFound) {
			utils.NotFound(c, "Doctor not found")
			return
		}
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appts)
}

// Respond handles a doctor's accept/reject decision on an appointment.
func (h *AppointmentHandler) Respond(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		utils.Unauthorized(c, "Authentication required")
		return
	}

	accept, err := strconv.ParseBool(c.Query("accept"))
	if err != nil {
		utils.BadRequest(c, "Invalid accept parameter, expected true or false")
		return
	}

	// doctorEmail is kept for wire compatibility but must match the
	// authenticated identity
	if doctorEmail := c.Query("doctorEmail"); doctorEmail != "" && doctorEmail != identity.Email {
		utils.Forbidden(c, "Cannot respond on behalf of another doctor")
		return
	}

	err = h.Appointments.Respond(c.Request.Context(), c.Param("id"), accept, identity.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAppointmentNotFound):
			utils.NotFound(c, "Appointment not found")
		case errors.Is(err, services.ErrDoctorNotFound):
			utils.NotFound(c, "Doctor not found")
		case errors.Is(err, services.ErrNotAuthorized):
			utils.Forbidden(c, "You are not the doctor for this appointment")
		case errors.Is(err, services.ErrAlreadyResolved):
			utils.Conflict(c, "Appointment has already been resolved")
		default:
			utils.InternalServerError(c, "Failed to record response: "+err.Error())
		}
		return
	}

	utils.Success(c, "Appointment response recorded successfully", nil)
}
