package handlers

import (
	"github.com/gin-gonic/gin"

	"healify-server/internal/models"
	"healify-server/internal/store"
	"healify-server/internal/utils"
)

// DoctorHandler handles doctor directory requests.
type DoctorHandler struct {
	Users store.UserStore
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(users store.UserStore) *DoctorHandler {
	return &DoctorHandler{Users: users}
}

// GetDoctors handles the public doctor search, optionally filtered by
// specialization and location.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	specialization := c.Query("specialization")
	location := c.Query("location")

	doctors, err := h.Users.FindDoctors(c.Request.Context(), specialization, location)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(doctors))
	for i, d := range doctors {
		sanitized[i] = d.Sanitize()
	}

	utils.Success(c, "Doctors fetched successfully", sanitized)
}
