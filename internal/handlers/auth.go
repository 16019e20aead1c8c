package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"healify-server/internal/models"
	"healify-server/internal/services"
	"healify-server/internal/utils"
)

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	Auth *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	Role           string `json:"role" binding:"required,oneof=PATIENT DOCTOR"`
	Specialization string `json:"specialization"`
	Location       string `json:"location"`
}

// AuthResponse represents the response body for successful registration or login.
type AuthResponse struct {
	Token string               `json:"token"`
	User  models.UserSanitized `json:"user"`
}

// Register handles user registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	token, user, err := h.Auth.Register(c.Request.Context(), services.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           models.Role(req.Role),
		Specialization: req.Specialization,
		Location:       req.Location,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			utils.BadRequest(c, "User with this email already exists")
			return
		}
		utils.InternalServerError(c, "Failed to register user: "+err.Error())
		return
	}

	utils.Created(c, "User registered successfully", AuthResponse{
		Token: token,
		User:  user.Sanitize(),
	})
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	token, user, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.Unauthorized(c, "Invalid email or password")
			return
		}
		utils.InternalServerError(c, "Failed to log in: "+err.Error())
		return
	}

	utils.Success(c, "Login successful", AuthResponse{
		Token: token,
		User:  user.Sanitize(),
	})
}
