// Package services holds the business logic: credential verification and
// token minting on one side, the appointment lifecycle state machine on
// the other. Handlers stay thin; everything with an invariant lives here.
package services

import (
	"context"
	"errors"
	"fmt"

	"healify-server/internal/models"
	"healify-server/internal/store"
	"healify-server/internal/token"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so login failures cannot be used to probe which emails exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// AuthService verifies raw credentials and mints tokens. Being issued a
// token is the sole proof of authentication; there is no session object.
type AuthService struct {
	users  store.UserStore
	tokens *token.Service
}

// NewAuthService creates a new AuthService.
func NewAuthService(users store.UserStore, tokens *token.Service) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// RegisterInput carries a new account's profile. Specialization and
// Location are only meaningful for doctors.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Role           models.Role
	Specialization string
	Location       string
}

// Register hashes the password, persists the new identity and issues a
// token for it. Returns ErrEmailTaken when the store rejects the email as
// already registered.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, *models.User, error) {
	user := models.User{
		Name:           in.Name,
		Email:          in.Email,
		Role:           in.Role,
		Specialization: in.Specialization,
		Location:       in.Location,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return "", nil, ErrEmailTaken
		}
		return "", nil, err
	}

	tok, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", nil, err
	}
	return tok, &user, nil
}

// Login verifies the password against the stored hash and issues a token.
// An absent user and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.CheckPassword(password) {
		return "", nil, ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", nil, err
	}
	return tok, user, nil
}
