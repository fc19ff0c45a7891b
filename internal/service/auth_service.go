package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/paisatrack/paisatrack/internal/auth"
	"github.com/paisatrack/paisatrack/internal/models"
)

// AuthService handles registration and login, issuing JWT session tokens.
type AuthService struct {
	authenticator auth.Authenticator
	jwt           *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator auth.Authenticator, jwt *auth.JWTManager) *AuthService {
	return &AuthService{authenticator: authenticator, jwt: jwt}
}

// Register creates an account and returns the user with a session token.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*models.User, string, error) {
	if email == "" || displayName == "" {
		return nil, "", validationf("email and display name are required")
	}

	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) || errors.Is(err, auth.ErrEmailExists) {
			return nil, "", fmt.Errorf("%w: %v", ErrValidation, err)
		}
		slog.Error("Register failed", "email", email, "error", err)
		return nil, "", err
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("Register: failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}
	slog.Info("User registered", "user_id", user.ID)
	return user, token, nil
}

// Login verifies credentials and returns the user with a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("Login: failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}
	slog.Info("User logged in", "user_id", user.ID)
	return user, token, nil
}
