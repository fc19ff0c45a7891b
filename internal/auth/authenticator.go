package auth

import (
	"context"

	"github.com/paisatrack/paisatrack/internal/models"
)

// Authenticator defines the interface for authentication implementations,
// so the service layer does not care whether credentials are passwords,
// OAuth tokens, or something else.
type Authenticator interface {
	// Register creates a new user account with the given email and
	// credential, returning the created user.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user on
	// success.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements (length, format, ...).
	ValidateCredential(credential string) error
}
