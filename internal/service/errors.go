package service

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the service layer. Every failure is deterministic
// and input-driven; callers distinguish kinds with errors.Is and map them to
// their own surface (the HTTP layer maps them to status codes). There is no
// generic catch-all kind and no retrying inside the services.
var (
	// ErrValidation marks malformed input: percentages that don't sum to
	// 100, custom amounts that miss the total, empty participant lists,
	// non-positive amounts.
	ErrValidation = errors.New("validation failed")

	// ErrPermission marks an operation the requesting user may not perform,
	// such as deleting someone else's split.
	ErrPermission = errors.New("permission denied")

	// ErrOverpayment marks a settlement amount exceeding the outstanding
	// balance between the pair. Settlements are never clamped.
	ErrOverpayment = errors.New("payment exceeds outstanding debt")

	// ErrNotFound marks a referenced split, user, or group that does not
	// exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated marks missing or invalid credentials.
	ErrUnauthenticated = errors.New("authentication required")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func permissionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPermission, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
