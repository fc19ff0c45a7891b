package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/paisatrack/paisatrack/internal/models"
)

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "user-123", Email: "asha@example.in"}

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "user-123" || claims.Email != "asha@example.in" {
		t.Errorf("claims = %+v, want user-123 / asha@example.in", claims)
	}

	t.Run("garbage token", func(t *testing.T) {
		if _, err := manager.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("other-secret", time.Hour)
		if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTManager("test-secret", -time.Minute)
		token, err := expired.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := expired.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate error = %v, want ErrInvalidToken", err)
		}
	})
}
