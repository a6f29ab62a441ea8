package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
	}{
		{"configuration", NewConfigurationError("DB_HOST is required"), KindConfiguration},
		{"connection", NewConnectionError(errors.New("dial tcp: refused")), KindConnection},
		{"validation", NewValidationError("password should be non-empty"), KindValidation},
		{"not found", NewNotFoundError("Post", "42"), KindNotFound},
		{"integrity", NewIntegrityError(errors.New("violates foreign key")), KindIntegrity},
		{"internal", NewInternalError(errors.New("boom")), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	err := NewConnectionError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "storage engine unreachable")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestKindOfWrappedError(t *testing.T) {
	inner := NewNotFoundError("User", 7)
	wrapped := fmt.Errorf("loading author: %w", inner)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsNotFound(wrapped))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestNotFoundMessage(t *testing.T) {
	err := NewNotFoundMessage("user with this email and password doesn't exist")
	assert.Equal(t, KindNotFound, err.Kind)
	assert.Equal(t, "user with this email and password doesn't exist", err.Error())
}
