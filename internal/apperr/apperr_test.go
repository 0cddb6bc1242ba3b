package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeAndStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"wrapped not found", fmt.Errorf("cart item 3: %w", ErrNotFound), CodeNotFound, http.StatusNotFound},
		{"denied", ErrPermissionDenied, CodeForbidden, http.StatusForbidden},
		{"unauthenticated", ErrNotAuthenticated, CodeUnauthenticated, http.StatusUnauthorized},
		{"duplicate", fmt.Errorf("email: %w", ErrAlreadyExists), CodeAlreadyExists, http.StatusConflict},
		{"invalid", ErrInvalidArgument, CodeBadUserInput, http.StatusBadRequest},
		{"credential", ErrInvalidCredential, CodeInvalidCredentials, http.StatusUnauthorized},
		{"other", errors.New("db down"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.code, Code(tt.err))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
			assert.Equal(t, tt.code == CodeInternal, IsInternal(tt.err))
		})
	}
}
