// Package apperr holds the error taxonomy shared by services and transports.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidCredential = errors.New("invalid credential")
)

const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeBadUserInput       = "BAD_USER_INPUT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternal           = "INTERNAL"
)

var table = []struct {
	err    error
	code   string
	status int
}{
	{ErrNotAuthenticated, CodeUnauthenticated, http.StatusUnauthorized},
	{ErrPermissionDenied, CodeForbidden, http.StatusForbidden},
	{ErrNotFound, CodeNotFound, http.StatusNotFound},
	{ErrAlreadyExists, CodeAlreadyExists, http.StatusConflict},
	{ErrInvalidArgument, CodeBadUserInput, http.StatusBadRequest},
	{ErrInvalidCredential, CodeInvalidCredentials, http.StatusUnauthorized},
}

// Code returns the client-facing code of err, or CodeInternal.
func Code(err error) string {
	for _, e := range table {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return CodeInternal
}

// HTTPStatus maps err to a status code, 500 for anything outside the taxonomy.
func HTTPStatus(err error) int {
	for _, e := range table {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// IsInternal reports whether err is outside the taxonomy.
func IsInternal(err error) bool {
	return Code(err) == CodeInternal
}
