package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidPath      = errors.New("invalid path")
	ErrInvalidValue     = errors.New("invalid value")
	ErrNoSession        = errors.New("no active session")

	ErrTokenRevoked  = errors.New("refresh token revoked")
	ErrTokenExpired  = errors.New("refresh token expired")
	ErrTokenMismatch = errors.New("refresh token mismatch")
	ErrInvalidToken  = errors.New("invalid token")
)

// AuthErrorCode identifies an authentication failure reported by the session store.
type AuthErrorCode string

const (
	AuthErrEmailInUse        AuthErrorCode = "auth/email-already-in-use"
	AuthErrInvalidEmail      AuthErrorCode = "auth/invalid-email"
	AuthErrWeakPassword      AuthErrorCode = "auth/weak-password"
	AuthErrInvalidCredential AuthErrorCode = "auth/invalid-credential"
	AuthErrSessionExpired    AuthErrorCode = "auth/user-token-expired"
	AuthErrTooManyRequests   AuthErrorCode = "auth/too-many-requests"
	AuthErrNetwork           AuthErrorCode = "auth/network-request-failed"
	AuthErrInternal          AuthErrorCode = "auth/internal-error"
)

var authErrorMessages = map[AuthErrorCode]string{
	AuthErrEmailInUse:        "The email address is already in use by another account.",
	AuthErrInvalidEmail:      "The email address is badly formatted.",
	AuthErrWeakPassword:      "Password should be at least 6 characters.",
	AuthErrInvalidCredential: "The supplied credentials are incorrect.",
	AuthErrSessionExpired:    "The session has expired. Please sign in again.",
	AuthErrTooManyRequests:   "Too many attempts. Try again later.",
	AuthErrNetwork:           "A network error has occurred.",
	AuthErrInternal:          "An internal error has occurred.",
}

// AuthError is a failure returned by sign-in, sign-up, sign-out or refresh.
// Its Error string is shown to the user verbatim.
type AuthError struct {
	Code    AuthErrorCode
	Message string
}

// NewAuthError builds an AuthError with the default message for code.
func NewAuthError(code AuthErrorCode) *AuthError {
	msg, ok := authErrorMessages[code]
	if !ok {
		msg = authErrorMessages[AuthErrInternal]
	}
	return &AuthError{Code: code, Message: msg}
}

// Error returns the provider message as shown to the user. The code is
// kept on the struct for logs and mapping.
func (e *AuthError) Error() string {
	return e.Message
}

// StoreError is a failed record store mutation or read.
type StoreError struct {
	Op   string
	Path Path
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ValidationErrors maps a form field to its message. A field without an
// entry is valid.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}
