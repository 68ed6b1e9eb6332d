// Package common contains shared constants and sentinel errors used across
// contactvault components. Callers should match these values with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound         = errors.New("not found")
	ErrEmailAlreadyExists = errors.New("email already exists")

	// Service-level errors (generic flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Login rejection: intentionally the same for unknown email and wrong
	// password, so callers cannot tell which half failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token errors raised by the claims codec.
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidToken     = errors.New("invalid token")

	// Token lifecycle errors raised by the refresh flow.
	ErrWrongTokenScope = errors.New("wrong token scope")
	ErrTokenMismatch   = errors.New("refresh token mismatch")
)
