package shared

import "errors"

var (
	// ErrValidation indicates malformed caller input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateAccount indicates an account already exists for the email.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenExpired indicates a session token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidSignature indicates a malformed or tampered session token.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrNotOwner indicates the resource belongs to a different account.
	// Collapsed into ErrNotFound at the HTTP boundary.
	ErrNotOwner = errors.New("not owner")
)
