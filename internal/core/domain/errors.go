package domain

import "errors"

var (
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrInsufficientPrivilege = errors.New("insufficient privilege")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountLocked         = errors.New("account locked")
	ErrMissingFields         = errors.New("username and password are required")

	ErrUserNotFound       = errors.New("user not found")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrInvalidRole        = errors.New("invalid role")
	ErrIdentityLookup     = errors.New("identity lookup failed")
)
