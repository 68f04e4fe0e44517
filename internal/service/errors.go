package service

import "errors"

var (
	ErrForbidden          = errors.New("forbidden: insufficient permissions")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserStoreUnavailable is returned by user management operations when
	// the deployment runs without a persistent user store (memory driver).
	ErrUserStoreUnavailable = errors.New("user store is not available in this deployment")
)
