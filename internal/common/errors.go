// Package common defines shared constants and sentinel errors used across
// the freezeraudit server, its repositories and the admin CLI. Callers should
// use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorValidation = errors.New("validation error")

	// Export archive is not configured (no bucket).
	ErrorStorageDisabled = errors.New("object storage disabled")
)
