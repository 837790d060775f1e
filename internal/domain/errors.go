package domain

import "errors"

// Error taxonomy shared by the store, the service layer and the API.
// Callers classify with errors.Is; wrapping adds the operation context.
var (
	// ErrNotAuthenticated is returned when a user-scoped operation is
	// attempted without an active identity.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrValidation is returned for malformed write input (non-positive
	// amount, unknown type, missing fields).
	ErrValidation = errors.New("validation failed")

	// ErrStoreUnavailable is returned when the remote store cannot be
	// reached or fails mid-operation.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNotFound is returned when a lookup target does not exist. Deletes
	// do not use it: they are idempotent and report whether a row was
	// removed instead.
	ErrNotFound = errors.New("not found")

	// ErrPremiumRequired is returned when a free-tier user invokes a
	// premium-gated feature.
	ErrPremiumRequired = errors.New("premium required")
)
