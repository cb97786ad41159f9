package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context")

	// Checkout and payment errors
	ErrInvalidPlan          = errors.New("invalid subscription plan")
	ErrMissingFields        = errors.New("missing required fields")
	ErrInvalidSignature     = errors.New("invalid payment signature")
	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")
	ErrGatewayTimeout       = errors.New("payment gateway timeout")
	ErrGatewayRejected      = errors.New("payment gateway rejected the request")
	ErrDuplicateTransaction = errors.New("transaction already recorded")
	ErrPersistenceFailure   = errors.New("failed to record verified payment")

	// Auth and infra errors
	ErrUnauthorized    = errors.New("unauthorized")
	ErrLockNotAcquired = errors.New("could not acquire lock")
)
