package domain

import "errors"

// Domain errors represent business-level errors that can occur in the system.
// These errors are used across layers to communicate specific failure conditions.
var (
	// Generic errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("already exists")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrLastAdmin    = errors.New("cannot remove the last administrator")
	ErrSelfDelete   = errors.New("cannot delete the current user")
	ErrRateLimited  = errors.New("too many requests")

	// Inventory errors
	ErrInsufficientStock = errors.New("insufficient stock")

	// Backup errors
	ErrInvalidBackupName = errors.New("invalid backup name")
	ErrBackupNotFound    = errors.New("backup not found")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrSnapshotFailed    = errors.New("snapshot failed")
	ErrRestoreFailed     = errors.New("restore failed")

	// Config errors
	ErrInvalidConfig = errors.New("invalid configuration")
)
