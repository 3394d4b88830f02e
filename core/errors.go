package core

import (
	"errors"
)

var (
	// ErrTableNotFound is returned when a mapped table does not exist in the database.
	ErrTableNotFound = errors.New("table not found")
	// ErrColumnNotFound is returned when a mapped column is missing from its table.
	ErrColumnNotFound = errors.New("column not found")
	// ErrUnknownDialect is returned for a driver name no dialect is registered for.
	ErrUnknownDialect = errors.New("unknown dialect")
	// ErrConnectionFailed is returned when the database connection cannot be established.
	ErrConnectionFailed = errors.New("connection failed")
)
