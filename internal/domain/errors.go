package domain

import "errors"

// Domain errors
var (
	ErrMapNotFound    = errors.New("map not found")
	ErrServerNotFound = errors.New("unknown server token")
)
