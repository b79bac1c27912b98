// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Decode service errors.
	ErrDecodeService = errors.New("decode service request failed")
	ErrRateLimit     = errors.New("rate limit exceeded")

	// Import errors.
	ErrNoRecords     = errors.New("no vehicle records to process")
	ErrMissingColumn = errors.New("required column not found")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)
