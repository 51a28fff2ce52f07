package entity

import "errors"

// Domain errors
var (
	// Configuration errors
	ErrConfigMissing = errors.New("required configuration value is missing")

	// Completion service errors
	ErrServiceError = errors.New("completion service error")

	// File errors
	ErrInvalidFile      = errors.New("invalid file")
	ErrEmptyFile        = errors.New("file is empty")
	ErrFileTooLarge     = errors.New("file too large")
	ErrTooManyFiles     = errors.New("too many files")
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidEncoding  = errors.New("file is not valid text")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidAction   = errors.New("invalid action")
	ErrResultNotReady  = errors.New("action result not computed yet")

	// Export errors
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)
