package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionSubmitted is returned when a mutating operation targets a submitted session.
var ErrSessionSubmitted = errors.New("session already submitted")

// ErrUnknownPreset is returned when a date preset is not in the catalog.
var ErrUnknownPreset = errors.New("unknown festival preset")

// ErrInvalidInput is returned for malformed requests that are not user-correctable
// validation failures, such as an unknown date kind.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError is a user-correctable input problem.
// The engine records the message on the session and also returns the error.
type ValidationError struct {
	Step    Step   `json:"step"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError for step.
func NewValidationError(step Step, field, message string) *ValidationError {
	return &ValidationError{Step: step, Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
