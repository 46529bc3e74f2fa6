package service

// ValidationError reports client input that cannot be accepted as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}
