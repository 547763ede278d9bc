package apperror

import "net/http"

// AppError is the service-wide error type. It pairs a user-facing message
// with the HTTP status it should surface as, plus an optional internal cause.
type AppError struct {
	Code    int    // HTTP status code (e.g., 400, 404, 409)
	Message string // User-facing error message
	Err     error  // Underlying cause, never exposed to the client
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates an AppError that wraps an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation builds a 400 error for malformed or out-of-policy input.
func Validation(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

// Authorization builds a 403 error. Callers should keep the message generic
// so the response does not reveal which rule or department denied access.
func Authorization(message string) *AppError {
	return New(http.StatusForbidden, message)
}

// NotFound builds a 404 error.
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}
