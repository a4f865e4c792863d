package apperrors

import (
	"errors"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Infrastructure errors
	ErrPersistence   = errors.New("persistence failure")
	ErrConfiguration = errors.New("configuration error")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Domain errors. Each one unwraps to its taxonomy sentinel so the API layer can map it.
var (
	ErrStudentNotFound   = &CustomError{Err: ErrResourceNotFound, Message: "Student not found"}
	ErrUserNotFound      = &CustomError{Err: ErrResourceNotFound, Message: "User not found"}
	ErrInstituteNotFound = &CustomError{Err: ErrResourceNotFound, Message: "Institute not found"}
	ErrFeeNotFound       = &CustomError{Err: ErrResourceNotFound, Message: "Fee not found"}

	ErrEmailAlreadyExists     = &CustomError{Err: ErrConflict, Message: "Email already exists"}
	ErrUsernameAlreadyExists  = &CustomError{Err: ErrConflict, Message: "Username already exists"}
	ErrInstituteAlreadyExists = &CustomError{Err: ErrConflict, Message: "Institute with this name already exists"}

	// ErrAdmissionCodesExhausted is returned when a year has used every sequence number.
	ErrAdmissionCodesExhausted = &CustomError{Err: ErrConflict, Message: "Admission codes exhausted for this year"}
)

// ErrToggleFailed is the generic outcome of a status toggle that could not be persisted.
var ErrToggleFailed = errors.New("toggle failed")

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewConfigurationError reports a missing or unusable external dependency.
func NewConfigurationError(message string, cause error) error {
	return &CustomError{
		Err:     errors.Join(ErrConfiguration, cause),
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// FieldError is a single user-correctable problem with one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field-level violation found in one input.
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError builds a ValidationError from a list of field errors.
func NewValidationError(errs ...FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(msgs, " ")
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Messages returns the messages in the order they were found.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return msgs
}

// PersistenceError wraps a database or transport failure.
// Retryable marks failures such as timeouts that may succeed on a later attempt.
type PersistenceError struct {
	Op        string
	Err       error
	Retryable bool
}

// NewPersistenceError wraps err for operation op.
func NewPersistenceError(op string, err error, retryable bool) *PersistenceError {
	return &PersistenceError{Op: op, Err: err, Retryable: retryable}
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + ErrPersistence.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

// Unwrap exposes both ErrPersistence and the underlying cause.
func (e *PersistenceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPersistence}
	}
	return []error{ErrPersistence, e.Err}
}

// IsRetryable reports whether err is a PersistenceError marked retryable.
func IsRetryable(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe) && pe.Retryable
}
