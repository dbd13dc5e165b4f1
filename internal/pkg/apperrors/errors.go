package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")
	ErrDuplicate             = errors.New("duplicate")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// External collaborators. Never surfaced to API clients.
	ErrExternalService = errors.New("external service failure")
)

// User errors
var (
	ErrUserNotFound       = &CustomError{Err: ErrResourceNotFound, Message: "user not found", Code: "USER_NOT_FOUND"}
	ErrEmailAlreadyExists = &CustomError{Err: ErrResourceAlreadyExists, Message: "email already exists", Code: "EMAIL_EXISTS"}
	ErrProfileNotFound    = &CustomError{Err: ErrResourceNotFound, Message: "profile not found", Code: "PROFILE_NOT_FOUND"}
)

// Event and participation errors
var (
	ErrCapacityExceeded   = errors.New("event is already full")
	ErrEventNotFound      = &CustomError{Err: ErrResourceNotFound, Message: "event not found", Code: "EVENT_NOT_FOUND"}
	ErrEventClosed        = &CustomError{Err: ErrConflict, Message: "event is no longer open for participation", Code: "EVENT_CLOSED"}
	ErrAlreadyParticipant = &CustomError{Err: ErrDuplicate, Message: "user is already a participant of this event", Code: "ALREADY_PARTICIPANT"}
	ErrRequestRejected    = &CustomError{Err: ErrConflict, Message: "participation request was already rejected", Code: "REQUEST_REJECTED"}
	ErrRequestNotFound    = &CustomError{Err: ErrResourceNotFound, Message: "no pending participation request", Code: "REQUEST_NOT_FOUND"}
	ErrNotParticipant     = &CustomError{Err: ErrPermissionDenied, Message: "user has not participated in this event", Code: "NOT_PARTICIPANT"}
	ErrNotEventManager    = &CustomError{Err: ErrPermissionDenied, Message: "you don't have permission to manage this event", Code: "NOT_EVENT_MANAGER"}
	ErrFeedbackExists     = &CustomError{Err: ErrDuplicate, Message: "feedback already submitted for this event", Code: "FEEDBACK_EXISTS"}
)

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

// NewValidationError creates a validation error naming the offending field
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Details: map[string]interface{}{"field": field},
	}
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
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

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// UserMessage returns the message that is safe to show to API clients
func UserMessage(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		if ce.StatusMsg != "" {
			return ce.StatusMsg
		}
		return ce.Error()
	}
	return err.Error()
}
