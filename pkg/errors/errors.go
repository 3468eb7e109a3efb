package errors

import "fmt"

// Stable codes carried by every typed error, one per failure family the
// daemon actually produces.
const (
	CodeAPI        = "API_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodeService    = "SERVICE_ERROR"
)

// AppError is the shared base: message, code, an HTTP-shaped status and an
// optional cause chain. The concrete types below embed it so callers can
// match with errors.As while logs keep the flat message.
type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func newBase(message, code string, statusCode int, context map[string]any, cause error) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
		Cause:      cause,
	}
}

// APIError marks a failed call against the catalog document store.
type APIError struct {
	*AppError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		AppError: newBase(message, CodeAPI, statusCode, context, nil),
	}
}

// ValidationError marks rejected caller input; StatusCode is always 400.
type ValidationError struct {
	*AppError
	Field string
}

func NewValidationError(message, field string) *ValidationError {
	return &ValidationError{
		AppError: newBase(message, CodeValidation, 400, map[string]any{"field": field}, nil),
		Field:    field,
	}
}

// CacheError marks a failed operation against the shared Redis slot.
type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: newBase(message, CodeCache, 500, map[string]any{
			"operation": operation,
			"key":       key,
		}, cause),
		Operation: operation,
		Key:       key,
	}
}

// ServiceError marks an internal processing failure (decode, encode).
type ServiceError struct {
	*AppError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		AppError: newBase(message, CodeService, 500, map[string]any{
			"service":   service,
			"operation": operation,
		}, cause),
		Service:   service,
		Operation: operation,
	}
}
