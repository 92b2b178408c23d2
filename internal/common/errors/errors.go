// Package errors provides the standardized error taxonomy for the recruiting pipeline core.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeValidation covers malformed or missing input: rating out of
	// range, empty recommendation, unknown question, missing interviewer.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeNotFound covers unknown application/interview/template/scorecard ids.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeLocked covers mutation attempts on a SUBMITTED scorecard.
	ErrCodeLocked ErrorCode = "LOCKED"

	// ErrCodeConflict is reserved for optimistic-concurrency checks. Field
	// autosave is last-write-wins today, so nothing raises it yet.
	ErrCodeConflict ErrorCode = "CONFLICT"

	// ErrCodeStorage covers transient persistence failures.
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
)

// PipelineError represents a structured application error.
type PipelineError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("PipelineError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *PipelineError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a non-retryable input validation error.
func NewValidationError(details string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeValidation,
		Message:   "Input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates a non-retryable lookup error for a missing resource.
func NewNotFoundError(resource, id string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("%sId: %s", resource, id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLockedError creates a non-retryable error for writes against a submitted scorecard.
func NewLockedError(interviewID string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeLocked,
		Message:   "Scorecard already submitted",
		Details:   fmt.Sprintf("interviewId: %s", interviewID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConflictError creates a non-retryable concurrent update error.
func NewConflictError(details string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeConflict,
		Message:   "Concurrent update rejected",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageError creates a retryable persistence error wrapping the driver failure.
func NewStorageError(op string, err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeStorage,
		Message:   "Persistence operation failed",
		Details:   fmt.Sprintf("op: %s, error: %v", op, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// CodeOf returns the ErrorCode carried by err, or empty when err is not a PipelineError.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

func IsValidation(err error) bool { return CodeOf(err) == ErrCodeValidation }
func IsNotFound(err error) bool   { return CodeOf(err) == ErrCodeNotFound }
func IsLocked(err error) bool     { return CodeOf(err) == ErrCodeLocked }
func IsConflict(err error) bool   { return CodeOf(err) == ErrCodeConflict }
func IsStorage(err error) bool    { return CodeOf(err) == ErrCodeStorage }

// IsRetryable reports whether the caller may usefully repeat the operation.
func IsRetryable(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// GetErrorCategory returns the coarse category used for metric labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidation:
		return "VALIDATION"
	case ErrCodeNotFound:
		return "LOOKUP"
	case ErrCodeLocked, ErrCodeConflict:
		return "STATE"
	case ErrCodeStorage:
		return "STORAGE"
	default:
		return "OTHER"
	}
}
