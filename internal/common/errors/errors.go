// Package errors provides the standardized error taxonomy for the enrichment
// pipeline and its mapping onto HTTP responses and workflow job failures.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed      ErrorCode = "VALIDATION_FAILED"
	ErrCodeModelInvocationFailed ErrorCode = "MODEL_INVOCATION_FAILED"
	ErrCodeDocumentReadFailed    ErrorCode = "DOCUMENT_READ_FAILED"
	ErrCodeDocumentWriteFailed   ErrorCode = "DOCUMENT_WRITE_FAILED"
	ErrCodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// BPMNError is the shape thrown to the workflow engine.
type BPMNError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable"`
	Retries   int    `json:"retries"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns the job variables attached to a failed or thrown job.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	return map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
}

// NewValidationError reports a malformed or incomplete request.
func NewValidationError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelInvocationError wraps a failed call to the model service.
func NewModelInvocationError(modelID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelInvocationFailed,
		Message:   "model invocation failed",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"modelId": modelID},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDocumentReadError wraps a failed document store read.
func NewDocumentReadError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentReadFailed,
		Message:   "document read failed",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"key": key},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDocumentWriteError wraps a failed document store upsert.
func NewDocumentWriteError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentWriteFailed,
		Message:   "document upsert failed",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"key": key},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInternalError wraps anything unexpected.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "internal error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// Normalize returns err as a *StandardError, wrapping unknown errors as INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HTTPStatus maps an error onto the response status of the HTTP surface.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if Normalize(err).Code == ErrCodeValidationFailed {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// GetRetryCount returns how many workflow retries a code deserves.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeModelInvocationFailed:
		return 2
	case ErrCodeDocumentWriteFailed, ErrCodeDocumentReadFailed:
		return 3
	default:
		return 0
	}
}

// IsRetryableErrorCode reports whether a code is worth retrying at the workflow level.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed:
		return "validation"
	case ErrCodeModelInvocationFailed, ErrCodeDocumentReadFailed, ErrCodeDocumentWriteFailed:
		return "upstream"
	default:
		return "internal"
	}
}

// ConvertToBPMNError converts a StandardError to the workflow engine shape.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   GetRetryCount(stdErr.Code),
	}
}
