package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// AppError là custom error type cho application
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the wrapped error to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrUnauthenticated() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_UNAUTHENTICATED,
		Message:  "Authentication required",
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

func ErrRateLimited(retryAfter time.Duration) AppError {
	return AppError{
		HTTPCode: http.StatusTooManyRequests,
		Code:     ErrorCode_RATE_LIMITED,
		Message:  "Too many uploads, please wait before submitting again",
	}.WithDetail("retry_after", retryAfter.Round(time.Second).String())
}

// Authentication Errors
func ErrInvalidToken() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_INVALID_TOKEN,
		Message:  "Invalid authentication token",
	}
}

func ErrInvalidSignature() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_BAD_SIGNATURE,
		Message:  "Invalid webhook signature",
	}
}

// Ingestion Errors
func ErrInputTooShort(minLength int) AppError {
	return AppError{
		Raw:      entities.ErrInputTooShort,
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INGEST_INPUT_TOO_SHORT,
		Message:  fmt.Sprintf("Input is too short, provide at least %d characters", minLength),
	}
}

func ErrTranscriptionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_INGEST_TRANSCRIPTION_FAILED,
		Message:  "Audio transcription failed",
	}.WithDetail("suggestion", "submit the transcript as text instead")
}

func ErrProcessingFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INGEST_PROCESSING_FAILED,
		Message:  "Processing failed",
	}
}

func ErrUploadFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INGEST_UPLOAD_FAILED,
		Message:  "Failed to store uploaded audio",
	}
}

// Review / merge Errors
func ErrAlreadyReviewed(suggestionID string) AppError {
	return AppError{
		Raw:      entities.ErrAlreadyReviewed,
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_SUGGESTION_ALREADY_REVIEWED,
		Message:  "Suggestion has already been reviewed",
	}.WithDetail("suggestion_id", suggestionID)
}

func ErrInvalidSuggestion(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_SUGGESTION_INVALID,
		Message:  "Suggestion cannot be applied",
	}
}

func ErrInvalidMerge(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_MERGE_INVALID,
		Message:  "Invalid merge request",
	}
}

// Integration Errors
func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_STORAGE_FAILED,
		Message:  fmt.Sprintf("Storage operation failed: %s", operation),
	}
}

func ErrCacheFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_CACHE_FAILED,
		Message:  fmt.Sprintf("Cache operation failed: %s", operation),
	}
}

// FromDomain maps a domain sentinel error onto the matching AppError.
// Unknown errors become ErrInternal.
func FromDomain(err error) AppError {
	var appErr AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}
	switch {
	case stdErrors.Is(err, entities.ErrInputTooShort):
		return ErrInputTooShort(entities.MinInputLength)
	case stdErrors.Is(err, entities.ErrTranscriptionFailed):
		return ErrTranscriptionFailed(err)
	case stdErrors.Is(err, entities.ErrRateLimited):
		return ErrRateLimited(0)
	case stdErrors.Is(err, entities.ErrInvalidRequest):
		appErr = ErrInvalidArgument(err.Error())
		appErr.Raw = err
		return appErr
	case stdErrors.Is(err, entities.ErrAlreadyReviewed):
		appErr = ErrAlreadyReviewed("")
		appErr.Raw = err
		return appErr
	case stdErrors.Is(err, entities.ErrNotFound):
		appErr = ErrNotFound("resource")
		appErr.Raw = err
		return appErr
	case stdErrors.Is(err, entities.ErrInvalidMerge):
		return ErrInvalidMerge(err)
	case stdErrors.Is(err, entities.ErrInvalidSuggestion):
		return ErrInvalidSuggestion(err)
	}
	return ErrInternal(err)
}
