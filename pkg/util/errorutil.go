package util

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// ValidationError carries field-level failures detected before any network
// call is made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, message := range e.Fields {
		parts = append(parts, field+": "+message)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

// NewValidationError wraps a field to message mapping.
func NewValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

// TransportError marks a network-level failure with no tracker response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError carries the tracker's structured error body.
type RemoteError struct {
	StatusCode    int
	ErrorMessages []string
	FieldErrors   map[string]string
}

func (e *RemoteError) Error() string {
	return e.Message()
}

// Message flattens the tracker's errorMessages list and errors map into a
// single human-readable string.
func (e *RemoteError) Message() string {
	parts := make([]string, 0, len(e.ErrorMessages)+len(e.FieldErrors))
	parts = append(parts, e.ErrorMessages...)
	fieldParts := make([]string, 0, len(e.FieldErrors))
	for field, message := range e.FieldErrors {
		fieldParts = append(fieldParts, field+": "+message)
	}
	sort.Strings(fieldParts)
	parts = append(parts, fieldParts...)
	if len(parts) == 0 {
		return fmt.Sprintf("tracker request failed with status %d", e.StatusCode)
	}
	return strings.Join(parts, ", ")
}

// NewNotFound builds a not-found DomainError.
func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts any error into a DomainError for the HTTP layer.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		details := make(map[string]any, len(validationErr.Fields))
		for field, message := range validationErr.Fields {
			details[field] = message
		}
		return &DomainError{
			Code:       "VALIDATION_FAILED",
			Message:    validationErr.Error(),
			HTTPStatus: http.StatusBadRequest,
			Details:    details,
		}
	}
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		status := remoteErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return &DomainError{
			Code:       "TRACKER_ERROR",
			Message:    remoteErr.Message(),
			HTTPStatus: status,
			Err:        err,
		}
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return &DomainError{
			Code:       "TRACKER_UNREACHABLE",
			Message:    transportErr.Error(),
			HTTPStatus: http.StatusBadGateway,
			Err:        err,
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
