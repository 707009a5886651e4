// Package errors provides standardized error handling for the document
// generation workflow.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeTemplateReadFailed     ErrorCode = "TEMPLATE_READ_FAILED"
	ErrCodeTemplateNoFields       ErrorCode = "TEMPLATE_NO_FIELDS"
	ErrCodeRegistryInvalid        ErrorCode = "REGISTRY_INVALID"
	ErrCodeGenerationFailed       ErrorCode = "GENERATION_FAILED"
	ErrCodeDeliveryFailed         ErrorCode = "DELIVERY_FAILED"
	ErrCodeProfileReadFailed      ErrorCode = "PROFILE_READ_FAILED"
	ErrCodeProfileWriteFailed     ErrorCode = "PROFILE_WRITE_FAILED"
	ErrCodeNormalizationDegraded  ErrorCode = "NORMALIZATION_DEGRADED"
	ErrCodeIngestUnsupportedInput ErrorCode = "INGEST_UNSUPPORTED_INPUT"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewTemplateReadFailedError creates a non-retryable template error. The
// template file is a fixed local input, retrying the same read cannot help.
func NewTemplateReadFailedError(templateFile string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateReadFailed,
		Message:   "Template file missing or unreadable",
		Details:   fmt.Sprintf("file: %s, error: %v", templateFile, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateNoFieldsError creates a non-retryable error for a template
// that declares no fillable fields.
func NewTemplateNoFieldsError(templateFile string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateNoFields,
		Message:   "Template declares no fillable fields",
		Details:   fmt.Sprintf("file: %s", templateFile),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRegistryInvalidError creates a non-retryable registry validation error.
func NewRegistryInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistryInvalid,
		Message:   "Template registry failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError creates a non-retryable document generation error.
func NewGenerationFailedError(templateID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Document generation failed",
		Details:   fmt.Sprintf("templateId: %s, error: %v", templateID, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeliveryFailedError creates a retryable delivery error.
func NewDeliveryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeliveryFailed,
		Message:   "Failed to deliver generated document",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileReadFailedError creates a retryable profile cache read error.
// Cache reads are best-effort: callers log and continue without a profile.
func NewProfileReadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileReadFailed,
		Message:   "Profile cache read failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileWriteFailedError creates a retryable profile cache write error.
// Cache writes are best-effort: a failure never blocks document delivery.
func NewProfileWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileWriteFailed,
		Message:   "Profile cache write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNormalizationDegradedError records that an answer did not match its
// expected shape and was stored raw. Non-fatal, logged only.
func NewNormalizationDegradedError(label, raw string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNormalizationDegraded,
		Message:   "Answer stored without normalization",
		Details:   fmt.Sprintf("label: %s, raw: %s", label, raw),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewIngestUnsupportedInputError creates a non-retryable error for an
// uploaded file kind the ingest collaborator cannot read.
func NewIngestUnsupportedInputError(kind string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIngestUnsupportedInput,
		Message:   "Uploaded file kind is not supported",
		Details:   fmt.Sprintf("kind: %s", kind),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
