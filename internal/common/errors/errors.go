// Package errors provides the structured error taxonomy shared by the scoring
// service, its HTTP and workflow transports and the offline tools.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input validation
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidField ErrorCode = "INVALID_FIELD"
	ErrCodeParseError   ErrorCode = "PARSE_ERROR"

	// Scoring
	ErrCodeScoringFailed   ErrorCode = "SCORING_FAILED"
	ErrCodeModelLoadFailed ErrorCode = "MODEL_LOAD_FAILED"

	// Presentation client to inference service
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"

	// Offline pipeline and stores
	ErrCodeDatasetReadFailed        ErrorCode = "DATASET_READ_FAILED"
	ErrCodeDatasetWriteFailed       ErrorCode = "DATASET_WRITE_FAILED"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeProfileNotFound          ErrorCode = "PROFILE_NOT_FOUND"
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

// Field returns the offending field name for validation errors, or "".
func (e *StandardError) Field() string {
	if e.Metadata == nil {
		return ""
	}
	field, _ := e.Metadata["field"].(string)
	return field
}

// IsValidation reports whether the error came from request validation.
func (e *StandardError) IsValidation() bool {
	return e.Code == ErrCodeMissingField || e.Code == ErrCodeInvalidField || e.Code == ErrCodeParseError
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for Camunda job variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewMissingFieldError reports the first required feature absent from a request.
// The message format "Missing <field>" is part of the public API.
func NewMissingFieldError(field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingField,
		Message:   "Missing " + field,
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFieldError reports a present feature whose value is not usable.
func NewInvalidFieldError(field, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidField,
		Message:   fmt.Sprintf("Invalid %s: %s", field, reason),
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError wraps a malformed request or job payload.
func NewParseError(message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeParseError,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScoringFailedError is returned when an estimator produces no usable probability.
func NewScoringFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoringFailed,
		Message:   "Scoring failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelLoadFailedError describes why the classifier artifact was not used.
// It is logged, never returned to callers.
func NewModelLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelLoadFailed,
		Message:   "Classifier artifact could not be loaded",
		Details:   fmt.Sprintf("path: %s, error: %v", path, err),
		Retryable: false,
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamUnavailableError wraps a transport failure between the
// presentation client and the inference service.
func NewUpstreamUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamUnavailable,
		Message:   "API request failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatasetReadFailedError is returned by dataset loaders.
func NewDatasetReadFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetReadFailed,
		Message:   "Dataset read failed",
		Details:   fmt.Sprintf("source: %s, error: %v", source, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatasetWriteFailedError is returned by dataset writers.
func NewDatasetWriteFailedError(target string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetWriteFailed,
		Message:   "Dataset write failed",
		Details:   fmt.Sprintf("target: %s, error: %v", target, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileNotFoundError is returned by sample profile stores.
func NewProfileNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileNotFound,
		Message:   "Sample profile not found: " + id,
		Details:   fmt.Sprintf("profileId: %s", id),
		Retryable: false,
		Metadata:  map[string]interface{}{"profileId": id},
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatasetReadFailed,
		ErrCodeDatasetWriteFailed,
		ErrCodeDatabaseConnectionFailed:
		return 3
	default:
		return 0 // validation and scoring outcomes are deterministic
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
// BPMN codes are identical to the internal codes.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	if field := stdErr.Field(); field != "" {
		vars["errorField"] = field
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "FIELD") || strings.Contains(codeStr, "PARSE"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SCORING") || strings.Contains(codeStr, "MODEL"):
		return "SCORING"
	case strings.Contains(codeStr, "DATASET") || strings.Contains(codeStr, "DATABASE"):
		return "DATA"
	case strings.Contains(codeStr, "UPSTREAM"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "PROFILE"):
		return "PROFILES"
	default:
		return "OTHER"
	}
}
