// Package errors provides severity-aware error types for the estimation engine.
package errors

import "fmt"

// Severity indicates error impact level.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// EngineError is a structured error with context.
type EngineError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Severity    Severity `json:"severity"`
	Field       string   `json:"field,omitempty"`
	Recoverable bool     `json:"recoverable"`
}

func (e *EngineError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s (field: %s)", e.Severity, e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Code, e.Message)
}

// Error codes
const (
	ErrCodeInvalidAsset    = "INVALID_ASSET"
	ErrCodeUnknownLocation = "UNKNOWN_LOCATION"
	ErrCodeProviderFailed  = "PROVIDER_FAILED"
	ErrCodeNotTrained      = "MODEL_NOT_TRAINED"
	ErrCodeBadDataset      = "BAD_DATASET"
)

// ErrNotTrained is returned when prediction is requested before the model
// has been trained or loaded. Callers should fall back to the rule-based
// maintenance component.
var ErrNotTrained = &EngineError{
	Code:        ErrCodeNotTrained,
	Message:     "regression model must be trained or loaded before prediction",
	Severity:    SeverityError,
	Recoverable: true,
}

// NewInvalidAssetError creates a validation error for a malformed asset field.
func NewInvalidAssetError(field, msg string) *EngineError {
	return &EngineError{
		Code:        ErrCodeInvalidAsset,
		Message:     msg,
		Severity:    SeverityError,
		Field:       field,
		Recoverable: false,
	}
}

// NewBadDatasetError creates an error for unusable training data.
func NewBadDatasetError(msg string) *EngineError {
	return &EngineError{
		Code:        ErrCodeBadDataset,
		Message:     msg,
		Severity:    SeverityError,
		Recoverable: false,
	}
}
