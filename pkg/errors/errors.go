// Package errors defines the structured error taxonomy shared by the
// ingestion and recurrence engine.
//
// Errors carry a category (what subsystem failed), a code (what exactly went
// wrong), optional context values, and a user-facing suggestion. The CLI maps
// categories to process exit codes. Stack traces are captured through
// github.com/pkg/errors so failures remain debuggable after wrapping.
package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory groups errors by the subsystem that produced them.
type ErrorCategory string

const (
	CategoryFile         ErrorCategory = "file"
	CategoryParse        ErrorCategory = "parse"
	CategoryValidation   ErrorCategory = "validation"
	CategoryStore        ErrorCategory = "store"
	CategorySubscription ErrorCategory = "subscription"
	CategoryInternal     ErrorCategory = "internal"
)

// ErrorCode identifies a specific failure within a category.
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"
	CodeFileUnreadable ErrorCode = "file_unreadable"

	// Parse errors
	CodeMalformedRow  ErrorCode = "malformed_row"
	CodeInvalidFormat ErrorCode = "invalid_format"

	// Validation errors
	CodeInvalidDate     ErrorCode = "invalid_date"
	CodeMissingField    ErrorCode = "missing_field"
	CodeInvalidCriteria ErrorCode = "invalid_criteria"

	// Store errors
	CodeFetchFailed  ErrorCode = "fetch_failed"
	CodeCommitFailed ErrorCode = "commit_failed"
	CodeConnection   ErrorCode = "connection_failed"

	// Subscription errors
	CodeInvalidCycle         ErrorCode = "invalid_cycle"
	CodeIncompleteDefinition ErrorCode = "incomplete_definition"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// EngineError is the base error type for all application errors.
type EngineError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional key/value information about the error.
type Context map[string]interface{}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate process exit code for the error.
func (e *EngineError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryStore:
		return 4
	case CategorySubscription, CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext adds context information to the error.
func (e *EngineError) WithContext(key string, value interface{}) *EngineError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error.
func (e *EngineError) WithSuggestion(suggestion string) *EngineError {
	e.Suggestion = suggestion
	return e
}

// New creates a new EngineError.
func New(category ErrorCategory, code ErrorCode, message string) *EngineError {
	return &EngineError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with EngineError context.
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *EngineError {
	if err == nil {
		return nil
	}

	return &EngineError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// FileError creates a file-related error.
func FileError(code ErrorCode, path string, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// ParseError creates a CSV parsing error.
func ParseError(code ErrorCode, row int, field, value string, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeMalformedRow:
		message = fmt.Sprintf("malformed row %d: expected at least 7 fields", row)
		suggestion = "ensure every row has title, amount, currency, type, category, notes and timestamp columns"
	case CodeInvalidFormat:
		message = fmt.Sprintf("invalid format at row %d, field '%s': '%s'", row, field, value)
		suggestion = "check the data format and ensure it matches the expected structure"
	default:
		message = fmt.Sprintf("parse error at row %d", row)
		suggestion = "check the file format and data integrity"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryParse, code, message)
	} else {
		result = New(CategoryParse, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("row", row).
		WithContext("field", field).
		WithContext("value", value)
}

// ValidationError creates a validation-related error.
func ValidationError(code ErrorCode, field string, value interface{}, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidDate:
		message = fmt.Sprintf("invalid date in field '%s': %v", field, value)
		suggestion = "use an ISO-8601 timestamp or YYYY-MM-DD date"
	case CodeMissingField:
		message = fmt.Sprintf("required field '%s' is missing or empty", field)
		suggestion = "provide a value for this required field"
	case CodeInvalidCriteria:
		message = fmt.Sprintf("invalid duplicate criteria in '%s': %v", field, value)
		suggestion = "enable at least one comparison axis and use a non-negative time threshold"
	default:
		message = fmt.Sprintf("validation error in field '%s': %v", field, value)
		suggestion = "check the field value and format"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryValidation, code, message)
	} else {
		result = New(CategoryValidation, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("field", field).
		WithContext("value", value)
}

// StoreError creates a store-related error.
func StoreError(code ErrorCode, operation string, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeFetchFailed:
		message = fmt.Sprintf("store read failed: %s", operation)
		suggestion = "verify the store is reachable and the schema is initialized"
	case CodeCommitFailed:
		message = fmt.Sprintf("store write failed: %s", operation)
		suggestion = "no partial data was written; resolve the store issue and retry the whole batch"
	case CodeConnection:
		message = fmt.Sprintf("store connection failed during %s", operation)
		suggestion = "check the database URL and that the server is running"
	default:
		message = fmt.Sprintf("store error during %s", operation)
		suggestion = "check the store and try again"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryStore, code, message)
	} else {
		result = New(CategoryStore, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// SubscriptionError creates a subscription-related error.
func SubscriptionError(code ErrorCode, subscriptionID string, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidCycle:
		message = fmt.Sprintf("subscription %s has an invalid cycle definition", subscriptionID)
		suggestion = "cycle unit must be Day, Week, Month or Year with a positive count"
	case CodeIncompleteDefinition:
		message = fmt.Sprintf("subscription %s is missing required fields", subscriptionID)
		suggestion = "set title, amount, type, category, start date and cycle before generating"
	default:
		message = fmt.Sprintf("subscription error for %s", subscriptionID)
		suggestion = "review the subscription definition"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategorySubscription, code, message)
	} else {
		result = New(CategorySubscription, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("subscription_id", subscriptionID)
}

// InternalError creates an internal error.
func InternalError(code ErrorCode, operation string, err error) *EngineError {
	message := fmt.Sprintf("unexpected error during %s", operation)
	suggestion := "this is likely a bug - please report it with the error details"

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryInternal, code, message)
	} else {
		result = New(CategoryInternal, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// IsEngineError checks if an error is an EngineError.
func IsEngineError(err error) bool {
	_, ok := err.(*EngineError)
	return ok
}

// AsEngineError extracts an EngineError from an error chain.
func AsEngineError(err error) (*EngineError, bool) {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr, true
	}
	return nil, false
}

// FormatForUser renders an error chain as a single user-facing message.
func FormatForUser(err error) string {
	if err == nil {
		return ""
	}

	if engineErr, ok := AsEngineError(err); ok {
		var b strings.Builder
		b.WriteString(engineErr.Message)
		if engineErr.Suggestion != "" {
			b.WriteString("\n  suggestion: ")
			b.WriteString(engineErr.Suggestion)
		}
		if engineErr.Cause != nil {
			b.WriteString("\n  cause: ")
			b.WriteString(engineErr.Cause.Error())
		}
		return b.String()
	}

	return err.Error()
}
