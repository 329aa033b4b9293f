package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCategory represents the kind of failure raised by the optimizer
type ErrorCategory string

const (
	// Structural errors that stop a run before it starts
	ErrorCategoryFatal         ErrorCategory = "FATAL"
	ErrorCategoryCatalog       ErrorCategory = "CATALOG"
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"
	ErrorCategoryState         ErrorCategory = "STATE"

	// Input or output problems the caller can fix and retry
	ErrorCategoryValidation ErrorCategory = "VALIDATION"
	ErrorCategoryExport     ErrorCategory = "EXPORT"
)

// OptimizerError represents a categorized error with context
type OptimizerError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *OptimizerError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *OptimizerError) Unwrap() error {
	return e.Underlying
}

// IsFatal returns whether this error should abort the run
func (e *OptimizerError) IsFatal() bool {
	switch e.Category {
	case ErrorCategoryFatal, ErrorCategoryCatalog, ErrorCategoryConfiguration, ErrorCategoryState:
		return true
	default:
		return false
	}
}

// NewOptimizerError creates a new categorized error
func NewOptimizerError(category ErrorCategory, component, operation, message string) *OptimizerError {
	return &OptimizerError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with optimizer error context
func WrapError(err error, category ErrorCategory, component, operation string) *OptimizerError {
	if err == nil {
		return nil
	}

	return &OptimizerError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *OptimizerError) WithContext(key string, value interface{}) *OptimizerError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// ContextString renders the context map in a stable key order
func (e *OptimizerError) ContextString() string {
	if len(e.Context) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Context[k]))
	}
	return strings.Join(parts, " ")
}

// AsOptimizerError extracts an *OptimizerError from an error chain
func AsOptimizerError(err error) (*OptimizerError, bool) {
	var optErr *OptimizerError
	if stderrors.As(err, &optErr) {
		return optErr, true
	}
	return nil, false
}

// IsCategory reports whether err carries an OptimizerError of the given category
func IsCategory(err error, category ErrorCategory) bool {
	optErr, ok := AsOptimizerError(err)
	return ok && optErr.Category == category
}

// IsCatalogExhausted reports whether err signals that a required component
// family (frames or lenses) had no eligible records
func IsCatalogExhausted(err error) bool {
	return IsCategory(err, ErrorCategoryCatalog)
}

// Common error constructors
func NewCatalogError(component, operation, message string) *OptimizerError {
	return NewOptimizerError(ErrorCategoryCatalog, component, operation, message)
}

func NewValidationError(component, operation, message string) *OptimizerError {
	return NewOptimizerError(ErrorCategoryValidation, component, operation, message)
}

func NewConfigurationError(component, operation, message string) *OptimizerError {
	return NewOptimizerError(ErrorCategoryConfiguration, component, operation, message)
}

func NewStateError(component, operation, message string) *OptimizerError {
	return NewOptimizerError(ErrorCategoryState, component, operation, message)
}

func NewExportError(component, operation string, err error) *OptimizerError {
	return WrapError(err, ErrorCategoryExport, component, operation)
}

func NewFatalError(component, operation, message string) *OptimizerError {
	return NewOptimizerError(ErrorCategoryFatal, component, operation, message)
}

// ErrorStats tracks error statistics for a CLI session
type ErrorStats struct {
	TotalErrors      int
	ErrorsByCategory map[ErrorCategory]int
	RecentErrors     []*OptimizerError
	MaxRecentErrors  int
}

// NewErrorStats creates a new error statistics tracker
func NewErrorStats(maxRecentErrors int) *ErrorStats {
	return &ErrorStats{
		ErrorsByCategory: make(map[ErrorCategory]int),
		RecentErrors:     make([]*OptimizerError, 0, maxRecentErrors),
		MaxRecentErrors:  maxRecentErrors,
	}
}

// RecordError records an error in the statistics. Errors that are not
// OptimizerErrors are counted as FATAL.
func (es *ErrorStats) RecordError(err error) {
	if err == nil {
		return
	}
	optErr, ok := AsOptimizerError(err)
	if !ok {
		optErr = WrapError(err, ErrorCategoryFatal, "unknown", "unknown")
	}

	es.TotalErrors++
	es.ErrorsByCategory[optErr.Category]++

	es.RecentErrors = append(es.RecentErrors, optErr)
	if len(es.RecentErrors) > es.MaxRecentErrors {
		es.RecentErrors = es.RecentErrors[1:]
	}
}

// GetErrorRate returns the share of errors in a specific category
func (es *ErrorStats) GetErrorRate(category ErrorCategory) float64 {
	if es.TotalErrors == 0 {
		return 0.0
	}
	return float64(es.ErrorsByCategory[category]) / float64(es.TotalErrors)
}

// HasRecentErrors checks if there have been at least count recent errors of a category
func (es *ErrorStats) HasRecentErrors(category ErrorCategory, count int) bool {
	recentCount := 0
	for _, err := range es.RecentErrors {
		if err.Category == category {
			recentCount++
		}
	}
	return recentCount >= count
}
