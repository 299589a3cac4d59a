// pkg/model/errors.go
package model

import (
	"fmt"
	"strings"
	"time"
)

// ConfigurationError reports a structural problem in the column relations
// configuration: a blank or conflicting canonical field, or a directive
// referencing a column the source schema does not have. Any configuration
// error aborts the run before a single row is processed.
type ConfigurationError struct {
	Field  string // Canonical field the problem belongs to ("" when row-level)
	Source Source // Source the problem belongs to ("" when source-independent)
	Reason string
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration error")
	if e.Field != "" {
		sb.WriteString(fmt.Sprintf(" for field %q", e.Field))
	}
	if e.Source != "" {
		sb.WriteString(fmt.Sprintf(" (source %s)", e.Source))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	return sb.String()
}

// NewConfigurationError creates a configuration error naming the offending
// canonical field and source precisely
func NewConfigurationError(field string, src Source, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Source: src, Reason: reason}
}

// RowWarning records a recovered data-quality problem: the field resolved to
// an empty or zero value for that row, and processing continued. Warnings
// are data returned to the caller, not control flow.
type RowWarning struct {
	Field       string
	Source      Source
	RowIndex    int
	SourceValue string // Offending raw value, kept for the audit trail
	Message     string
	Timestamp   time.Time
}

// String returns a formatted warning message
func (w RowWarning) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s row %d] ", w.Source, w.RowIndex))
	sb.WriteString(fmt.Sprintf("field %q: %s", w.Field, w.Message))
	if w.SourceValue != "" {
		sb.WriteString(fmt.Sprintf(" (value: %q)", w.SourceValue))
	}
	return sb.String()
}
