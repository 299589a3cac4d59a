// pkg/model/directive.go
package model

import "fmt"

// DirectiveKind identifies the transformation a directive performs
type DirectiveKind int

const (
	// DirectiveExtractDate pulls a single component out of a date value
	DirectiveExtractDate DirectiveKind = iota
	// DirectiveMarkNA replaces the value with the literal "NA"
	DirectiveMarkNA
	// DirectiveMultiply multiplies the value with another column of the same row
	DirectiveMultiply
	// DirectiveConditional substitutes a value when another column matches a condition
	DirectiveConditional
)

// String returns a string representation of the directive kind
func (k DirectiveKind) String() string {
	switch k {
	case DirectiveExtractDate:
		return "ExtractDateComponent"
	case DirectiveMarkNA:
		return "MarkAsNA"
	case DirectiveMultiply:
		return "Multiply"
	case DirectiveConditional:
		return "ConditionalRule"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// DateComponent selects which part of a date an extract directive returns
type DateComponent int

const (
	ComponentDay DateComponent = iota
	ComponentMonth
	ComponentYear
)

// String returns a string representation of the date component
func (dc DateComponent) String() string {
	switch dc {
	case ComponentDay:
		return "day"
	case ComponentMonth:
		return "month"
	case ComponentYear:
		return "year"
	default:
		return fmt.Sprintf("Unknown(%d)", dc)
	}
}

// Directive is one atomic transformation step in a field's directive chain.
// Kind selects the variant; only the fields belonging to that variant are set.
// Directives are parsed once at load time and never re-interpreted per row.
type Directive struct {
	Kind DirectiveKind

	// ExtractDateComponent
	Component DateComponent

	// Multiply: raw column of the same row supplying the second operand
	OtherColumn string

	// ConditionalRule
	ConditionField string
	ConditionValue string
	ThenValue      string
}

// String returns a formatted description of the directive
func (d Directive) String() string {
	switch d.Kind {
	case DirectiveExtractDate:
		return fmt.Sprintf("ExtractDateComponent(%s)", d.Component)
	case DirectiveMultiply:
		return fmt.Sprintf("Multiply(%s)", d.OtherColumn)
	case DirectiveConditional:
		return fmt.Sprintf("ConditionalRule(%s=%s -> %s)", d.ConditionField, d.ConditionValue, d.ThenValue)
	default:
		return d.Kind.String()
	}
}

// ReferencedColumns returns the raw columns the directive reads beyond the
// mapped source column. Used for the structural check before processing.
func (d Directive) ReferencedColumns() []string {
	switch d.Kind {
	case DirectiveMultiply:
		return []string{d.OtherColumn}
	case DirectiveConditional:
		return []string{d.ConditionField}
	default:
		return nil
	}
}
