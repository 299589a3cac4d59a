// pkg/transform/transformer.go
package transform

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/revent-data/report-merger/pkg/model"
)

// Transformer computes canonical values by applying a field's directive
// chain over a working value seeded from the mapped source column. It holds
// no per-row state and is safe to share across concurrent row processing.
type Transformer struct {
	logger *zap.Logger
}

// NewTransformer creates a new row transformer
func NewTransformer(logger *zap.Logger) *Transformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{logger: logger.Named("transform")}
}

// Transform computes one canonical value for one row. The working value is
// seeded from the mapped source column (empty if unmapped or absent) and the
// directives apply left-to-right. Data-quality failures resolve to empty or
// zero values and record a warning; they never abort the row.
func (t *Transformer) Transform(
	row model.SourceRow,
	field string,
	fm model.FieldMapping,
	src model.Source,
	rowIndex int,
	diag *Diagnostics,
) string {
	working := ""
	if fm.SourceColumn != "" {
		if v, ok := row.Value(fm.SourceColumn); ok {
			working = strings.TrimSpace(v)
		}
	}

	for _, d := range fm.Directives {
		switch d.Kind {
		case model.DirectiveExtractDate:
			working = t.extractDate(working, d.Component, field, src, rowIndex, diag)

		case model.DirectiveMarkNA:
			// Unconditional, even when the source column is absent
			working = "NA"

		case model.DirectiveMultiply:
			working = t.multiply(working, row, d.OtherColumn, field, src, rowIndex, diag)

		case model.DirectiveConditional:
			raw, _ := row.Value(d.ConditionField)
			if model.EqualFoldValue(raw, d.ConditionValue) {
				working = d.ThenValue
			}
			// Non-matching rows keep the prior working value

		default:
			t.logger.Warn("Skipping directive of unknown kind",
				zap.String("field", field),
				zap.String("directive", d.String()))
		}
	}

	return working
}

// extractDate parses the working value as a date and returns the requested
// component as a decimal string. Total parse failure yields empty plus a
// recorded warning.
func (t *Transformer) extractDate(
	working string,
	component model.DateComponent,
	field string,
	src model.Source,
	rowIndex int,
	diag *Diagnostics,
) string {
	if working == "" {
		return ""
	}

	parsed, err := ParseDate(working)
	if err != nil {
		diag.Warn(src, rowIndex, field, working,
			"unparseable date for "+component.String()+" extraction")
		return ""
	}
	return strconv.Itoa(DateComponent(parsed, component))
}

// multiply coerces the working value and the referenced column to numbers
// and returns their product. A non-numeric operand soft-fails to 0 with a
// warning. Integral products render without a trailing ".0".
func (t *Transformer) multiply(
	working string,
	row model.SourceRow,
	otherColumn string,
	field string,
	src model.Source,
	rowIndex int,
	diag *Diagnostics,
) string {
	other, _ := row.Value(otherColumn)

	left, lok := coerceNumeric(working)
	if !lok {
		diag.Warn(src, rowIndex, field, working,
			"non-numeric multiply operand")
		return formatNumeric(0)
	}

	right, rok := coerceNumeric(other)
	if !rok {
		diag.Warn(src, rowIndex, field, other,
			"non-numeric multiply operand in column "+otherColumn)
		return formatNumeric(0)
	}

	return formatNumeric(left * right)
}

// coerceNumeric parses a raw cell as a float, tolerating surrounding
// whitespace and thousands separators
func coerceNumeric(value string) (float64, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, false
	}
	v = strings.ReplaceAll(v, ",", "")

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// formatNumeric renders a product the way the summary sheet expects:
// integral values without a decimal point, others with full precision
func formatNumeric(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
