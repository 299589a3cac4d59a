// pkg/model/row.go
package model

// SourceRow is a read-only snapshot of one input row: raw column name to
// raw cell value. Lookups go through Value so header casing never matters.
type SourceRow map[string]string

// Value returns the raw cell for a column, matching case-insensitively.
// Returns "" and false when the column is absent from the row.
func (r SourceRow) Value(column string) (string, bool) {
	if v, ok := r[column]; ok {
		return v, true
	}
	normalized := NormalizeColumnName(column)
	for k, v := range r {
		if NormalizeColumnName(k) == normalized {
			return v, true
		}
	}
	return "", false
}

// CanonicalRow is one computed output row: canonical field name to value,
// stamped with the source it came from and its original row index.
// Created once by the source processor and never mutated.
type CanonicalRow struct {
	Values   map[string]string
	Source   Source
	RowIndex int
}

// Value returns the computed value for a canonical field ("" if unset)
func (r CanonicalRow) Value(field string) string {
	return r.Values[field]
}
