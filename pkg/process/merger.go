// pkg/process/merger.go
package process

import (
	"github.com/revent-data/report-merger/pkg/model"
)

// SourceColumnName is the trailing provenance column of the merged table
const SourceColumnName = "Source"

// Merge concatenates canonical rows from both sources: all Amazon rows in
// order, then all Noon rows in order. Merge means schema unification plus
// concatenation; there is no cross-source row matching or deduplication.
func Merge(amazonRows, noonRows []model.CanonicalRow) []model.CanonicalRow {
	merged := make([]model.CanonicalRow, 0, len(amazonRows)+len(noonRows))
	merged = append(merged, amazonRows...)
	merged = append(merged, noonRows...)
	return merged
}

// OutputColumns returns the merged table's header: canonical field names in
// ordinal order plus the trailing provenance column
func OutputColumns(m *model.ColumnMapping) []string {
	cols := m.FieldNames()
	return append(cols, SourceColumnName)
}
