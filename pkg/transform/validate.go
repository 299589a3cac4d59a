// pkg/transform/validate.go
package transform

import (
	"github.com/revent-data/report-merger/pkg/model"
)

// ValidateReferences checks, once per run, that every column a directive
// reads exists in the source schema. A wholly missing referenced column
// means the mapping itself cannot be trusted, so this is a structural
// ConfigurationError rather than a per-row warning.
//
// The mapped source column itself is exempt: a field mapped to a column the
// extract does not carry resolves to empty per row, matching the invariant
// that an unmapped side is always-empty unless a directive overrides it.
func ValidateReferences(m *model.ColumnMapping, src model.Source, headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[model.NormalizeColumnName(h)] = true
	}

	for _, field := range m.Fields() {
		fm := m.ForField(src, field.Name)
		for _, d := range fm.Directives {
			for _, ref := range d.ReferencedColumns() {
				if !present[model.NormalizeColumnName(ref)] {
					return model.NewConfigurationError(field.Name, src,
						d.Kind.String()+" references column "+ref+" absent from the source schema")
				}
			}
		}
	}
	return nil
}
