// pkg/model/mapping.go
package model

import "strings"

// Source identifies which sales extract a value or row originated from
type Source string

const (
	SourceAmazon Source = "AMAZON"
	SourceNoon   Source = "NOON"
)

// Sources lists the known extracts in output order (Amazon first, then Noon)
func Sources() []Source {
	return []Source{SourceAmazon, SourceNoon}
}

// CanonicalField is one column of the unified output schema
type CanonicalField struct {
	Name    string // Unique field name from the relations sheet
	Ordinal int    // Position fixing output column order (first appearance)
}

// FieldMapping describes how one canonical field is computed for one source
type FieldMapping struct {
	SourceColumn string      // Raw column supplying the working value ("" if unmapped)
	Directives   []Directive // Applied left-to-right over the working value
}

// ColumnMapping holds, per canonical field, the source column and directive
// chain for each source. Built once per run and immutable thereafter, so it
// is safe to share across concurrent row processing.
type ColumnMapping struct {
	fields   []CanonicalField
	bySource map[Source]map[string]FieldMapping
}

// NewColumnMapping assembles an immutable mapping from ordered fields and
// per-source field mappings. Callers must not mutate the arguments afterwards.
func NewColumnMapping(fields []CanonicalField, bySource map[Source]map[string]FieldMapping) *ColumnMapping {
	return &ColumnMapping{
		fields:   fields,
		bySource: bySource,
	}
}

// Fields returns the canonical fields in ordinal order
func (m *ColumnMapping) Fields() []CanonicalField {
	return m.fields
}

// FieldNames returns the canonical field names in ordinal order
func (m *ColumnMapping) FieldNames() []string {
	names := make([]string, 0, len(m.fields))
	for _, f := range m.fields {
		names = append(names, f.Name)
	}
	return names
}

// ForField returns the mapping of one canonical field for one source.
// A field with neither a source column nor directives resolves to the
// zero FieldMapping, which yields an empty value.
func (m *ColumnMapping) ForField(src Source, field string) FieldMapping {
	if perField, ok := m.bySource[src]; ok {
		return perField[field]
	}
	return FieldMapping{}
}

// NormalizeColumnName lowercases and trims a raw column name so lookups
// tolerate the header casing differences between extracts
func NormalizeColumnName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// EqualFoldValue reports case-insensitive equality of two trimmed cell values
func EqualFoldValue(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
