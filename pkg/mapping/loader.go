// pkg/mapping/loader.go
package mapping

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/revent-data/report-merger/pkg/model"
	"github.com/revent-data/report-merger/pkg/rules"
)

// RelationRow is one row of the column relations sheet, in sheet order
type RelationRow struct {
	CanonicalField string
	NoonColumn     string
	NoonRemarks    string
	AmazonColumn   string
	AmazonRemarks  string
}

// Loader builds the immutable ColumnMapping for a run from relation rows
type Loader struct {
	parser *rules.Parser
	logger *zap.Logger
}

// NewLoader creates a new mapping loader
func NewLoader(parser *rules.Parser, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		parser: parser,
		logger: logger.Named("mapping"),
	}
}

// Load converts ordered relation rows into a validated ColumnMapping.
// Canonical field ordinals follow first-appearance order. It fails with a
// ConfigurationError when a canonical field name is blank, or when the same
// name appears twice with conflicting source-column assignments.
func (l *Loader) Load(relationRows []RelationRow) (*model.ColumnMapping, error) {
	var fields []model.CanonicalField
	bySource := map[model.Source]map[string]model.FieldMapping{
		model.SourceAmazon: make(map[string]model.FieldMapping),
		model.SourceNoon:   make(map[string]model.FieldMapping),
	}
	seen := make(map[string]int) // field name -> ordinal

	for i, row := range relationRows {
		name := strings.TrimSpace(row.CanonicalField)
		if name == "" {
			return nil, model.NewConfigurationError("", "",
				"blank canonical field name in relations row "+strconv.Itoa(i+1))
		}

		if _, dup := seen[name]; !dup {
			seen[name] = len(fields)
			fields = append(fields, model.CanonicalField{Name: name, Ordinal: len(fields)})
		}

		if err := l.assign(bySource, name, model.SourceNoon, row.NoonColumn, row.NoonRemarks); err != nil {
			return nil, err
		}
		if err := l.assign(bySource, name, model.SourceAmazon, row.AmazonColumn, row.AmazonRemarks); err != nil {
			return nil, err
		}
	}

	l.logger.Info("Loaded column mapping",
		zap.Int("fields", len(fields)),
		zap.Int("relationRows", len(relationRows)))

	return model.NewColumnMapping(fields, bySource), nil
}

// assign records one source's column and directives for a canonical field.
// A repeated field name with an identical source-column assignment merges;
// a conflicting assignment is a configuration error.
func (l *Loader) assign(
	bySource map[model.Source]map[string]model.FieldMapping,
	field string,
	src model.Source,
	column, remarks string,
) error {
	column = strings.TrimSpace(column)
	directives := l.parser.Parse(remarks)

	existing, exists := bySource[src][field]
	if !exists {
		if column == "" && len(directives) == 0 {
			// Unmapped side: resolves to empty unless a later row fills it in
			return nil
		}
		bySource[src][field] = model.FieldMapping{
			SourceColumn: column,
			Directives:   directives,
		}
		l.logDirectives(field, src, column, directives)
		return nil
	}

	if column != "" && existing.SourceColumn != "" && !strings.EqualFold(column, existing.SourceColumn) {
		return model.NewConfigurationError(field, src,
			"conflicting source column assignments: "+existing.SourceColumn+" vs "+column)
	}

	if existing.SourceColumn == "" {
		existing.SourceColumn = column
	}
	existing.Directives = append(existing.Directives, directives...)
	bySource[src][field] = existing
	return nil
}

func (l *Loader) logDirectives(field string, src model.Source, column string, directives []model.Directive) {
	if len(directives) == 0 {
		return
	}
	names := make([]string, 0, len(directives))
	for _, d := range directives {
		names = append(names, d.String())
	}
	l.logger.Debug("Parsed field directives",
		zap.String("field", field),
		zap.String("source", string(src)),
		zap.String("column", column),
		zap.Strings("directives", names))
}
