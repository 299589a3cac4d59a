// pkg/process/processor.go
package process

import (
	"go.uber.org/zap"

	"github.com/revent-data/report-merger/pkg/model"
	"github.com/revent-data/report-merger/pkg/transform"
)

// SourceProcessor applies the row transformer across all rows and canonical
// fields of one source, producing provenance-tagged canonical rows
type SourceProcessor struct {
	transformer *transform.Transformer
	logger      *zap.Logger

	// onRow, when set, is called after each processed row (progress reporting)
	onRow func(index int)
}

// NewSourceProcessor creates a new source processor
func NewSourceProcessor(transformer *transform.Transformer, logger *zap.Logger) *SourceProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SourceProcessor{
		transformer: transformer,
		logger:      logger.Named("process"),
	}
}

// WithRowCallback sets a callback invoked once per processed row
func (p *SourceProcessor) WithRowCallback(fn func(index int)) *SourceProcessor {
	p.onRow = fn
	return p
}

// Process transforms every row of one source into a canonical row stamped
// with the source tag and original row index. Rows are independent: a bad
// row is skipped and recorded, never propagated; output order matches input
// order.
func (p *SourceProcessor) Process(
	rows []model.SourceRow,
	m *model.ColumnMapping,
	src model.Source,
	diag *transform.Diagnostics,
) []model.CanonicalRow {
	fields := m.Fields()
	out := make([]model.CanonicalRow, 0, len(rows))

	for i, row := range rows {
		if row == nil {
			diag.Warn(src, i, "", "", "empty source row skipped")
			if p.onRow != nil {
				p.onRow(i)
			}
			continue
		}

		values := make(map[string]string, len(fields))
		for _, field := range fields {
			fm := m.ForField(src, field.Name)
			values[field.Name] = p.transformer.Transform(row, field.Name, fm, src, i, diag)
		}

		out = append(out, model.CanonicalRow{
			Values:   values,
			Source:   src,
			RowIndex: i,
		})

		if p.onRow != nil {
			p.onRow(i)
		}
	}

	p.logger.Info("Processed source rows",
		zap.String("source", string(src)),
		zap.Int("input", len(rows)),
		zap.Int("output", len(out)),
		zap.Int("warnings", diag.Count(src)))

	return out
}
