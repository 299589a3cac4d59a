// pkg/transform/diagnostics.go
package transform

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/revent-data/report-merger/pkg/model"
)

// Diagnostics collects row warnings for a run. It is threaded explicitly
// through the transformer and processors and returned to the caller rather
// than living in a global. The mutex makes it safe when the two sources are
// processed concurrently; warnings are keyed by (source, row index) so
// interleaved recording cannot mix up diagnostics.
type Diagnostics struct {
	mu       sync.Mutex
	warnings []model.RowWarning
	counts   map[model.Source]int
	logger   *zap.Logger
}

// NewDiagnostics creates an empty diagnostics sink
func NewDiagnostics(logger *zap.Logger) *Diagnostics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Diagnostics{
		counts: make(map[model.Source]int),
		logger: logger.Named("diagnostics"),
	}
}

// Warn records one recovered data-quality problem
func (d *Diagnostics) Warn(src model.Source, rowIndex int, field, sourceValue, message string) {
	w := model.RowWarning{
		Field:       field,
		Source:      src,
		RowIndex:    rowIndex,
		SourceValue: sourceValue,
		Message:     message,
		Timestamp:   time.Now(),
	}

	d.mu.Lock()
	d.warnings = append(d.warnings, w)
	d.counts[src]++
	d.mu.Unlock()

	d.logger.Debug("Row warning recorded",
		zap.String("source", string(src)),
		zap.Int("row", rowIndex),
		zap.String("field", field),
		zap.String("message", message))
}

// Warnings returns all recorded warnings ordered by (source, row index,
// arrival). The copy is safe to use after further recording.
func (d *Diagnostics) Warnings() []model.RowWarning {
	d.mu.Lock()
	out := make([]model.RowWarning, len(d.warnings))
	copy(out, d.warnings)
	d.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].RowIndex < out[j].RowIndex
	})
	return out
}

// Count returns the number of warnings recorded for one source
func (d *Diagnostics) Count(src model.Source) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[src]
}

// Total returns the number of warnings recorded across all sources
func (d *Diagnostics) Total() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.warnings)
}
