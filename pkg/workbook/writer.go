// pkg/workbook/writer.go
package workbook

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/revent-data/report-merger/pkg/model"
)

// PassthroughSheet is an input sheet copied unchanged into the output
// workbook alongside the summary
type PassthroughSheet struct {
	Name string
	Rows [][]string
}

// Writer assembles the output workbook: the merged summary sheet first,
// then pass-through copies of the originals
type Writer struct {
	summaryName string
	logger      *zap.Logger
}

// NewWriter creates a new workbook writer
func NewWriter(summaryName string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		summaryName: summaryName,
		logger:      logger.Named("workbook"),
	}
}

// DefaultOutputPath derives the output filename from the input:
// <stem>_MERGED.xlsx next to the input file
func DefaultOutputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+"_MERGED.xlsx")
}

// Write saves the merged table and pass-through sheets to path. Columns are
// the ordered output header (canonical fields plus the provenance column);
// each row's provenance tag fills the trailing column.
func (w *Writer) Write(
	path string,
	columns []string,
	rows []model.CanonicalRow,
	passthrough []PassthroughSheet,
) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(w.summaryName); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(w.summaryName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	for i, row := range rows {
		cells := make([]interface{}, len(columns))
		for j, col := range columns {
			if j == len(columns)-1 {
				cells[j] = string(row.Source)
			} else {
				cells[j] = row.Value(col)
			}
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell address: %w", err)
		}
		if err := f.SetSheetRow(w.summaryName, addr, &cells); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i, err)
		}
	}

	for _, sheet := range passthrough {
		if err := w.writePassthrough(f, sheet); err != nil {
			return err
		}
	}

	// Drop excelize's default sheet unless something claimed the name
	if w.summaryName != "Sheet1" && !hasPassthrough(passthrough, "Sheet1") {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			w.logger.Warn("Failed to drop default sheet", zap.Error(err))
		}
	}

	if idx, err := f.GetSheetIndex(w.summaryName); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	w.logger.Info("Saved output workbook",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
		zap.Int("columns", len(columns)),
		zap.Int("passthroughSheets", len(passthrough)))

	return nil
}

func (w *Writer) writePassthrough(f *excelize.File, sheet PassthroughSheet) error {
	if _, err := f.NewSheet(sheet.Name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
	}

	for i, row := range sheet.Rows {
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = c
		}
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute cell address: %w", err)
		}
		if err := f.SetSheetRow(sheet.Name, addr, &cells); err != nil {
			return fmt.Errorf("failed to copy sheet %s row %d: %w", sheet.Name, i, err)
		}
	}
	return nil
}

func hasPassthrough(sheets []PassthroughSheet, name string) bool {
	for _, s := range sheets {
		if s.Name == name {
			return true
		}
	}
	return false
}
