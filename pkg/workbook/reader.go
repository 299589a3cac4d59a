// pkg/workbook/reader.go

// Package workbook owns the Excel I/O boundary: locating sheets in the
// input workbook, extracting the relations and source tables, and writing
// the merged summary. The engine itself never touches excelize.
package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/revent-data/report-merger/pkg/config"
	"github.com/revent-data/report-merger/pkg/mapping"
	"github.com/revent-data/report-merger/pkg/model"
)

// Reader extracts the logical tables of one input workbook
type Reader struct {
	f      *excelize.File
	cfg    config.SheetConfig
	logger *zap.Logger
}

// OpenReader opens an input workbook for reading
func OpenReader(path string, cfg config.SheetConfig, logger *zap.Logger) (*Reader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}

	r := &Reader{
		f:      f,
		cfg:    cfg,
		logger: logger.Named("workbook"),
	}

	r.logger.Info("Opened workbook",
		zap.String("path", path),
		zap.Strings("sheets", f.GetSheetList()))

	return r, nil
}

// Close releases the underlying workbook
func (r *Reader) Close() error {
	return r.f.Close()
}

// FindSheet returns the first sheet whose name contains the keyword,
// case-insensitively
func (r *Reader) FindSheet(keyword string) (string, error) {
	needle := strings.ToLower(keyword)
	for _, name := range r.f.GetSheetList() {
		if strings.Contains(strings.ToLower(name), needle) {
			return name, nil
		}
	}
	return "", fmt.Errorf("no sheet matching keyword %q found", keyword)
}

// Relations locates the column relations sheet and returns its rows in
// sheet order. Header matching is flexible: the canonical name column is
// the one containing both "summary" and "column"; the Noon and Amazon
// column headers likewise; the first remarks-titled column belongs to Noon
// and the second to Amazon (sheets often title both plain "Remarks").
func (r *Reader) Relations() ([]mapping.RelationRow, error) {
	sheet, err := r.FindSheet(r.cfg.RelationsKeyword)
	if err != nil {
		return nil, err
	}

	rows, err := r.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read relations sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("relations sheet %s has no data rows", sheet)
	}

	header := rows[0]
	summaryIdx := findHeader(header, "summary", "column")
	if summaryIdx < 0 {
		return nil, fmt.Errorf("relations sheet %s has no summary column header", sheet)
	}
	noonIdx := findHeader(header, "noon", "column")
	amazonIdx := findHeader(header, "amazon", "column")
	if amazonIdx < 0 {
		// Some sheets carry the misspelled "Amazon Colum Name"
		amazonIdx = findHeader(header, "amazon", "colum")
	}
	noonRemarksIdx, amazonRemarksIdx := findRemarksColumns(header)

	r.logger.Debug("Resolved relations sheet headers",
		zap.String("sheet", sheet),
		zap.Int("summary", summaryIdx),
		zap.Int("noon", noonIdx),
		zap.Int("amazon", amazonIdx),
		zap.Int("noonRemarks", noonRemarksIdx),
		zap.Int("amazonRemarks", amazonRemarksIdx))

	relations := make([]mapping.RelationRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		relations = append(relations, mapping.RelationRow{
			CanonicalField: cell(row, summaryIdx),
			NoonColumn:     cell(row, noonIdx),
			NoonRemarks:    cell(row, noonRemarksIdx),
			AmazonColumn:   cell(row, amazonIdx),
			AmazonRemarks:  cell(row, amazonRemarksIdx),
		})
	}

	r.logger.Info("Read relations sheet",
		zap.String("sheet", sheet),
		zap.Int("rows", len(relations)))

	return relations, nil
}

// Source locates one source sheet by keyword and returns its name, header
// set, and data rows as read-only snapshots
func (r *Reader) Source(keyword string) (string, []string, []model.SourceRow, error) {
	sheet, err := r.FindSheet(keyword)
	if err != nil {
		return "", nil, nil, err
	}

	rows, err := r.f.GetRows(sheet)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to read source sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return sheet, nil, nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	sourceRows := make([]model.SourceRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		sr := make(model.SourceRow, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			sr[h] = cell(row, i)
		}
		sourceRows = append(sourceRows, sr)
	}

	r.logger.Info("Read source sheet",
		zap.String("sheet", sheet),
		zap.Int("columns", len(headers)),
		zap.Int("rows", len(sourceRows)))

	return sheet, headers, sourceRows, nil
}

// RawSheet returns a sheet's cells untouched, for pass-through copying into
// the output workbook
func (r *Reader) RawSheet(name string) ([][]string, error) {
	rows, err := r.f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}
	return rows, nil
}

// findHeader returns the index of the first header containing every keyword,
// case-insensitively, or -1
func findHeader(header []string, keywords ...string) int {
	for i, h := range header {
		lower := strings.ToLower(h)
		all := true
		for _, k := range keywords {
			if !strings.Contains(lower, k) {
				all = false
				break
			}
		}
		if all {
			return i
		}
	}
	return -1
}

// findRemarksColumns returns the first and second remarks column indices.
// When only one remarks column exists it serves both sources, matching the
// original workbook layout.
func findRemarksColumns(header []string) (noon, amazon int) {
	noon, amazon = -1, -1
	for i, h := range header {
		if strings.Contains(strings.ToLower(h), "remark") {
			if noon < 0 {
				noon = i
			} else {
				amazon = i
				break
			}
		}
	}
	if amazon < 0 {
		amazon = noon
	}
	return noon, amazon
}

// cell safely indexes a row excelize may have truncated
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
