package workbook

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/revent-data/report-merger/pkg/config"
	"github.com/revent-data/report-merger/pkg/model"
)

func sheetConfig() config.SheetConfig {
	return config.SheetConfig{
		RelationsKeyword: "column relations",
		AmazonKeyword:    "amazon",
		NoonKeyword:      "noon",
		SummaryName:      "Summary Sheet",
	}
}

// writeFixture builds a small input workbook the way the real reports look:
// a relations sheet with two Remarks columns plus the two source sheets.
func writeFixture(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet("Column Relations Sheet")
	require.NoError(t, err)
	relations := [][]interface{}{
		{"Summary Sheet Column", "Noon Column Name", "Remarks", "Amazon Colum Name", "Remarks"},
		{"Order ID", "order_nr", "", "amazon-order-id", ""},
		{"Day", "ordered_date", "Take the day number from date", "purchase-date", "Take the day number from date"},
	}
	for i, row := range relations {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Column Relations Sheet", addr, &row))
	}

	_, err = f.NewSheet("Amazon")
	require.NoError(t, err)
	amazon := [][]interface{}{
		{"amazon-order-id", "purchase-date"},
		{"A-1", "2026-01-09"},
	}
	for i, row := range amazon {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Amazon", addr, &row))
	}

	_, err = f.NewSheet("Noon Sales")
	require.NoError(t, err)
	noon := [][]interface{}{
		{"order_nr", "ordered_date"},
		{"N-1", "2026-02-10"},
		{"N-2", "2026-03-11"},
	}
	for i, row := range noon {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Noon Sales", addr, &row))
	}

	require.NoError(t, f.DeleteSheet("Sheet1"))

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReader_SheetDiscoveryAndRelations(t *testing.T) {
	path := writeFixture(t)

	r, err := OpenReader(path, sheetConfig(), zap.NewNop())
	require.NoError(t, err)
	defer r.Close()

	relations, err := r.Relations()
	require.NoError(t, err)
	require.Len(t, relations, 2)

	assert.Equal(t, "Order ID", relations[0].CanonicalField)
	assert.Equal(t, "order_nr", relations[0].NoonColumn)
	assert.Equal(t, "amazon-order-id", relations[0].AmazonColumn)
	assert.Equal(t, "Take the day number from date", relations[1].NoonRemarks)
	assert.Equal(t, "Take the day number from date", relations[1].AmazonRemarks)
}

func TestReader_SourceRows(t *testing.T) {
	path := writeFixture(t)

	r, err := OpenReader(path, sheetConfig(), zap.NewNop())
	require.NoError(t, err)
	defer r.Close()

	sheet, headers, rows, err := r.Source("noon")
	require.NoError(t, err)

	assert.Equal(t, "Noon Sales", sheet)
	assert.Equal(t, []string{"order_nr", "ordered_date"}, headers)
	require.Len(t, rows, 2)

	v, ok := rows[0].Value("order_nr")
	require.True(t, ok)
	assert.Equal(t, "N-1", v)
}

func TestReader_MissingSheet(t *testing.T) {
	path := writeFixture(t)

	r, err := OpenReader(path, sheetConfig(), zap.NewNop())
	require.NoError(t, err)
	defer r.Close()

	_, err = r.FindSheet("souq")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "souq")
}

func TestWriter_RoundTrip(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.xlsx")

	columns := []string{"Order ID", "Day", "Source"}
	rows := []model.CanonicalRow{
		{Values: map[string]string{"Order ID": "A-1", "Day": "9"}, Source: model.SourceAmazon, RowIndex: 0},
		{Values: map[string]string{"Order ID": "N-1", "Day": "10"}, Source: model.SourceNoon, RowIndex: 0},
	}
	passthrough := []PassthroughSheet{
		{Name: "Amazon", Rows: [][]string{{"amazon-order-id"}, {"A-1"}}},
	}

	w := NewWriter("Summary Sheet", zap.NewNop())
	require.NoError(t, w.Write(outPath, columns, rows, passthrough))

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Summary Sheet")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, columns, got[0])
	assert.Equal(t, []string{"A-1", "9", "AMAZON"}, got[1])
	assert.Equal(t, []string{"N-1", "10", "NOON"}, got[2])

	copied, err := f.GetRows("Amazon")
	require.NoError(t, err)
	require.Len(t, copied, 2)
	assert.Equal(t, "A-1", copied[1][0])

	assert.NotContains(t, f.GetSheetList(), "Sheet1")
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("reports", "april_MERGED.xlsx"),
		DefaultOutputPath(filepath.Join("reports", "april.xlsx")))
}
