package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/entrypoints/mcp-pdf-reader/internal/entity"
)

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

func sampleRecords() []entity.InvoiceRecord {
	return []entity.InvoiceRecord{
		{
			Filename:        "oct.pdf",
			SourcePath:      "/bills/oct.pdf",
			PeriodStart:     str("12th Sep"),
			PeriodEnd:       str("2024/10/09"),
			ElectricityCost: f64(58.43),
			GasCost:         f64(31.07),
			VAT:             f64(4.48),
			TotalCharges:    f64(93.98),
			StartingBalance: f64(-45.20),
		},
		{
			Filename:   "nov.pdf",
			SourcePath: "/bills/nov.pdf",
			// everything else unparsed
		},
	}
}

func TestExportCSV(t *testing.T) {
	svc := NewService(nil)

	out, err := svc.ExportCSV(sampleRecords())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, headers, rows[0])
	assert.Len(t, rows[1], len(headers))

	assert.Equal(t, "oct.pdf", rows[1][0])
	assert.Equal(t, "12th Sep", rows[1][1])
	assert.Equal(t, "2024/10/09", rows[1][2])
	assert.Equal(t, "58.43", rows[1][3])
	assert.Equal(t, "93.98", rows[1][6])
	assert.Equal(t, "-45.2", rows[1][8])
	assert.Equal(t, "/bills/oct.pdf", rows[1][16])

	// Absent fields export as empty, never zero.
	assert.Equal(t, "nov.pdf", rows[2][0])
	for col := 1; col < 16; col++ {
		assert.Empty(t, rows[2][col], "column %d", col)
	}
}

func TestExportXLSX(t *testing.T) {
	svc := NewService(nil)

	out, err := svc.ExportXLSX(sampleRecords())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Invoices"

	got, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Filename", got)

	got, _ = f.GetCellValue(sheet, "A2")
	assert.Equal(t, "oct.pdf", got)
	got, _ = f.GetCellValue(sheet, "G2")
	assert.Equal(t, "93.98", got)
	got, _ = f.GetCellValue(sheet, "I2")
	assert.Equal(t, "-45.2", got)
	got, _ = f.GetCellValue(sheet, "Q2")
	assert.Equal(t, "/bills/oct.pdf", got)

	// Second record has only filename and path; amounts stay blank.
	got, _ = f.GetCellValue(sheet, "A3")
	assert.Equal(t, "nov.pdf", got)
	got, _ = f.GetCellValue(sheet, "D3")
	assert.Empty(t, got)
	got, _ = f.GetCellValue(sheet, "G3")
	assert.Empty(t, got)
}

func TestExportEmpty(t *testing.T) {
	svc := NewService(nil)

	csvOut, err := svc.ExportCSV(nil)
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(csvOut)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only

	xlsxOut, err := svc.ExportXLSX(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, xlsxOut)
}
