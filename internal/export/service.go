// Package export renders processed invoice records as tabular files.
// Every record field serializes as a plain scalar; absent fields
// become empty cells, never zeros.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/entrypoints/mcp-pdf-reader/internal/entity"
)

// Service produces XLSX and CSV exports of invoice records.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

var headers = []string{
	"Filename",
	"Period Start",
	"Period End",
	"Electricity Cost (£)",
	"Gas Cost (£)",
	"VAT (£)",
	"Total Charges (£)",
	"Direct Debit (£)",
	"Starting Balance (£)",
	"Closing Balance (£)",
	"Electricity (kWh)",
	"Gas (kWh)",
	"Electricity Unit Rate (p/kWh)",
	"Gas Unit Rate (p/kWh)",
	"Electricity Standing Charge (p/day)",
	"Gas Standing Charge (p/day)",
	"Source Path",
}

// row renders one record in header order. Absent fields are "".
func row(r entity.InvoiceRecord) []string {
	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	num := func(p *float64) string {
		if p == nil {
			return ""
		}
		return strconv.FormatFloat(*p, 'f', -1, 64)
	}
	return []string{
		r.Filename,
		str(r.PeriodStart),
		str(r.PeriodEnd),
		num(r.ElectricityCost),
		num(r.GasCost),
		num(r.VAT),
		num(r.TotalCharges),
		num(r.DirectDebit),
		num(r.StartingBalance),
		num(r.ClosingBalance),
		num(r.ElectricityKWh),
		num(r.GasKWh),
		num(r.ElectricityUnitRate),
		num(r.GasUnitRate),
		num(r.ElectricityStandingCharge),
		num(r.GasStandingCharge),
		r.SourcePath,
	}
}

// ExportXLSX returns an XLSX workbook with one row per record.
func (s *Service) ExportXLSX(recs []entity.InvoiceRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, rec := range recs {
		for col, v := range row(rec) {
			if v == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 28) // filename
	_ = f.SetColWidth(sheet, "B", "C", 14) // period
	_ = f.SetColWidth(sheet, "D", "P", 12) // amounts
	_ = f.SetColWidth(sheet, "Q", "Q", 60) // path

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// ExportCSV returns the same table as delimited text.
func (s *Service) ExportCSV(recs []entity.InvoiceRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}
	for _, rec := range recs {
		if err := w.Write(row(rec)); err != nil {
			return nil, fmt.Errorf("csv write: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}

	s.logger.Info("export.csv.ok", "rows", len(recs))
	return buf.Bytes(), nil
}
