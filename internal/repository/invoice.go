package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/entrypoints/mcp-pdf-reader/internal/common"
	"github.com/entrypoints/mcp-pdf-reader/internal/entity"
)

// InvoiceStore is the persistence contract for processed records.
type InvoiceStore interface {
	Save(ctx context.Context, batchID uuid.UUID, rec entity.InvoiceRecord) (uuid.UUID, error)
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]entity.InvoiceRecord, error)
	List(ctx context.Context) ([]entity.InvoiceRecord, error)
}

var _ InvoiceStore = (*Store)(nil)

const invoiceColumns = `filename, source_path, period_start, period_end,
	electricity_cost, gas_cost, vat, total_charges, direct_debit,
	starting_balance, closing_balance, electricity_kwh, gas_kwh,
	electricity_unit_rate, gas_unit_rate,
	electricity_standing_charge, gas_standing_charge`

// Save inserts one record under the given batch run id.
func (s *Store) Save(ctx context.Context, batchID uuid.UUID, rec entity.InvoiceRecord) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invoices (id, batch_id, `+invoiceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), batchID.String(),
		rec.Filename, rec.SourcePath,
		rec.PeriodStart, rec.PeriodEnd,
		rec.ElectricityCost, rec.GasCost, rec.VAT, rec.TotalCharges, rec.DirectDebit,
		rec.StartingBalance, rec.ClosingBalance,
		rec.ElectricityKWh, rec.GasKWh,
		rec.ElectricityUnitRate, rec.GasUnitRate,
		rec.ElectricityStandingCharge, rec.GasStandingCharge,
	)
	if err != nil {
		s.logger.Error("repository.save.failed", "filename", rec.Filename, "error", err)
		return uuid.Nil, common.NewAppError("DB_INSERT_ERROR", "saving invoice", err)
	}
	return id, nil
}

// ListByBatch returns the records of one batch run, ordered by filename.
func (s *Store) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]entity.InvoiceRecord, error) {
	return s.list(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE batch_id = ? ORDER BY filename`, batchID.String())
}

// List returns all stored records, ordered by filename.
func (s *Store) List(ctx context.Context) ([]entity.InvoiceRecord, error) {
	return s.list(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY filename`)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]entity.InvoiceRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewAppError("DB_QUERY_ERROR", "listing invoices", err)
	}
	defer rows.Close()

	var recs []entity.InvoiceRecord
	for rows.Next() {
		var rec entity.InvoiceRecord
		var periodStart, periodEnd sql.NullString
		nums := make([]sql.NullFloat64, 13)
		if err := rows.Scan(
			&rec.Filename, &rec.SourcePath,
			&periodStart, &periodEnd,
			&nums[0], &nums[1], &nums[2], &nums[3], &nums[4],
			&nums[5], &nums[6], &nums[7], &nums[8],
			&nums[9], &nums[10], &nums[11], &nums[12],
		); err != nil {
			return nil, common.NewAppError("DB_SCAN_ERROR", "scanning invoice row", err)
		}
		rec.PeriodStart = strPtr(periodStart)
		rec.PeriodEnd = strPtr(periodEnd)
		for i, dst := range []**float64{
			&rec.ElectricityCost, &rec.GasCost, &rec.VAT, &rec.TotalCharges, &rec.DirectDebit,
			&rec.StartingBalance, &rec.ClosingBalance, &rec.ElectricityKWh, &rec.GasKWh,
			&rec.ElectricityUnitRate, &rec.GasUnitRate,
			&rec.ElectricityStandingCharge, &rec.GasStandingCharge,
		} {
			*dst = floatPtr(nums[i])
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func strPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
