package entity

// InvoiceRecord is the structured output for one energy invoice.
// Every field is independently optional: nil means the matching rule
// did not fire for this document's text. No cross-field reconciliation
// happens at this layer. All fields serialize as plain scalars.
type InvoiceRecord struct {
	Filename   string `json:"filename"`
	SourcePath string `json:"file_path"`

	PeriodStart *string `json:"period_start,omitempty"` // free-text month token, e.g. "12th Sep"
	PeriodEnd   *string `json:"period_end,omitempty"`   // canonical YYYY/MM/DD

	ElectricityCost *float64 `json:"electricity_cost,omitempty"`
	GasCost         *float64 `json:"gas_cost,omitempty"`
	VAT             *float64 `json:"vat,omitempty"`
	TotalCharges    *float64 `json:"total_charges,omitempty"`
	DirectDebit     *float64 `json:"direct_debit,omitempty"`

	// Balances are signed: debit is negative, credit positive.
	StartingBalance *float64 `json:"starting_balance,omitempty"`
	ClosingBalance  *float64 `json:"closing_balance,omitempty"`

	ElectricityKWh *float64 `json:"electricity_kwh,omitempty"`
	GasKWh         *float64 `json:"gas_kwh,omitempty"`

	ElectricityUnitRate       *float64 `json:"electricity_unit_rate,omitempty"`       // pence per kWh
	GasUnitRate               *float64 `json:"gas_unit_rate,omitempty"`               // pence per kWh
	ElectricityStandingCharge *float64 `json:"electricity_standing_charge,omitempty"` // pence per day
	GasStandingCharge         *float64 `json:"gas_standing_charge,omitempty"`         // pence per day
}
