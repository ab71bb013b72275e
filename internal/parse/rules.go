package parse

import (
	"regexp"
	"strconv"

	"github.com/entrypoints/mcp-pdf-reader/internal/entity"
)

// ruleScope identifies which slice of the document text a rule runs
// against. Gas figures share label phrasing with electricity, so their
// rules are confined to the gas section.
type ruleScope int

const (
	scopeFull ruleScope = iota
	scopeGas
)

// rule is one declarative (pattern, scope, converter) triple. Rules are
// independent: a rule that does not match leaves its field absent and
// never affects the others.
type rule struct {
	field string
	re    *regexp.Regexp
	scope ruleScope
	apply func(rec *entity.InvoiceRecord, m []string) error
}

// numericFields maps rule-file field names onto record assignment.
// Period and balance fields are excluded: they need bespoke converters.
var numericFields = map[string]func(*entity.InvoiceRecord, float64){
	"electricity_cost":            func(r *entity.InvoiceRecord, v float64) { r.ElectricityCost = &v },
	"gas_cost":                    func(r *entity.InvoiceRecord, v float64) { r.GasCost = &v },
	"vat":                         func(r *entity.InvoiceRecord, v float64) { r.VAT = &v },
	"total_charges":               func(r *entity.InvoiceRecord, v float64) { r.TotalCharges = &v },
	"direct_debit":                func(r *entity.InvoiceRecord, v float64) { r.DirectDebit = &v },
	"electricity_kwh":             func(r *entity.InvoiceRecord, v float64) { r.ElectricityKWh = &v },
	"gas_kwh":                     func(r *entity.InvoiceRecord, v float64) { r.GasKWh = &v },
	"electricity_unit_rate":       func(r *entity.InvoiceRecord, v float64) { r.ElectricityUnitRate = &v },
	"gas_unit_rate":               func(r *entity.InvoiceRecord, v float64) { r.GasUnitRate = &v },
	"electricity_standing_charge": func(r *entity.InvoiceRecord, v float64) { r.ElectricityStandingCharge = &v },
	"gas_standing_charge":         func(r *entity.InvoiceRecord, v float64) { r.GasStandingCharge = &v },
}

// setNumber builds a converter that parses capture group 1 as a float.
func setNumber(assign func(*entity.InvoiceRecord, float64)) func(*entity.InvoiceRecord, []string) error {
	return func(rec *entity.InvoiceRecord, m []string) error {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			// Pattern classes guarantee digits; a stray trailing dot
			// is the only way here, and it means no match.
			return nil
		}
		assign(rec, v)
		return nil
	}
}

// setBalance builds a converter for "£X in debit|credit" matches.
// Debit is stored negative, credit positive.
func setBalance(assign func(*entity.InvoiceRecord, float64)) func(*entity.InvoiceRecord, []string) error {
	return func(rec *entity.InvoiceRecord, m []string) error {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil
		}
		if m[2] == "debit" {
			v = -v
		}
		assign(rec, v)
		return nil
	}
}

// applyPeriod sets the free-text period start and the normalized
// period end. A malformed end date is the one loud fault of the
// engine: a wrong-but-parsed date corrupts chronological ordering
// downstream, so it propagates instead of leaving the field absent.
func applyPeriod(rec *entity.InvoiceRecord, m []string) error {
	start := m[1]
	rec.PeriodStart = &start
	end, err := ConvertDate(m[2])
	if err != nil {
		return err
	}
	rec.PeriodEnd = &end
	return nil
}

func builtinRules() []rule {
	return []rule{
		{
			field: "period",
			re:    regexp.MustCompile(`Your energy charges for (\d+\w+\s+\w+)\s*-\s*(\d+\w+\s+\w+\s+\d{4})`),
			apply: applyPeriod,
		},
		{
			field: "electricity_cost",
			re:    regexp.MustCompile(`Cost of electricity\s+£([\d.]+)`),
			apply: setNumber(numericFields["electricity_cost"]),
		},
		{
			field: "gas_cost",
			re:    regexp.MustCompile(`Cost of gas\s+£([\d.]+)`),
			apply: setNumber(numericFields["gas_cost"]),
		},
		{
			// Deliberately loose: binds the first £ amount after any
			// "VAT" occurrence, matching the historical behavior.
			field: "vat",
			re:    regexp.MustCompile(`VAT.*?£([\d.]+)`),
			apply: setNumber(numericFields["vat"]),
		},
		{
			field: "total_charges",
			re:    regexp.MustCompile(`Total charges\s+£([\d.]+)`),
			apply: setNumber(numericFields["total_charges"]),
		},
		{
			field: "direct_debit",
			re:    regexp.MustCompile(`Direct Debit.*?\+£([\d.]+)`),
			apply: setNumber(numericFields["direct_debit"]),
		},
		{
			field: "starting_balance",
			re:    regexp.MustCompile(`Starting balance\s+£([\d.]+)\s+in\s+(debit|credit)`),
			apply: setBalance(func(r *entity.InvoiceRecord, v float64) { r.StartingBalance = &v }),
		},
		{
			field: "closing_balance",
			re:    regexp.MustCompile(`Closing balance\s+£([\d.]+)\s+in\s+(debit|credit)`),
			apply: setBalance(func(r *entity.InvoiceRecord, v float64) { r.ClosingBalance = &v }),
		},
		{
			field: "electricity_kwh",
			re:    regexp.MustCompile(`Total units\s+([\d.]+)\s+kWh`),
			apply: setNumber(numericFields["electricity_kwh"]),
		},
		{
			field: "gas_kwh",
			re:    regexp.MustCompile(`Total units\s+([\d.]+)\s+kWh`),
			scope: scopeGas,
			apply: setNumber(numericFields["gas_kwh"]),
		},
		{
			field: "electricity_unit_rate",
			re:    regexp.MustCompile(`Unit rate\s+([\d.]+)p per kWh`),
			apply: setNumber(numericFields["electricity_unit_rate"]),
		},
		{
			field: "gas_unit_rate",
			re:    regexp.MustCompile(`Unit rate\s+([\d.]+)p per kWh`),
			scope: scopeGas,
			apply: setNumber(numericFields["gas_unit_rate"]),
		},
		{
			field: "electricity_standing_charge",
			re:    regexp.MustCompile(`Standing charge\s+([\d.]+)p a day`),
			apply: setNumber(numericFields["electricity_standing_charge"]),
		},
		{
			field: "gas_standing_charge",
			re:    regexp.MustCompile(`Standing charge\s+([\d.]+)p a day`),
			scope: scopeGas,
			apply: setNumber(numericFields["gas_standing_charge"]),
		},
	}
}
