// Package parse recovers the fixed invoice schema from raw document
// text. The document is not parsed as a grammar: it is scanned for
// known anchor phrases by an ordered set of independent rules, so a
// field whose anchor is missing is simply absent from the record.
package parse

import (
	"strings"

	"github.com/entrypoints/mcp-pdf-reader/internal/entity"
)

// Anchors bounding the gas section of the invoice. Electricity and gas
// use identical label phrasing, so gas rules only see this slice.
const (
	gasSectionAnchor = "Gas in detail"
	gasSectionEnd    = "Registered in England"
)

// Engine applies extraction rules to invoice text. The zero value is
// not usable; construct with NewEngine.
type Engine struct {
	rules []rule
}

// NewEngine returns an engine with the built-in rule set.
func NewEngine() *Engine {
	return &Engine{rules: builtinRules()}
}

// ExtractFields scans text and returns a partially populated record.
// It is pure and deterministic. Rules fail independently; the only
// error surfaced is a malformed closing-period date, and even then the
// remaining rules have already run against the returned record.
func (e *Engine) ExtractFields(text string) (entity.InvoiceRecord, error) {
	var rec entity.InvoiceRecord
	gas := gasSection(text)

	var firstErr error
	for _, r := range e.rules {
		scoped := text
		if r.scope == scopeGas {
			scoped = gas
		}
		if scoped == "" {
			continue
		}
		m := r.re.FindStringSubmatch(scoped)
		if m == nil {
			continue
		}
		if err := r.apply(&rec, m); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return rec, firstErr
}

// gasSection returns the slice of text from the gas anchor up to the
// next section anchor, or "" when the document has no gas section.
func gasSection(text string) string {
	start := strings.Index(text, gasSectionAnchor)
	if start < 0 {
		return ""
	}
	section := text[start:]
	if end := strings.Index(section, gasSectionEnd); end >= 0 {
		section = section[:end]
	}
	return section
}
