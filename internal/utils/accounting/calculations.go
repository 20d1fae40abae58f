package accounting

import (
	"sort"

	"github.com/philodia/gescom-core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is applied to invoice lines that carry no explicit rate.
var DefaultTaxRate = decimal.NewFromInt(18)

var hundred = decimal.NewFromInt(100)

// TaxGroup is the excl.-tax base and tax amount of all lines sharing one rate.
type TaxGroup struct {
	Rate      decimal.Decimal
	BaseExcl  decimal.Decimal
	TaxAmount decimal.Decimal
}

// DocumentTotals is the result of CalculateDocumentTotals.
type DocumentTotals struct {
	TotalExclTax decimal.Decimal
	TotalTax     decimal.Decimal
	TotalInclTax decimal.Decimal
	Groups       []TaxGroup // Sorted by ascending rate
}

// CalculateDocumentTotals computes excl.-tax, tax and incl.-tax totals of document lines.
// Each line's base and tax are rounded to the currency before being summed per rate.
// A nil rate means DefaultTaxRate; an explicit zero rate is honored.
func CalculateDocumentTotals(lines []domain.InvoiceLine) DocumentTotals {
	byRate := make(map[string]*TaxGroup)
	totalExcl := decimal.Zero
	for _, l := range lines {
		rate := DefaultTaxRate
		if l.TaxRate != nil {
			rate = *l.TaxRate
		}
		base := domain.RoundCurrency(l.Quantity.Mul(l.UnitPrice))
		tax := domain.RoundCurrency(base.Mul(rate).Div(hundred))
		totalExcl = totalExcl.Add(base)

		key := rate.String()
		g, ok := byRate[key]
		if !ok {
			g = &TaxGroup{Rate: rate, BaseExcl: decimal.Zero, TaxAmount: decimal.Zero}
			byRate[key] = g
		}
		g.BaseExcl = g.BaseExcl.Add(base)
		g.TaxAmount = g.TaxAmount.Add(tax)
	}

	totals := DocumentTotals{TotalExclTax: totalExcl, TotalTax: decimal.Zero}
	for _, g := range byRate {
		totals.TotalTax = totals.TotalTax.Add(g.TaxAmount)
		totals.Groups = append(totals.Groups, *g)
	}
	sort.Slice(totals.Groups, func(i, j int) bool {
		return totals.Groups[i].Rate.LessThan(totals.Groups[j].Rate)
	})
	totals.TotalInclTax = totals.TotalExclTax.Add(totals.TotalTax)
	return totals
}

// TaxGroupsForInvoice returns the per-rate breakdown used to build credit lines.
// Invoices without lines yield a single group derived from their totals, with the
// rate inferred from tax/base when the base is non-zero.
func TaxGroupsForInvoice(inv domain.SalesInvoice) []TaxGroup {
	if len(inv.Lines) > 0 {
		return CalculateDocumentTotals(inv.Lines).Groups
	}
	base := domain.RoundCurrency(inv.TotalExclTax)
	tax := domain.RoundCurrency(inv.TaxAmount())
	rate := decimal.Zero
	if !base.IsZero() {
		rate = tax.Mul(hundred).Div(base).Round(2)
	}
	return []TaxGroup{{Rate: rate, BaseExcl: base, TaxAmount: tax}}
}

// SumGroups returns the total base and tax of the groups.
func SumGroups(groups []TaxGroup) (base, tax decimal.Decimal) {
	base, tax = decimal.Zero, decimal.Zero
	for _, g := range groups {
		base = base.Add(g.BaseExcl)
		tax = tax.Add(g.TaxAmount)
	}
	return base, tax
}

// LinesBalance sums debits and credits and reports whether they agree within the tolerance.
func LinesBalance(lines []domain.EntryLine) (debit, credit decimal.Decimal, balanced bool) {
	entry := domain.JournalEntry{Lines: lines}
	debit, credit = entry.Totals()
	return debit, credit, entry.IsBalanced()
}
