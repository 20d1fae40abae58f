package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesKPIs are the headline figures of a sales report.
type SalesKPIs struct {
	RevenueExclTax       decimal.Decimal `json:"revenueExclTax"`
	RevenueInclTax       decimal.Decimal `json:"revenueInclTax"`
	InvoiceCount         int             `json:"invoiceCount"`
	AverageBasketExclTax decimal.Decimal `json:"averageBasketExclTax"`
}

// CounterpartyRanking is one row of the top clients ranking.
type CounterpartyRanking struct {
	ClientID       string          `json:"clientID"`
	Name           string          `json:"name"`
	RevenueExclTax decimal.Decimal `json:"revenueExclTax"`
	InvoiceCount   int             `json:"invoiceCount"`
}

// ProductRanking is one row of the top products ranking.
type ProductRanking struct {
	ProductID      string          `json:"productID"`
	Name           string          `json:"name"`
	TotalQuantity  decimal.Decimal `json:"totalQuantity"`
	RevenueExclTax decimal.Decimal `json:"revenueExclTax"`
}

// SalesReport summarizes eligible invoices issued in [From, To].
type SalesReport struct {
	From              time.Time             `json:"from"`
	To                time.Time             `json:"to"`
	KPIs              SalesKPIs             `json:"kpis"`
	TopCounterparties []CounterpartyRanking `json:"topCounterparties"`
	TopProducts       []ProductRanking      `json:"topProducts"`
	Documents         []SalesInvoice        `json:"documents"`
	GeneratedAt       time.Time             `json:"generatedAt"`
}
