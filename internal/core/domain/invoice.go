package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentStatus is the lifecycle state of a commercial document.
type DocumentStatus string

const (
	StatusDraft         DocumentStatus = "DRAFT"
	StatusSent          DocumentStatus = "SENT"
	StatusValidated     DocumentStatus = "VALIDATED"
	StatusPaid          DocumentStatus = "PAID"
	StatusPartiallyPaid DocumentStatus = "PARTIALLY_PAID"
	StatusCancelled     DocumentStatus = "CANCELLED"
	StatusOverdue       DocumentStatus = "OVERDUE"
)

// ReportableStatuses are the invoice states counted as sales by the reports.
var ReportableStatuses = []DocumentStatus{StatusSent, StatusPaid, StatusPartiallyPaid, StatusOverdue}

// SalesInvoice is the source document handed over by the invoicing collaborator.
// This core only ever writes Posted and JournalEntryID.
type SalesInvoice struct {
	InvoiceID      string          `json:"invoiceID"`
	Number         string          `json:"number"`
	ClientID       string          `json:"clientID"`
	ClientName     string          `json:"clientName,omitempty"`
	IssueDate      time.Time       `json:"issueDate"`
	Status         DocumentStatus  `json:"status"`
	TotalExclTax   decimal.Decimal `json:"totalExclTax"`
	TotalInclTax   decimal.Decimal `json:"totalInclTax"`
	Lines          []InvoiceLine   `json:"lines"`
	Posted         bool            `json:"posted"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
}

// InvoiceLine is one product line of a sales invoice. A nil TaxRate means the default rate applies.
type InvoiceLine struct {
	ProductID   string           `json:"productID"`
	ProductName string           `json:"productName,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unitPrice"`
	TaxRate     *decimal.Decimal `json:"taxRate,omitempty"` // Percent, e.g. 18
}

// TaxAmount is the tax part of the invoice totals.
func (inv *SalesInvoice) TaxAmount() decimal.Decimal {
	return inv.TotalInclTax.Sub(inv.TotalExclTax)
}

// Client is the counterparty of sales postings.
// Balance is the running receivable total and is mutated only by the posting engine.
type Client struct {
	ClientID              string          `json:"clientID"`
	Name                  string          `json:"name"`
	ReceivableAccountCode string          `json:"receivableAccountCode,omitempty"` // Overrides the generic receivable account
	Balance               decimal.Decimal `json:"balance"`
	IsActive              bool            `json:"isActive"`
}
