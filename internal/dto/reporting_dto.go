package dto

import (
	"time"

	"github.com/philodia/gescom-core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportDateLayout is the layout of the from and to query parameters.
const ReportDateLayout = "2006-01-02"

// SalesReportParams are the query parameters of the sales report. Both bounds are inclusive days.
type SalesReportParams struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// ReportDocumentResponse is one invoice counted by the report.
type ReportDocumentResponse struct {
	InvoiceID    string                `json:"invoiceID"`
	Number       string                `json:"number"`
	ClientID     string                `json:"clientID"`
	ClientName   string                `json:"clientName"`
	IssueDate    string                `json:"issueDate"`
	Status       domain.DocumentStatus `json:"status"`
	TotalExclTax decimal.Decimal       `json:"totalExclTax"`
	TotalInclTax decimal.Decimal       `json:"totalInclTax"`
}

// SalesReportResponse represents the sales report response
type SalesReportResponse struct {
	FromDate          string                       `json:"fromDate"`
	ToDate            string                       `json:"toDate"`
	KPIs              domain.SalesKPIs             `json:"kpis"`
	TopCounterparties []domain.CounterpartyRanking `json:"topCounterparties"`
	TopProducts       []domain.ProductRanking      `json:"topProducts"`
	Documents         []ReportDocumentResponse     `json:"documents"`
	GeneratedAt       time.Time                    `json:"generatedAt"`
}

func ToSalesReportResponse(r domain.SalesReport) SalesReportResponse {
	docs := make([]ReportDocumentResponse, len(r.Documents))
	for i, d := range r.Documents {
		docs[i] = ReportDocumentResponse{
			InvoiceID:    d.InvoiceID,
			Number:       d.Number,
			ClientID:     d.ClientID,
			ClientName:   d.ClientName,
			IssueDate:    d.IssueDate.Format(ReportDateLayout),
			Status:       d.Status,
			TotalExclTax: d.TotalExclTax,
			TotalInclTax: d.TotalInclTax,
		}
	}
	return SalesReportResponse{
		FromDate:          r.From.Format(ReportDateLayout),
		ToDate:            r.To.Format(ReportDateLayout),
		KPIs:              r.KPIs,
		TopCounterparties: r.TopCounterparties,
		TopProducts:       r.TopProducts,
		Documents:         docs,
		GeneratedAt:       r.GeneratedAt,
	}
}
