package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/philodia/gescom-core/internal/apperrors"
	"github.com/philodia/gescom-core/internal/core/domain"
	portssvc "github.com/philodia/gescom-core/internal/core/ports/services"
	"github.com/philodia/gescom-core/internal/dto"
	"github.com/philodia/gescom-core/internal/handlers"
	"github.com/philodia/gescom-core/internal/middleware"
)

type HandlersTestSuite struct {
	suite.Suite
	router    *gin.Engine
	posting   *MockPostingService
	inventory *MockInventoryService
	reporting *MockReportingService
	resolver  *MockResolver
	healthErr error
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.posting = new(MockPostingService)
	suite.inventory = new(MockInventoryService)
	suite.reporting = new(MockReportingService)
	suite.resolver = new(MockResolver)
	suite.healthErr = nil

	services := &portssvc.ServiceContainer{
		Resolver:  suite.resolver,
		Inventory: suite.inventory,
		Posting:   suite.posting,
		Reporting: suite.reporting,
	}
	retry := handlers.RetryPolicy{MaxRetries: 2, InitialInterval: time.Millisecond}
	err := handlers.RegisterRoutes(suite.router, retry, services, handlers.HealthCheck{
		Name:  "store",
		Check: func(context.Context) error { return suite.healthErr },
	})
	suite.Require().NoError(err)
}

func (suite *HandlersTestSuite) TearDownTest() {
	suite.posting.AssertExpectations(suite.T())
	suite.inventory.AssertExpectations(suite.T())
	suite.reporting.AssertExpectations(suite.T())
	suite.resolver.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) do(method, path, body string, withUser bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if withUser {
		req.Header.Set(middleware.UserIDHeader, "user-1")
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleEntry() domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     "e1",
		JournalCode: "VE",
		SourceRef:   "sales-invoice:inv1",
		Lines: []domain.EntryLine{
			{LineNo: 1, AccountCode: "411000", Debit: decimal.NewFromInt(1180), Credit: decimal.Zero},
			{LineNo: 2, AccountCode: "701000", Debit: decimal.Zero, Credit: decimal.NewFromInt(1000)},
			{LineNo: 3, AccountCode: "443000", Debit: decimal.Zero, Credit: decimal.NewFromInt(180)},
		},
	}
}

// --- Posting ---

func (suite *HandlersTestSuite) TestPostInvoice_CreatedThenAlreadyPosted() {
	suite.posting.On("PostSalesInvoiceByID", mock.Anything, "inv1", "user-1").
		Return(&domain.PostingResult{Entry: sampleEntry()}, nil).Once()
	suite.posting.On("PostSalesInvoiceByID", mock.Anything, "inv1", "user-1").
		Return(&domain.PostingResult{Entry: sampleEntry(), AlreadyPosted: true}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv1/post", "", true)
	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.PostInvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.AlreadyPosted)
	suite.Len(resp.Entry.Lines, 3)
	suite.True(resp.Entry.TotalDebit.Equal(resp.Entry.TotalCredit))

	w = suite.do(http.MethodPost, "/api/v1/invoices/inv1/post", "", true)
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.AlreadyPosted)
}

func (suite *HandlersTestSuite) TestPostInvoice_RequiresActor() {
	w := suite.do(http.MethodPost, "/api/v1/invoices/inv1/post", "", false)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.posting.AssertNotCalled(suite.T(), "PostSalesInvoiceByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestPostInvoice_ErrorMapping() {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("invoice inv1: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"validation", fmt.Errorf("%w: invoice is a draft", apperrors.ErrValidation), http.StatusBadRequest},
		{"imbalance", fmt.Errorf("%w: 1180 vs 1170", apperrors.ErrImbalance), http.StatusUnprocessableEntity},
		{"conflict", fmt.Errorf("%w: client mismatch", apperrors.ErrConflict), http.StatusConflict},
		{"permanent abort", apperrors.NewPermanentAbort("commit", errors.New("connection reset")), http.StatusInternalServerError},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			suite.posting.On("PostSalesInvoiceByID", mock.Anything, "inv1", "user-1").Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/invoices/inv1/post", "", true)

			suite.Equal(tt.status, w.Code)
			suite.posting.AssertNumberOfCalls(suite.T(), "PostSalesInvoiceByID", 1)
		})
	}
}

func (suite *HandlersTestSuite) TestPostInvoice_RetriesRetryableAbort() {
	abort := apperrors.NewRetryableAbort("lock invoice", errors.New("deadlock detected"))
	suite.posting.On("PostSalesInvoiceByID", mock.Anything, "inv1", "user-1").Return(nil, abort).Once()
	suite.posting.On("PostSalesInvoiceByID", mock.Anything, "inv1", "user-1").
		Return(&domain.PostingResult{Entry: sampleEntry()}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv1/post", "", true)

	suite.Equal(http.StatusCreated, w.Code)
	suite.posting.AssertNumberOfCalls(suite.T(), "PostSalesInvoiceByID", 2)
}

func (suite *HandlersTestSuite) TestPostInvoice_RetryExhaustedIsUnavailable() {
	abort := apperrors.NewRetryableAbort("lock invoice", errors.New("serialization failure"))
	suite.posting.On("PostSalesInvoiceByID", mock.Anything, "inv1", "user-1").Return(nil, abort).Times(3)

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv1/post", "", true)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.Equal("1", w.Header().Get("Retry-After"))
}

func (suite *HandlersTestSuite) TestGetJournalEntry() {
	entry := sampleEntry()
	suite.posting.On("GetJournalEntry", mock.Anything, "e1").Return(&entry, nil).Once()
	suite.posting.On("GetJournalEntry", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/journal-entries/e1", "", false)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"sourceRef":"sales-invoice:inv1"`)

	w = suite.do(http.MethodGet, "/api/v1/journal-entries/missing", "", false)
	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Inventory ---

func (suite *HandlersTestSuite) TestRecordMovement_Success() {
	qty := decimal.NewFromInt(-3)
	meta := domain.MovementMetadata{DocumentRef: "BL-7", UserID: "user-1"}
	suite.inventory.On("RecordMovement", mock.Anything, "p1", mock.MatchedBy(qty.Equal), domain.MovementSaleOut, meta).
		Return(&domain.StockMovement{MovementID: "m1", ProductID: "p1", Quantity: qty, MovementType: domain.MovementSaleOut, BalanceAfter: decimal.NewFromInt(7)}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/products/p1/movements",
		`{"quantity":"-3","movementType":"SALE_OUT","documentRef":"BL-7"}`, true)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.StockMovementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.BalanceAfter.Equal(decimal.NewFromInt(7)))
}

func (suite *HandlersTestSuite) TestRecordMovement_RejectsInvalidBodies() {
	bodies := map[string]string{
		"zero quantity":    `{"quantity":"0","movementType":"SALE_OUT"}`,
		"missing quantity": `{"movementType":"SALE_OUT"}`,
		"unknown type":     `{"quantity":"1","movementType":"GIFT"}`,
		"malformed":        `{"quantity":`,
	}
	for name, body := range bodies {
		suite.Run(name, func() {
			w := suite.do(http.MethodPost, "/api/v1/products/p1/movements", body, true)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.inventory.AssertNotCalled(suite.T(), "RecordMovement", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestStockOut_InsufficientStockIsConflict() {
	suite.inventory.On("StockOut", mock.Anything, "p1", mock.MatchedBy(decimal.NewFromInt(50).Equal), domain.MovementType(""), mock.Anything).
		Return(nil, fmt.Errorf("%w: product p1 has 10, requested 50", apperrors.ErrInsufficientStock)).Once()

	w := suite.do(http.MethodPost, "/api/v1/products/p1/stock-out", `{"quantity":"50"}`, true)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "insufficient stock")
}

func (suite *HandlersTestSuite) TestStockIn_RejectsNonPositiveQuantity() {
	w := suite.do(http.MethodPost, "/api/v1/products/p1/stock-in", `{"quantity":"-5"}`, true)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestStockIn_Success() {
	suite.inventory.On("StockIn", mock.Anything, "p1", mock.MatchedBy(decimal.NewFromInt(5).Equal), domain.MovementCustomerReturnIn, mock.Anything).
		Return(&domain.StockMovement{MovementID: "m2", Quantity: decimal.NewFromInt(5), MovementType: domain.MovementCustomerReturnIn}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/products/p1/stock-in", `{"quantity":"5","movementType":"CUSTOMER_RETURN_IN"}`, true)

	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *HandlersTestSuite) TestListMovements() {
	next := "tok"
	suite.inventory.On("ListMovements", mock.Anything, "p1", 50, (*string)(nil)).
		Return([]domain.StockMovement{{MovementID: "m3"}, {MovementID: "m2"}}, &next, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/products/p1/movements", "", false)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListMovementsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Movements, 2)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("tok", *resp.NextToken)

	w = suite.do(http.MethodGet, "/api/v1/products/p1/movements?limit=500", "", false)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestReconciliation() {
	suite.inventory.On("ReconcileProduct", mock.Anything, "p1").Return(&domain.StockReconciliation{
		ProductID:      "p1",
		QuantityOnHand: decimal.NewFromInt(9),
		MovementSum:    decimal.NewFromInt(9),
		MovementCount:  6,
		Balanced:       true,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/products/p1/reconciliation", "", false)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ReconciliationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balanced)
	suite.Equal(6, resp.MovementCount)
}

// --- Reporting ---

func (suite *HandlersTestSuite) TestSalesReport_InclusiveDayBounds() {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 23, 59, 59, 999999999, time.UTC)
	suite.reporting.On("SalesReport", mock.Anything, from, end).
		Return(&domain.SalesReport{From: from, To: end, KPIs: domain.SalesKPIs{InvoiceCount: 2}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/sales?from=2024-03-01&to=2024-03-31", "", false)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SalesReportResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("2024-03-31", resp.ToDate)
	suite.Equal(2, resp.KPIs.InvoiceCount)
}

func (suite *HandlersTestSuite) TestSalesReport_InvalidParameters() {
	w := suite.do(http.MethodGet, "/api/v1/reports/sales?from=03/01/2024", "", false)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/reports/sales?from=2024-04-01&to=2024-03-01", "", false)
	suite.Equal(http.StatusBadRequest, w.Code)
}

// --- Admin and health ---

func (suite *HandlersTestSuite) TestReloadReferenceData() {
	suite.resolver.On("Reload", mock.Anything).Return(nil).Once()
	suite.reporting.On("InvalidateCache", mock.Anything).Return(nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/admin/reference-data/reload", "", true)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestHealthz() {
	w := suite.do(http.MethodGet, "/healthz", "", false)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"status":"ok"`)

	suite.healthErr = errors.New("connection refused")
	w = suite.do(http.MethodGet, "/healthz", "", false)
	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.Contains(w.Body.String(), "connection refused")
}
