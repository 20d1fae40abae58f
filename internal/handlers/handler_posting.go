package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/philodia/gescom-core/internal/core/domain"
	portssvc "github.com/philodia/gescom-core/internal/core/ports/services"
	"github.com/philodia/gescom-core/internal/dto"
	"github.com/philodia/gescom-core/internal/middleware"
)

// postingHandler handles HTTP requests for invoice postings and journal entries
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
	retry          RetryPolicy
}

func newPostingHandler(ps portssvc.PostingSvcFacade, retry RetryPolicy) *postingHandler {
	return &postingHandler{postingService: ps, retry: retry}
}

// registerPostingRoutes registers invoice posting and journal entry routes
func registerPostingRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade, retry RetryPolicy) {
	h := newPostingHandler(postingService, retry)

	rg.POST("/invoices/:invoiceID/post", h.postInvoice)
	rg.GET("/journal-entries/:entryID", h.getJournalEntry)
}

// postInvoice godoc
// @Summary Post a sales invoice to the ledger
// @Description Builds the balanced sales entry of a finalized invoice, updates the client balance and marks the invoice posted.
// @Description A first posting answers 201, a repeated one 200 with the original entry.
// @Tags postings
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   X-User-ID header string true "Acting user"
// @Success 201 {object} dto.PostInvoiceResponse "Invoice posted"
// @Success 200 {object} dto.PostInvoiceResponse "Invoice was already posted"
// @Failure 400 {object} map[string]string "Invoice cannot be posted"
// @Failure 401 {object} map[string]string "Missing acting user"
// @Failure 404 {object} map[string]string "Invoice, client or chart record not found"
// @Failure 409 {object} map[string]string "Invoice state conflict"
// @Failure 422 {object} map[string]string "Entry does not balance"
// @Failure 503 {object} map[string]string "Transaction aborted, retry later"
// @Router /invoices/{invoiceID}/post [post]
func (h *postingHandler) postInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Warn("Missing acting user for invoice posting")
		c.JSON(http.StatusUnauthorized, gin.H{"error": middleware.UserIDHeader + " header required"})
		return
	}

	logger = logger.With(slog.String("invoice_id", invoiceID), slog.String("user_id", userID))

	result, err := withRetry(c.Request.Context(), h.retry, func() (*domain.PostingResult, error) {
		return h.postingService.PostSalesInvoiceByID(c.Request.Context(), invoiceID, userID)
	})
	if err != nil {
		respondError(c, logger, err, "Failed to post invoice")
		return
	}

	status := http.StatusCreated
	if result.AlreadyPosted {
		status = http.StatusOK
	}
	logger.Info("Invoice posting handled",
		slog.String("entry_id", result.Entry.EntryID),
		slog.Bool("already_posted", result.AlreadyPosted))
	c.JSON(status, dto.ToPostInvoiceResponse(*result))
}

// getJournalEntry godoc
// @Summary Get a journal entry
// @Description Retrieves a posted journal entry with its lines and totals
// @Tags postings
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 500 {object} map[string]string "Failed to get journal entry"
// @Router /journal-entries/{entryID} [get]
func (h *postingHandler) getJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	entry, err := h.postingService.GetJournalEntry(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, logger.With(slog.String("entry_id", entryID)), err, "Failed to get journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(*entry))
}
