package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/philodia/gescom-core/internal/core/domain"
	portssvc "github.com/philodia/gescom-core/internal/core/ports/services"
	"github.com/philodia/gescom-core/internal/dto"
	"github.com/philodia/gescom-core/internal/middleware"
)

// inventoryHandler handles HTTP requests for stock movements
type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
	retry            RetryPolicy
}

func newInventoryHandler(is portssvc.InventorySvcFacade, retry RetryPolicy) *inventoryHandler {
	return &inventoryHandler{inventoryService: is, retry: retry}
}

// registerInventoryRoutes registers routes for stock movements of a product
func registerInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade, retry RetryPolicy) {
	h := newInventoryHandler(inventoryService, retry)

	products := rg.Group("/products/:productID")
	{
		products.POST("/movements", h.recordMovement)
		products.POST("/stock-in", h.stockIn)
		products.POST("/stock-out", h.stockOut)
		products.GET("/movements", h.listMovements)
		products.GET("/reconciliation", h.reconcile)
	}
}

// recordMovement godoc
// @Summary Record a stock movement
// @Description Applies a signed quantity to the product stock. The sign must match the direction of the movement type.
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   X-User-ID header string true "Acting user"
// @Param   movement body dto.RecordMovementRequest true "Movement"
// @Success 201 {object} dto.StockMovementResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Missing acting user"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 409 {object} map[string]string "Insufficient stock"
// @Failure 503 {object} map[string]string "Transaction aborted, retry later"
// @Router /products/{productID}/movements [post]
func (h *inventoryHandler) recordMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Warn("Missing acting user for stock movement")
		c.JSON(http.StatusUnauthorized, gin.H{"error": middleware.UserIDHeader + " header required"})
		return
	}

	var req dto.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid movement request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("product_id", productID), slog.String("user_id", userID))
	movement, err := withRetry(c.Request.Context(), h.retry, func() (*domain.StockMovement, error) {
		return h.inventoryService.RecordMovement(c.Request.Context(), productID, req.Quantity, req.MovementType, req.Metadata(userID))
	})
	if err != nil {
		respondError(c, logger, err, "Failed to record stock movement")
		return
	}
	c.JSON(http.StatusCreated, dto.ToStockMovementResponse(*movement))
}

// stockIn godoc
// @Summary Add stock to a product
// @Description Records an incoming movement, PURCHASE_IN unless another incoming type is given
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   X-User-ID header string true "Acting user"
// @Param   change body dto.StockChangeRequest true "Positive quantity"
// @Success 201 {object} dto.StockMovementResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Missing acting user"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 503 {object} map[string]string "Transaction aborted, retry later"
// @Router /products/{productID}/stock-in [post]
func (h *inventoryHandler) stockIn(c *gin.Context) {
	h.stockChange(c, h.inventoryService.StockIn)
}

// stockOut godoc
// @Summary Remove stock from a product
// @Description Records an outgoing movement, SALE_OUT unless another outgoing type is given. Stock never goes negative.
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   X-User-ID header string true "Acting user"
// @Param   change body dto.StockChangeRequest true "Positive quantity"
// @Success 201 {object} dto.StockMovementResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Missing acting user"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 409 {object} map[string]string "Insufficient stock"
// @Failure 503 {object} map[string]string "Transaction aborted, retry later"
// @Router /products/{productID}/stock-out [post]
func (h *inventoryHandler) stockOut(c *gin.Context) {
	h.stockChange(c, h.inventoryService.StockOut)
}

type stockChangeFunc func(ctx context.Context, productID string, qty decimal.Decimal, movementType domain.MovementType, meta domain.MovementMetadata) (*domain.StockMovement, error)

// stockChange binds a positive quantity and hands it to StockIn or StockOut.
func (h *inventoryHandler) stockChange(c *gin.Context, apply stockChangeFunc) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Warn("Missing acting user for stock change")
		c.JSON(http.StatusUnauthorized, gin.H{"error": middleware.UserIDHeader + " header required"})
		return
	}

	var req dto.StockChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid stock change request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("product_id", productID), slog.String("user_id", userID))
	movement, err := withRetry(c.Request.Context(), h.retry, func() (*domain.StockMovement, error) {
		return apply(c.Request.Context(), productID, req.Quantity, req.MovementType, req.Metadata(userID))
	})
	if err != nil {
		respondError(c, logger, err, "Failed to record stock change")
		return
	}
	c.JSON(http.StatusCreated, dto.ToStockMovementResponse(*movement))
}

// listMovements godoc
// @Summary List stock movements of a product
// @Description Returns movements newest first, one page at a time
// @Tags inventory
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   limit query int false "Page size (1-200)" default(50)
// @Param   nextToken query string false "Token returned by the previous page"
// @Success 200 {object} dto.ListMovementsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters or token"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to list movements"
// @Router /products/{productID}/movements [get]
func (h *inventoryHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid movement list parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	movements, nextToken, err := h.inventoryService.ListMovements(c.Request.Context(), productID, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, logger.With(slog.String("product_id", productID)), err, "Failed to list stock movements")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMovementsResponse(movements, nextToken))
}

// reconcile godoc
// @Summary Reconcile product stock
// @Description Compares the quantity on hand with the sum of the product's movements
// @Tags inventory
// @Produce  json
// @Param   productID path string true "Product ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to reconcile product"
// @Router /products/{productID}/reconciliation [get]
func (h *inventoryHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	rec, err := withRetry(c.Request.Context(), h.retry, func() (*domain.StockReconciliation, error) {
		return h.inventoryService.ReconcileProduct(c.Request.Context(), productID)
	})
	if err != nil {
		respondError(c, logger.With(slog.String("product_id", productID)), err, "Failed to reconcile product")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(*rec))
}
