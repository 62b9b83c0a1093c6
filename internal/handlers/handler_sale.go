package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retailtrack/retail_mgmt_app/internal/apperrors"
	portssvc "github.com/retailtrack/retail_mgmt_app/internal/core/ports/services"
	"github.com/retailtrack/retail_mgmt_app/internal/core/services"
	"github.com/retailtrack/retail_mgmt_app/internal/dto"
	"github.com/retailtrack/retail_mgmt_app/internal/middleware"
)

// saleHandler handles HTTP requests related to sales.
type saleHandler struct {
	saleService portssvc.SaleSvcFacade
}

func newSaleHandler(ss portssvc.SaleSvcFacade) *saleHandler {
	return &saleHandler{
		saleService: ss,
	}
}

// registerSaleRoutes registers routes related to sales.
func registerSaleRoutes(rg *gin.RouterGroup, saleService portssvc.SaleSvcFacade) {
	h := newSaleHandler(saleService)

	sales := rg.Group("/sales")
	{
		sales.POST("", h.postSale)
		sales.GET("", h.listSales)
		sales.GET("/:saleID", h.getSale)
		sales.POST("/:saleID/void", h.voidSale)
	}
}

// postSale godoc
// @Summary Post a new sale
// @Description Validates and atomically posts a sale: stock is decremented, the sale is persisted and the income ledger entry is recorded
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   sale body dto.CreateSaleRequest true "Sale details"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} map[string]string "Invalid input, unknown customer or unknown product"
// @Failure 409 {object} map[string]string "Insufficient stock or posting conflict"
// @Failure 500 {object} map[string]string "Failed to post sale"
// @Router /sales [post]
func (h *saleHandler) postSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("actor", actor), slog.String("customer_id", req.CustomerID))

	sale, err := h.saleService.PostSale(c.Request.Context(), req, actor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptySale),
			errors.Is(err, services.ErrUnknownCustomer),
			errors.Is(err, services.ErrUnknownProduct),
			errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error posting sale", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInsufficientStock):
			logger.Warn("Insufficient stock posting sale", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrPostingConflict):
			logger.Warn("Sale posting conflict after retries", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": "Sale could not be posted due to concurrent stock movements, please retry"})
		case errors.Is(err, apperrors.ErrLedgerPostingFailed):
			logger.Error("Ledger posting failure for sale", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Sale posting could not be confirmed, manual reconciliation may be required"})
		default:
			logger.Error("Failed to post sale in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post sale"})
		}
		return
	}

	logger.Info("Sale posted successfully", slog.String("sale_id", sale.SaleID), slog.String("total", sale.Total.String()))
	c.JSON(http.StatusCreated, dto.ToSaleResponse(sale))
}

// getSale godoc
// @Summary Get a sale by ID
// @Description Retrieves a sale and its lines
// @Tags sales
// @Produce  json
// @Param   saleID path string true "Sale ID"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} map[string]string "Sale not found"
// @Failure 500 {object} map[string]string "Failed to retrieve sale"
// @Router /sales/{saleID} [get]
func (h *saleHandler) getSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	saleID := c.Param("saleID")

	sale, err := h.saleService.GetSaleByID(c.Request.Context(), saleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Sale not found", slog.String("sale_id", saleID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
			return
		}
		logger.Error("Failed to get sale from service", slog.String("error", err.Error()), slog.String("sale_id", saleID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sale"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

// listSales godoc
// @Summary List sales
// @Description Retrieves a paginated list of sales within a date range, newest first
// @Tags sales
// @Produce  json
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Param   includeVoided query bool false "Include voided sales" default(false)
// @Success 200 {object} dto.ListSalesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list sales"
// @Router /sales [get]
func (h *saleHandler) listSales(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListSalesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListSales", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid list parameters", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list sales from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sales"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// voidSale godoc
// @Summary Void a sale
// @Description Reverses a completed sale: stock is restored and a reversing ledger entry is posted
// @Tags sales
// @Produce  json
// @Param   saleID path string true "Sale ID"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} map[string]string "Sale not found"
// @Failure 409 {object} map[string]string "Sale is already voided"
// @Failure 500 {object} map[string]string "Failed to void sale"
// @Router /sales/{saleID}/void [post]
func (h *saleHandler) voidSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	saleID := c.Param("saleID")
	actor := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("sale_id", saleID), slog.String("actor", actor))

	sale, err := h.saleService.VoidSale(c.Request.Context(), saleID, actor)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Sale not found for void")
			c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		case errors.Is(err, services.ErrSaleAlreadyVoided):
			logger.Warn("Sale already voided")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Sale void conflicted", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": "Sale could not be voided, please retry"})
		default:
			logger.Error("Failed to void sale in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to void sale"})
		}
		return
	}

	logger.Info("Sale voided successfully")
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}
