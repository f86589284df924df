package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ReserveStockRequest representa a requisição de reserva de estoque
type ReserveStockRequest struct {
	Items []ReservationItem `json:"items" binding:"required,dive"`
}

// UpdateQuantityRequest representa a requisição de ajuste de quantidade
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CreateStockRequest representa a requisição de criação de registro de estoque
type CreateStockRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
}

// InventoryHandler contém os handlers HTTP para inventário
type InventoryHandler struct {
	useCase *InventoryUseCase
	tracer  trace.Tracer
}

// NewInventoryHandler cria uma nova instância de InventoryHandler
func NewInventoryHandler(useCase *InventoryUseCase, tracer trace.Tracer) *InventoryHandler {
	return &InventoryHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// ReserveStock reserva estoque para todos os itens (tudo-ou-nada)
func (h *InventoryHandler) ReserveStock(c *gin.Context) {
	var req ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error_message": err.Error()})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "reserve_inventory")
	defer span.End()

	span.SetAttributes(attribute.Int("items.count", len(req.Items)))

	if err := h.useCase.ReserveStock(ctx, req.Items); err != nil {
		span.RecordError(err)
		h.rejectOrFail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CancelStock cancela reservas previamente efetuadas
func (h *InventoryHandler) CancelStock(c *gin.Context) {
	var req ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error_message": err.Error()})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "cancel_inventory")
	defer span.End()

	if err := h.useCase.CancelStock(ctx, req.Items); err != nil {
		span.RecordError(err)
		h.rejectOrFail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ConfirmStock converte reservas em baixa definitiva
func (h *InventoryHandler) ConfirmStock(c *gin.Context) {
	var req ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error_message": err.Error()})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "confirm_inventory")
	defer span.End()

	if err := h.useCase.ConfirmStock(ctx, req.Items); err != nil {
		span.RecordError(err)
		h.rejectOrFail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetStock retorna o registro de estoque de um produto
func (h *InventoryHandler) GetStock(c *gin.Context) {
	productID := c.Param("productId")

	ctx, span := h.tracer.Start(c.Request.Context(), "get_inventory")
	defer span.End()

	span.SetAttributes(attribute.String("product_id", productID))

	record, err := h.useCase.GetStock(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrStockNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "stock record not found"})
			return
		}
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get stock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id": record.ProductID,
		"quantity":   record.Quantity,
		"reserved":   record.Reserved,
		"available":  record.Available(),
	})
}

// CreateStock cria um novo registro de estoque
func (h *InventoryHandler) CreateStock(c *gin.Context) {
	var req CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "create_inventory")
	defer span.End()

	record, err := h.useCase.CreateStock(ctx, req.ProductID, req.Quantity)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stock record"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// UpdateQuantity ajusta a quantidade total de um produto
func (h *InventoryHandler) UpdateQuantity(c *gin.Context) {
	productID := c.Param("productId")

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "update_inventory_quantity")
	defer span.End()

	if err := h.useCase.UpdateQuantity(ctx, productID, *req.Quantity); err != nil {
		span.RecordError(err)
		h.rejectOrFail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// HealthCheck é o endpoint de health check
func (h *InventoryHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "inventory-service",
	})
}

// rejectOrFail mapeia erros esperados para 400/404 e o resto para um 500
// genérico, sem vazar detalhe interno
func (h *InventoryHandler) rejectOrFail(c *gin.Context, err error) {
	var invErr *InventoryError
	switch {
	case errors.Is(err, ErrStockNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error_message": err.Error()})
	case errors.Is(err, ErrEmptyProductID), errors.Is(err, ErrInvalidAmount), errors.As(err, &invErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error_message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error_message": "An error occurred while processing your request"})
	}
}
