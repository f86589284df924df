package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OrderHandler contém os handlers HTTP de pedidos
type OrderHandler struct {
	useCase *OrderUseCase
	tracer  trace.Tracer
}

// NewOrderHandler cria uma nova instância de OrderHandler
func NewOrderHandler(useCase *OrderUseCase, tracer trace.Tracer) *OrderHandler {
	return &OrderHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// CreateOrder inicia a saga de criação de pedido
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "create_order")
	defer span.End()

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error_message": err.Error()})
		return
	}

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.Int("items.count", len(req.Items)),
	)

	orderID, err := h.useCase.CreateOrder(ctx, req)
	if err != nil {
		span.RecordError(err)

		// Falhas esperadas (precificação/reserva) voltam como 400 com a
		// mensagem; o resto vira um 500 genérico, sem detalhe interno.
		var rejected *ReservationRejectedError
		switch {
		case errors.Is(err, ErrProductNotFound), errors.As(err, &rejected),
			errors.Is(err, ErrEmptyUserID), errors.Is(err, ErrEmptyOrder):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error_message": err.Error()})
		default:
			log.Printf("❌ [CREATE ORDER] Unexpected failure for UserID=%s: %v", req.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error_message": "An error occurred while processing your order"})
		}
		return
	}

	span.SetAttributes(attribute.String("order_id", orderID))
	c.JSON(http.StatusOK, gin.H{"success": true, "order_id": orderID})
}

// ListOrders lista os pedidos, opcionalmente filtrando por usuário
func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "list_orders")
	defer span.End()

	userID := c.Query("user_id")
	if userID != "" {
		span.SetAttributes(attribute.String("user_id", userID))
	}

	orders, err := h.useCase.ListOrders(ctx, userID)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing your request"})
		return
	}

	if orders == nil {
		orders = []*Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// HealthCheck é o endpoint de health check
func (h *OrderHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "orders-service",
	})
}
