package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreateProductRequest representa a requisição de criação de produto
type CreateProductRequest struct {
	ID    string          `json:"id" binding:"required"`
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price" binding:"required"`
}

// ProductHandler contém os handlers HTTP do catálogo
type ProductHandler struct {
	useCase *ProductUseCase
	tracer  trace.Tracer
}

// NewProductHandler cria uma nova instância de ProductHandler
func NewProductHandler(useCase *ProductUseCase, tracer trace.Tracer) *ProductHandler {
	return &ProductHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// GetProduct retorna um produto pelo ID
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID := c.Param("id")

	ctx, span := h.tracer.Start(c.Request.Context(), "get_product")
	defer span.End()

	span.SetAttributes(attribute.String("product_id", productID))

	product, err := h.useCase.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing your request"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListProducts lista todos os produtos do catálogo
func (h *ProductHandler) ListProducts(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "list_products")
	defer span.End()

	products, err := h.useCase.ListProducts(ctx)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing your request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// CreateProduct insere um novo produto no catálogo
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "create_product")
	defer span.End()

	product, err := h.useCase.CreateProduct(ctx, req.ID, req.Name, req.Price)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// HealthCheck é o endpoint de health check
func (h *ProductHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "products-service",
	})
}
