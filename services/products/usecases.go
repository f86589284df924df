package main

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ProductUseCase contém a lógica de negócio do catálogo
type ProductUseCase struct {
	repository ProductRepository
	tracer     trace.Tracer
}

// NewProductUseCase cria uma nova instância de ProductUseCase
func NewProductUseCase(repository ProductRepository, tracer trace.Tracer) *ProductUseCase {
	return &ProductUseCase{
		repository: repository,
		tracer:     tracer,
	}
}

// GetProductByID busca um produto pelo ID
func (uc *ProductUseCase) GetProductByID(ctx context.Context, productID string) (*Product, error) {
	ctx, span := uc.tracer.Start(ctx, "get_product_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("product_id", productID))

	if productID == "" {
		return nil, ErrEmptyProductID
	}

	return uc.repository.GetByID(ctx, productID)
}

// ListProducts lista todos os produtos do catálogo
func (uc *ProductUseCase) ListProducts(ctx context.Context) ([]*Product, error) {
	ctx, span := uc.tracer.Start(ctx, "list_products")
	defer span.End()

	return uc.repository.GetAll(ctx)
}

// CreateProduct insere um novo produto no catálogo
func (uc *ProductUseCase) CreateProduct(ctx context.Context, id, name string, price decimal.Decimal) (*Product, error) {
	ctx, span := uc.tracer.Start(ctx, "create_product")
	defer span.End()

	product, err := NewProduct(id, name, price)
	if err != nil {
		return nil, err
	}

	if err := uc.repository.Create(ctx, product); err != nil {
		span.RecordError(err)
		return nil, err
	}

	log.Printf("✅ [CREATE PRODUCT] ID=%s Name=%s Price=%s", product.ID, product.Name, product.Price)
	return product, nil
}
