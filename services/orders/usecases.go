package main

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// CreateOrderRequest representa a requisição para criar um pedido
type CreateOrderRequest struct {
	UserID string     `json:"user_id" binding:"required"`
	Items  []CartItem `json:"items" binding:"required,dive"`
}

// OrderUseCase contém a lógica de negócio dos pedidos
type OrderUseCase struct {
	saga       *PlaceOrderSaga
	repository Repository
	tracer     trace.Tracer
}

// NewOrderUseCase cria uma nova instância de OrderUseCase
func NewOrderUseCase(saga *PlaceOrderSaga, repository Repository, tracer trace.Tracer) *OrderUseCase {
	return &OrderUseCase{
		saga:       saga,
		repository: repository,
		tracer:     tracer,
	}
}

// CreateOrder executa a saga de criação de pedido
func (uc *OrderUseCase) CreateOrder(ctx context.Context, req CreateOrderRequest) (string, error) {
	return uc.saga.PlaceOrder(ctx, req.UserID, req.Items)
}

// ListOrders busca os pedidos, de um usuário ou todos
func (uc *OrderUseCase) ListOrders(ctx context.Context, userID string) ([]*Order, error) {
	ctx, span := uc.tracer.Start(ctx, "list_orders")
	defer span.End()

	if userID != "" {
		return uc.repository.GetByUserID(ctx, userID)
	}
	return uc.repository.GetAll(ctx)
}
