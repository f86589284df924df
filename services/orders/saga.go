package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CartItem representa uma linha do carrinho recebida do usuário
type CartItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// sagaStep é um passo da saga: a ação de avanço e, quando existe, a
// compensação que desfaz o passo caso um passo posterior falhe
type sagaStep struct {
	name       string
	action     func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// PlaceOrderSaga orquestra a transação de criação de pedido: precifica o
// carrinho, reserva estoque, persiste e confirma o pedido. As compensações
// são registradas passo a passo e executadas em ordem reversa na primeira
// falha — sem coordenador externo de transações.
type PlaceOrderSaga struct {
	products   ProductClient
	inventory  InventoryClient
	repository Repository
	notifier   NotificationProducer
	tracer     trace.Tracer
}

// NewPlaceOrderSaga cria uma nova instância de PlaceOrderSaga
func NewPlaceOrderSaga(
	products ProductClient,
	inventory InventoryClient,
	repository Repository,
	notifier NotificationProducer,
	tracer trace.Tracer,
) *PlaceOrderSaga {
	return &PlaceOrderSaga{
		products:   products,
		inventory:  inventory,
		repository: repository,
		notifier:   notifier,
		tracer:     tracer,
	}
}

// PlaceOrder executa a saga e retorna o ID do pedido confirmado
func (s *PlaceOrderSaga) PlaceOrder(ctx context.Context, userID string, items []CartItem) (string, error) {
	ctx, span := s.tracer.Start(ctx, "place_order_saga")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.Int("items.count", len(items)),
	)

	if userID == "" {
		return "", ErrEmptyUserID
	}
	if len(items) == 0 {
		return "", ErrEmptyOrder
	}
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return "", errors.New("cart items must have a product id and a positive quantity")
		}
	}

	reservation := make([]ReservationItem, len(items))
	for i, item := range items {
		reservation[i] = ReservationItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	// Estado compartilhado entre os passos
	var lines []OrderLine
	var order *Order

	steps := []sagaStep{
		{
			// Qualquer produto inexistente aborta o carrinho inteiro;
			// nenhuma reserva foi tentada ainda, nada a compensar.
			name: "price_lines",
			action: func(ctx context.Context) error {
				for _, item := range items {
					product, err := s.products.GetProduct(ctx, item.ProductID)
					if err != nil {
						return err
					}

					line, err := NewOrderLine(item.ProductID, item.Quantity, product.Price)
					if err != nil {
						return err
					}
					lines = append(lines, line)
				}
				return nil
			},
		},
		{
			name: "reserve_stock",
			action: func(ctx context.Context) error {
				return s.inventory.ReserveStock(ctx, reservation)
			},
			// Se um passo posterior falhar (ledger de pedidos indisponível,
			// por exemplo), a reserva é liberada em vez de ficar presa.
			compensate: func(ctx context.Context) error {
				return s.inventory.CancelReservation(ctx, reservation)
			},
		},
		{
			name: "create_order",
			action: func(ctx context.Context) error {
				var err error
				order, err = NewOrder(userID, lines)
				if err != nil {
					return err
				}
				return s.repository.CreateOrder(ctx, order)
			},
			// O registro já foi escrito; marcamos como failed em vez de
			// apagar, deixando rastro auditável.
			compensate: func(ctx context.Context) error {
				return s.repository.UpdateOrderStatus(ctx, order.ID, OrderStatusFailed)
			},
		},
		{
			name: "confirm_order",
			action: func(ctx context.Context) error {
				if err := order.MarkAsConfirmed(); err != nil {
					return err
				}
				return s.repository.UpdateOrderStatus(ctx, order.ID, OrderStatusConfirmed)
			},
		},
	}

	if err := s.run(ctx, steps); err != nil {
		span.RecordError(err)
		return "", err
	}

	span.SetAttributes(attribute.String("order_id", order.ID))
	log.Printf("✅ [SAGA] Order confirmed: OrderID=%s UserID=%s Total=%s", order.ID, userID, order.TotalAmount)

	// Notificação é melhor-esforço: falha aqui nunca derruba a saga
	if err := s.notifier.OrderConfirmed(ctx, order); err != nil {
		span.RecordError(err)
		log.Printf("❌ [SAGA] Failed to publish notification for OrderID=%s: %v", order.ID, err)
	}

	return order.ID, nil
}

// run executa os passos em ordem; na primeira falha dispara as compensações
// dos passos já completados, em ordem reversa, e retorna o erro original
func (s *PlaceOrderSaga) run(ctx context.Context, steps []sagaStep) error {
	var completed []sagaStep

	for _, step := range steps {
		stepCtx, stepSpan := s.tracer.Start(ctx, "saga."+step.name)
		err := step.action(stepCtx)
		if err != nil {
			stepSpan.RecordError(err)
			stepSpan.End()

			log.Printf("❌ [SAGA] Step %s failed: %v", step.name, err)
			s.rollback(ctx, completed)
			return fmt.Errorf("%s: %w", step.name, err)
		}
		stepSpan.End()

		if step.compensate != nil {
			completed = append(completed, step)
		}
	}

	return nil
}

// rollback executa as compensações registradas, da última para a primeira
func (s *PlaceOrderSaga) rollback(ctx context.Context, completed []sagaStep) {
	ctx, span := s.tracer.Start(ctx, "saga.rollback")
	defer span.End()

	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		compCtx, compSpan := s.tracer.Start(ctx, "saga.compensate."+step.name)
		if err := step.compensate(compCtx); err != nil {
			// Compensação falha exige reconciliação manual
			compSpan.RecordError(err)
			log.Printf("❌ [SAGA] Compensation for %s failed: %v", step.name, err)
		} else {
			log.Printf("↩️ [SAGA] Compensated step %s", step.name)
		}
		compSpan.End()
	}
}
