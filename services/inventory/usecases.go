package main

import (
	"context"
	"errors"
	"log"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrStockNotFound  = errors.New("stock record not found")
	ErrEmptyProductID = errors.New("product id cannot be empty")
	ErrInvalidAmount  = errors.New("amount must be positive")
)

// Erros customizados
var (
	ErrInsufficientStock       = &InventoryError{Message: "insufficient stock"}
	ErrInvalidReservationState = &InventoryError{Message: "invalid reservation state"}
)

type InventoryError struct {
	Message string
}

func (e *InventoryError) Error() string {
	return e.Message
}

// InventoryUseCase contém a lógica de negócio do inventário
type InventoryUseCase struct {
	repository StockRepository
	tracer     trace.Tracer
}

// NewInventoryUseCase cria uma nova instância de InventoryUseCase
func NewInventoryUseCase(repository StockRepository, tracer trace.Tracer) *InventoryUseCase {
	return &InventoryUseCase{
		repository: repository,
		tracer:     tracer,
	}
}

// ReserveStock reserva estoque para todos os itens, na ordem recebida.
// A operação é tudo-ou-nada do ponto de vista do chamador: na primeira
// falha, toda reserva já efetuada é cancelada antes de retornar o erro.
func (uc *InventoryUseCase) ReserveStock(ctx context.Context, items []ReservationItem) error {
	ctx, span := uc.tracer.Start(ctx, "reserve_stock")
	defer span.End()

	span.SetAttributes(attribute.Int("items.count", len(items)))

	if len(items) == 0 {
		return &InventoryError{Message: "reservation must contain at least one item"}
	}
	for _, item := range items {
		if item.ProductID == "" {
			return ErrEmptyProductID
		}
		if item.Quantity <= 0 {
			return ErrInvalidAmount
		}
	}

	// Acumulador explícito das reservas que deram certo: apenas itens cujo
	// reserve retornou sucesso entram aqui, e o rollback compensa exatamente
	// esta lista, em ordem reversa.
	reserved := make([]ReservationItem, 0, len(items))

	for _, item := range items {
		if err := uc.repository.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("❌ [RESERVE] Failed for ProductID=%s Quantity=%d: %v", item.ProductID, item.Quantity, err)
			span.RecordError(err)

			uc.rollbackReservations(ctx, reserved)
			return err
		}

		log.Printf("✅ [RESERVE] ProductID=%s Quantity=%d", item.ProductID, item.Quantity)
		reserved = append(reserved, item)
	}

	return nil
}

// rollbackReservations cancela as reservas já efetuadas, em ordem reversa
func (uc *InventoryUseCase) rollbackReservations(ctx context.Context, reserved []ReservationItem) {
	ctx, span := uc.tracer.Start(ctx, "rollback_reservations")
	defer span.End()

	for i := len(reserved) - 1; i >= 0; i-- {
		item := reserved[i]
		if err := uc.repository.CancelReservation(ctx, item.ProductID, item.Quantity); err != nil {
			// Falha na compensação exige intervenção manual; o registro fica
			// com unidades presas em reserved.
			span.RecordError(err)
			log.Printf("❌ [ROLLBACK] Failed to cancel reservation ProductID=%s Quantity=%d: %v", item.ProductID, item.Quantity, err)
			continue
		}
		log.Printf("↩️ [ROLLBACK] Cancelled reservation ProductID=%s Quantity=%d", item.ProductID, item.Quantity)
	}
}

// CancelStock cancela reservas previamente efetuadas
func (uc *InventoryUseCase) CancelStock(ctx context.Context, items []ReservationItem) error {
	ctx, span := uc.tracer.Start(ctx, "cancel_stock")
	defer span.End()

	for _, item := range items {
		if item.ProductID == "" {
			return ErrEmptyProductID
		}
		if item.Quantity <= 0 {
			return ErrInvalidAmount
		}
	}

	for _, item := range items {
		if err := uc.repository.CancelReservation(ctx, item.ProductID, item.Quantity); err != nil {
			span.RecordError(err)
			return err
		}
		log.Printf("↩️ [CANCEL] ProductID=%s Quantity=%d", item.ProductID, item.Quantity)
	}
	return nil
}

// ConfirmStock converte reservas em baixa definitiva de estoque
func (uc *InventoryUseCase) ConfirmStock(ctx context.Context, items []ReservationItem) error {
	ctx, span := uc.tracer.Start(ctx, "confirm_stock")
	defer span.End()

	for _, item := range items {
		if item.ProductID == "" {
			return ErrEmptyProductID
		}
		if item.Quantity <= 0 {
			return ErrInvalidAmount
		}
	}

	for _, item := range items {
		if err := uc.repository.ConfirmReservation(ctx, item.ProductID, item.Quantity); err != nil {
			span.RecordError(err)
			return err
		}
		log.Printf("✅ [CONFIRM] ProductID=%s Quantity=%d", item.ProductID, item.Quantity)
	}
	return nil
}

// GetStock busca o registro de estoque de um produto
func (uc *InventoryUseCase) GetStock(ctx context.Context, productID string) (*StockRecord, error) {
	ctx, span := uc.tracer.Start(ctx, "get_stock")
	defer span.End()

	if productID == "" {
		return nil, ErrEmptyProductID
	}

	return uc.repository.GetStock(ctx, productID)
}

// CreateStock cria um novo registro de estoque com reserved zerado
func (uc *InventoryUseCase) CreateStock(ctx context.Context, productID string, quantity int) (*StockRecord, error) {
	ctx, span := uc.tracer.Start(ctx, "create_stock")
	defer span.End()

	record, err := NewStockRecord(productID, quantity)
	if err != nil {
		return nil, err
	}

	if err := uc.repository.CreateStock(ctx, record); err != nil {
		span.RecordError(err)
		return nil, err
	}

	log.Printf("✅ [CREATE STOCK] ProductID=%s Quantity=%d", productID, quantity)
	return record, nil
}

// UpdateQuantity ajusta a quantidade total de um produto
func (uc *InventoryUseCase) UpdateQuantity(ctx context.Context, productID string, newQuantity int) error {
	ctx, span := uc.tracer.Start(ctx, "update_quantity")
	defer span.End()

	if productID == "" {
		return ErrEmptyProductID
	}
	if newQuantity < 0 {
		return &InventoryError{Message: "quantity cannot be negative"}
	}

	if err := uc.repository.UpdateQuantity(ctx, productID, newQuantity); err != nil {
		span.RecordError(err)
		return err
	}

	log.Printf("✅ [UPDATE QUANTITY] ProductID=%s NewQuantity=%d", productID, newQuantity)
	return nil
}
