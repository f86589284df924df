package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus representa os possíveis status de um pedido
const (
	OrderStatusCreated   = "created"
	OrderStatusConfirmed = "confirmed"
	OrderStatusFailed    = "failed"
)

var (
	ErrEmptyUserID = errors.New("user id cannot be empty")
	ErrEmptyOrder  = errors.New("order must contain at least one line")
)

// OrderLine representa um item de um pedido, com o preço capturado no
// momento da compra — imutável depois disso
type OrderLine struct {
	ProductID string          `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// NewOrderLine cria uma nova instância de OrderLine
func NewOrderLine(productID string, quantity int, unitPrice decimal.Decimal) (OrderLine, error) {
	if productID == "" {
		return OrderLine{}, errors.New("product id cannot be empty")
	}
	if quantity <= 0 {
		return OrderLine{}, errors.New("quantity must be positive")
	}
	if unitPrice.LessThanOrEqual(decimal.Zero) {
		return OrderLine{}, errors.New("unit price must be positive")
	}

	return OrderLine{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}, nil
}

// Order representa um pedido no sistema
type Order struct {
	ID          string          `json:"id" db:"id"`
	UserID      string          `json:"user_id" db:"user_id"`
	Status      string          `json:"status" db:"status"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
	Lines       []OrderLine     `json:"lines"`
}

// NewOrder cria uma nova instância de Order com status created.
// O total é calculado uma única vez aqui e nunca recalculado.
func NewOrder(userID string, lines []OrderLine) (*Order, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return &Order{
		ID:          uuid.New().String(),
		UserID:      userID,
		Status:      OrderStatusCreated,
		TotalAmount: total,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Lines:       lines,
	}, nil
}

// MarkAsConfirmed marca o pedido como confirmado
func (o *Order) MarkAsConfirmed() error {
	if o.Status != OrderStatusCreated {
		return fmt.Errorf("cannot confirm order in %s status", o.Status)
	}

	o.Status = OrderStatusConfirmed
	o.UpdatedAt = time.Now()
	return nil
}

// MarkAsFailed marca o pedido como falho
func (o *Order) MarkAsFailed() error {
	if o.Status != OrderStatusCreated {
		return fmt.Errorf("cannot mark order as failed in %s status", o.Status)
	}

	o.Status = OrderStatusFailed
	o.UpdatedAt = time.Now()
	return nil
}
