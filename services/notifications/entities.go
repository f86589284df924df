package main

import "github.com/shopspring/decimal"

// OrderNotification representa o evento de pedido confirmado consumido da fila
type OrderNotification struct {
	OrderID     string          `json:"order_id"`
	UserID      string          `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
