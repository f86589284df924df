package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository define a interface para operações de banco de dados de pedidos
type Repository interface {
	// CreateOrder persiste o cabeçalho e as linhas como uma única escrita
	// lógica do ponto de vista do chamador
	CreateOrder(ctx context.Context, order *Order) error

	// UpdateOrderStatus atualiza o status de um pedido
	UpdateOrderStatus(ctx context.Context, orderID string, status string) error

	// GetByUserID busca os pedidos de um usuário, com linhas
	GetByUserID(ctx context.Context, userID string) ([]*Order, error)

	// GetAll busca todos os pedidos, com linhas
	GetAll(ctx context.Context) ([]*Order, error)
}

// OrderRepository implementa Repository usando PostgreSQL
type OrderRepository struct {
	db *pgxpool.Pool
}

// NewOrderRepository cria uma nova instância de OrderRepository
func NewOrderRepository(db *pgxpool.Pool) Repository {
	return &OrderRepository{
		db: db,
	}
}

// CreateOrder cria o pedido e suas linhas na mesma transação
func (r *OrderRepository) CreateOrder(ctx context.Context, order *Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, status, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, order.ID, order.UserID, order.Status, order.TotalAmount, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, line := range order.Lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_lines (order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
		`, order.ID, line.ProductID, line.Quantity, line.UnitPrice)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

// UpdateOrderStatus atualiza o status de um pedido
func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status != $1
	`, status, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

// GetByUserID busca os pedidos de um usuário
func (r *OrderRepository) GetByUserID(ctx context.Context, userID string) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, user_id, status, total_amount, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
}

// GetAll busca todos os pedidos
func (r *OrderRepository) GetAll(ctx context.Context) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, user_id, status, total_amount, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
	`)
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var order Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		lines, err := r.getOrderLines(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Lines = lines
	}

	return orders, nil
}

func (r *OrderRepository) getOrderLines(ctx context.Context, orderID string) ([]OrderLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT product_id, quantity, unit_price
		FROM order_lines
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []OrderLine
	for rows.Next() {
		var line OrderLine
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}
