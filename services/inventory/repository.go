package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StockRepository define a interface para operações de banco de dados de estoque
type StockRepository interface {
	GetStock(ctx context.Context, productID string) (*StockRecord, error)
	CreateStock(ctx context.Context, record *StockRecord) error

	// Reserve incrementa reserved em uma única atualização condicional.
	// Retorna ErrInsufficientStock quando quantity - reserved < amount.
	Reserve(ctx context.Context, productID string, amount int) error

	// CancelReservation decrementa reserved; ErrInvalidReservationState
	// quando reserved < amount.
	CancelReservation(ctx context.Context, productID string, amount int) error

	// ConfirmReservation decrementa reserved e quantity juntos;
	// ErrInvalidReservationState quando reserved < amount.
	ConfirmReservation(ctx context.Context, productID string, amount int) error

	// UpdateQuantity ajusta quantity; ErrInvalidReservationState quando
	// newQuantity < reserved.
	UpdateQuantity(ctx context.Context, productID string, newQuantity int) error
}

// PostgresStockRepository implementa StockRepository usando PostgreSQL
type PostgresStockRepository struct {
	db *pgxpool.Pool
}

// NewStockRepository cria uma nova instância de PostgresStockRepository
func NewStockRepository(db *pgxpool.Pool) StockRepository {
	return &PostgresStockRepository{
		db: db,
	}
}

// GetStock busca o registro de estoque de um produto
func (r *PostgresStockRepository) GetStock(ctx context.Context, productID string) (*StockRecord, error) {
	var record StockRecord
	err := r.db.QueryRow(ctx, `
		SELECT product_id, quantity, reserved, updated_at
		FROM stock
		WHERE product_id = $1
	`, productID).Scan(&record.ProductID, &record.Quantity, &record.Reserved, &record.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStockNotFound
		}
		return nil, fmt.Errorf("failed to get stock record: %w", err)
	}

	return &record, nil
}

// CreateStock cria um novo registro de estoque
func (r *PostgresStockRepository) CreateStock(ctx context.Context, record *StockRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO stock (product_id, quantity, reserved, updated_at)
		VALUES ($1, $2, $3, $4)
	`, record.ProductID, record.Quantity, record.Reserved, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create stock record: %w", err)
	}
	return nil
}

// Reserve reserva unidades com uma única atualização condicional.
// O guard no WHERE é o que garante a invariante reserved <= quantity sob
// concorrência: duas reservas simultâneas nunca passam ambas pelo guard,
// porque o banco serializa os UPDATEs na mesma linha. Sem leitura prévia,
// sem check-then-update.
func (r *PostgresStockRepository) Reserve(ctx context.Context, productID string, amount int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE stock
		SET reserved = reserved + $2,
		    updated_at = NOW()
		WHERE product_id = $1
		  AND quantity - reserved >= $2
	`, productID, amount)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return r.rejectionError(ctx, productID, ErrInsufficientStock)
	}
	return nil
}

// CancelReservation devolve unidades reservadas
func (r *PostgresStockRepository) CancelReservation(ctx context.Context, productID string, amount int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE stock
		SET reserved = reserved - $2,
		    updated_at = NOW()
		WHERE product_id = $1
		  AND reserved >= $2
	`, productID, amount)
	if err != nil {
		return fmt.Errorf("failed to cancel reservation: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return r.rejectionError(ctx, productID, ErrInvalidReservationState)
	}
	return nil
}

// ConfirmReservation baixa definitivamente as unidades reservadas
func (r *PostgresStockRepository) ConfirmReservation(ctx context.Context, productID string, amount int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE stock
		SET reserved = reserved - $2,
		    quantity = quantity - $2,
		    updated_at = NOW()
		WHERE product_id = $1
		  AND reserved >= $2
	`, productID, amount)
	if err != nil {
		return fmt.Errorf("failed to confirm reservation: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return r.rejectionError(ctx, productID, ErrInvalidReservationState)
	}
	return nil
}

// UpdateQuantity ajusta a quantidade total, nunca abaixo do reservado
func (r *PostgresStockRepository) UpdateQuantity(ctx context.Context, productID string, newQuantity int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE stock
		SET quantity = $2,
		    updated_at = NOW()
		WHERE product_id = $1
		  AND reserved <= $2
	`, productID, newQuantity)
	if err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return r.rejectionError(ctx, productID, ErrInvalidReservationState)
	}
	return nil
}

// rejectionError distingue registro inexistente de guard rejeitado quando o
// UPDATE condicional não afeta nenhuma linha
func (r *PostgresStockRepository) rejectionError(ctx context.Context, productID string, rejection error) error {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM stock WHERE product_id = $1)", productID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check stock existence: %w", err)
	}
	if !exists {
		return ErrStockNotFound
	}
	return fmt.Errorf("%w: product %s", rejection, productID)
}
