package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductRepository define a interface para operações de banco de dados do catálogo
type ProductRepository interface {
	GetByID(ctx context.Context, productID string) (*Product, error)
	GetAll(ctx context.Context) ([]*Product, error)
	Create(ctx context.Context, product *Product) error
}

// PostgresProductRepository implementa ProductRepository usando PostgreSQL
type PostgresProductRepository struct {
	db *pgxpool.Pool
}

// NewProductRepository cria uma nova instância de PostgresProductRepository
func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &PostgresProductRepository{
		db: db,
	}
}

// GetByID busca um produto pelo ID
func (r *PostgresProductRepository) GetByID(ctx context.Context, productID string) (*Product, error) {
	var product Product
	err := r.db.QueryRow(ctx, `
		SELECT id, name, price, created_at, updated_at
		FROM products
		WHERE id = $1
	`, productID).Scan(&product.ID, &product.Name, &product.Price, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// GetAll lista todos os produtos do catálogo
func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]*Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, price, created_at, updated_at
		FROM products
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		var product Product
		if err := rows.Scan(&product.ID, &product.Name, &product.Price, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &product)
	}

	return products, rows.Err()
}

// Create insere um novo produto no catálogo
func (r *PostgresProductRepository) Create(ctx context.Context, product *Product) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, product.ID, product.Name, product.Price, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}
