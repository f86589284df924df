package main

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrEmptyProductID  = errors.New("product id cannot be empty")
)

// Product representa um produto do catálogo
type Product struct {
	ID        string          `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// NewProduct cria uma nova instância de Product
func NewProduct(id, name string, price decimal.Decimal) (*Product, error) {
	if id == "" {
		return nil, ErrEmptyProductID
	}
	if name == "" {
		return nil, errors.New("product name cannot be empty")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("product price must be positive")
	}

	return &Product{
		ID:        id,
		Name:      name,
		Price:     price,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}
