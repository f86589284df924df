package main

import (
	"fmt"
	"time"
)

// StockRecord representa o estoque de um produto
type StockRecord struct {
	ProductID string    `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Reserved  int       `json:"reserved" db:"reserved"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewStockRecord cria uma nova instância de StockRecord
func NewStockRecord(productID string, quantity int) (*StockRecord, error) {
	if productID == "" {
		return nil, ErrEmptyProductID
	}
	if quantity < 0 {
		return nil, &InventoryError{Message: "quantity cannot be negative"}
	}

	return &StockRecord{
		ProductID: productID,
		Quantity:  quantity,
		Reserved:  0,
		UpdatedAt: time.Now(),
	}, nil
}

// Available retorna a quantidade disponível para novas reservas
func (s *StockRecord) Available() int {
	return s.Quantity - s.Reserved
}

// CanReserve verifica se é possível reservar a quantidade solicitada
func (s *StockRecord) CanReserve(amount int) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}
	return s.Available() >= amount, nil
}

// Reserve reserva unidades do estoque
func (s *StockRecord) Reserve(amount int) error {
	ok, err := s.CanReserve(amount)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, amount, s.Available())
	}

	s.Reserved += amount
	s.UpdatedAt = time.Now()
	return nil
}

// CancelReservation devolve unidades reservadas ao estoque disponível
func (s *StockRecord) CancelReservation(amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > s.Reserved {
		return fmt.Errorf("%w: cannot cancel %d, only %d reserved", ErrInvalidReservationState, amount, s.Reserved)
	}

	s.Reserved -= amount
	s.UpdatedAt = time.Now()
	return nil
}

// ConfirmReservation converte unidades reservadas em baixa definitiva de estoque
func (s *StockRecord) ConfirmReservation(amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > s.Reserved {
		return fmt.Errorf("%w: cannot confirm %d, only %d reserved", ErrInvalidReservationState, amount, s.Reserved)
	}

	s.Reserved -= amount
	s.Quantity -= amount
	s.UpdatedAt = time.Now()
	return nil
}

// UpdateQuantity ajusta a quantidade total, nunca abaixo do que está reservado
func (s *StockRecord) UpdateQuantity(newQuantity int) error {
	if newQuantity < s.Reserved {
		return fmt.Errorf("%w: cannot set quantity to %d, %d units are reserved", ErrInvalidReservationState, newQuantity, s.Reserved)
	}

	s.Quantity = newQuantity
	s.UpdatedAt = time.Now()
	return nil
}

// ReservationItem representa um item de uma requisição de reserva
type ReservationItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}
