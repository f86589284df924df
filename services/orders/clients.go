package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ReservationRejectedError indica que o serviço de inventário rejeitou a
// reserva (estoque insuficiente); carrega a mensagem do serviço
type ReservationRejectedError struct {
	Message string
}

func (e *ReservationRejectedError) Error() string {
	return e.Message
}

// ProductDetails representa um produto retornado pelo catálogo
type ProductDetails struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ReservationItem representa um item de uma requisição de reserva
type ReservationItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ProductClient define o contrato do catálogo consumido pela saga
type ProductClient interface {
	GetProduct(ctx context.Context, productID string) (*ProductDetails, error)
}

// InventoryClient define o contrato do motor de reservas consumido pela saga
type InventoryClient interface {
	ReserveStock(ctx context.Context, items []ReservationItem) error
	CancelReservation(ctx context.Context, items []ReservationItem) error
}

// HTTPProductClient implementa ProductClient sobre HTTP
type HTTPProductClient struct {
	client *resty.Client
}

// NewProductClient cria uma nova instância de HTTPProductClient
func NewProductClient(baseURL string) *HTTPProductClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second)

	return &HTTPProductClient{client: client}
}

// GetProduct busca um produto pelo ID no catálogo
func (c *HTTPProductClient) GetProduct(ctx context.Context, productID string) (*ProductDetails, error) {
	var product ProductDetails

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&product).
		SetPathParam("productId", productID).
		Get("/api/products/{productId}")
	if err != nil {
		return nil, fmt.Errorf("products service unavailable: %w", err)
	}

	if resp.StatusCode() == 404 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("products service returned status %d", resp.StatusCode())
	}

	return &product, nil
}

type reservationRequest struct {
	Items []ReservationItem `json:"items"`
}

type reservationResponse struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message"`
}

// HTTPInventoryClient implementa InventoryClient sobre HTTP
type HTTPInventoryClient struct {
	client *resty.Client
}

// NewInventoryClient cria uma nova instância de HTTPInventoryClient
func NewInventoryClient(baseURL string) *HTTPInventoryClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second)

	return &HTTPInventoryClient{client: client}
}

// ReserveStock reserva estoque para todos os itens (tudo-ou-nada do lado do
// inventário). Um 400 vira ReservationRejectedError com a mensagem do serviço.
func (c *HTTPInventoryClient) ReserveStock(ctx context.Context, items []ReservationItem) error {
	var result reservationResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(reservationRequest{Items: items}).
		SetResult(&result).
		SetError(&result).
		Post("/api/inventory/reserve")
	if err != nil {
		return fmt.Errorf("inventory service unavailable: %w", err)
	}

	if resp.StatusCode() == 400 || resp.StatusCode() == 404 {
		message := result.ErrorMessage
		if message == "" {
			message = "failed to reserve inventory"
		}
		return &ReservationRejectedError{Message: message}
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("inventory service returned status %d", resp.StatusCode())
	}

	return nil
}

// CancelReservation devolve as unidades reservadas dos itens
func (c *HTTPInventoryClient) CancelReservation(ctx context.Context, items []ReservationItem) error {
	var result reservationResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(reservationRequest{Items: items}).
		SetResult(&result).
		SetError(&result).
		Post("/api/inventory/cancel")
	if err != nil {
		return fmt.Errorf("inventory service unavailable: %w", err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("inventory service returned status %d: %s", resp.StatusCode(), result.ErrorMessage)
	}

	return nil
}
