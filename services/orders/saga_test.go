package main

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.opentelemetry.io/otel/trace/noop"
)

// MockProductClient é um mock do catálogo de produtos
type MockProductClient struct {
	mock.Mock
}

func (m *MockProductClient) GetProduct(ctx context.Context, productID string) (*ProductDetails, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ProductDetails), args.Error(1)
}

// MockInventoryClient é um mock do motor de reservas
type MockInventoryClient struct {
	mock.Mock
}

func (m *MockInventoryClient) ReserveStock(ctx context.Context, items []ReservationItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockInventoryClient) CancelReservation(ctx context.Context, items []ReservationItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

// MockOrderRepository é um mock do repositório de pedidos
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status string) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByUserID(ctx context.Context, userID string) ([]*Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockOrderRepository) GetAll(ctx context.Context) ([]*Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

// MockNotificationProducer é um mock do publicador de notificações
type MockNotificationProducer struct {
	mock.Mock
}

func (m *MockNotificationProducer) OrderConfirmed(ctx context.Context, order *Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type sagaMocks struct {
	products  *MockProductClient
	inventory *MockInventoryClient
	repo      *MockOrderRepository
	notifier  *MockNotificationProducer
}

func newTestSaga() (*PlaceOrderSaga, *sagaMocks) {
	mocks := &sagaMocks{
		products:  new(MockProductClient),
		inventory: new(MockInventoryClient),
		repo:      new(MockOrderRepository),
		notifier:  new(MockNotificationProducer),
	}
	tracer := noop.NewTracerProvider().Tracer("test")
	saga := NewPlaceOrderSaga(mocks.products, mocks.inventory, mocks.repo, mocks.notifier, tracer)
	return saga, mocks
}

func TestPlaceOrder_Success(t *testing.T) {
	// Arrange
	saga, mocks := newTestSaga()
	ctx := context.Background()
	items := []CartItem{{ProductID: "product-a", Quantity: 2}}
	reservation := []ReservationItem{{ProductID: "product-a", Quantity: 2}}

	mocks.products.On("GetProduct", mock.Anything, "product-a").
		Return(&ProductDetails{ID: "product-a", Name: "Product A", Price: decimal.RequireFromString("9.99")}, nil)
	mocks.inventory.On("ReserveStock", mock.Anything, reservation).Return(nil)

	var persisted *Order
	mocks.repo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*main.Order")).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*Order)
		}).
		Return(nil)
	mocks.repo.On("UpdateOrderStatus", mock.Anything, mock.AnythingOfType("string"), OrderStatusConfirmed).Return(nil)
	mocks.notifier.On("OrderConfirmed", mock.Anything, mock.AnythingOfType("*main.Order")).Return(nil)

	// Act
	orderID, err := saga.PlaceOrder(ctx, "user-456", items)

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, orderID)
	assert.NotNil(t, persisted)
	assert.Equal(t, orderID, persisted.ID)
	assert.Equal(t, "user-456", persisted.UserID)
	// 2 × 9.99 = 19.98
	assert.True(t, persisted.TotalAmount.Equal(decimal.RequireFromString("19.98")),
		"expected total 19.98, got %s", persisted.TotalAmount)
	assert.Equal(t, OrderStatusConfirmed, persisted.Status)

	mocks.inventory.AssertNotCalled(t, "CancelReservation", mock.Anything, mock.Anything)
	mocks.repo.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, OrderStatusFailed)
	mocks.notifier.AssertExpectations(t)
}

func TestPlaceOrder_ProductNotFound(t *testing.T) {
	// Arrange
	saga, mocks := newTestSaga()
	ctx := context.Background()
	items := []CartItem{
		{ProductID: "product-a", Quantity: 1},
		{ProductID: "product-missing", Quantity: 1},
	}

	mocks.products.On("GetProduct", mock.Anything, "product-a").
		Return(&ProductDetails{ID: "product-a", Name: "Product A", Price: decimal.RequireFromString("1.00")}, nil)
	mocks.products.On("GetProduct", mock.Anything, "product-missing").
		Return(nil, ErrProductNotFound)

	// Act
	orderID, err := saga.PlaceOrder(ctx, "user-456", items)

	// Assert
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrProductNotFound))
	assert.Empty(t, orderID)

	// O carrinho inteiro aborta antes de qualquer reserva ou escrita
	mocks.inventory.AssertNotCalled(t, "ReserveStock", mock.Anything, mock.Anything)
	mocks.inventory.AssertNotCalled(t, "CancelReservation", mock.Anything, mock.Anything)
	mocks.repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	mocks.notifier.AssertNotCalled(t, "OrderConfirmed", mock.Anything, mock.Anything)
}

func TestPlaceOrder_ReservationRejected(t *testing.T) {
	// Arrange
	saga, mocks := newTestSaga()
	ctx := context.Background()
	items := []CartItem{{ProductID: "product-a", Quantity: 5}}
	reservation := []ReservationItem{{ProductID: "product-a", Quantity: 5}}

	mocks.products.On("GetProduct", mock.Anything, "product-a").
		Return(&ProductDetails{ID: "product-a", Name: "Product A", Price: decimal.RequireFromString("9.99")}, nil)
	mocks.inventory.On("ReserveStock", mock.Anything, reservation).
		Return(&ReservationRejectedError{Message: "insufficient stock: requested 5, available 3"})

	// Act
	orderID, err := saga.PlaceOrder(ctx, "user-456", items)

	// Assert
	assert.Error(t, err)
	var rejected *ReservationRejectedError
	assert.True(t, errors.As(err, &rejected))
	assert.Empty(t, orderID)

	// A reserva falhou por inteiro: nada foi reservado, nada a cancelar
	mocks.inventory.AssertNotCalled(t, "CancelReservation", mock.Anything, mock.Anything)
	mocks.repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	mocks.notifier.AssertNotCalled(t, "OrderConfirmed", mock.Anything, mock.Anything)
}

func TestPlaceOrder_PersistFailureReleasesReservation(t *testing.T) {
	// Arrange
	saga, mocks := newTestSaga()
	ctx := context.Background()
	items := []CartItem{{ProductID: "product-a", Quantity: 2}}
	reservation := []ReservationItem{{ProductID: "product-a", Quantity: 2}}

	mocks.products.On("GetProduct", mock.Anything, "product-a").
		Return(&ProductDetails{ID: "product-a", Name: "Product A", Price: decimal.RequireFromString("9.99")}, nil)
	mocks.inventory.On("ReserveStock", mock.Anything, reservation).Return(nil)
	mocks.repo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*main.Order")).
		Return(errors.New("connection refused"))
	mocks.inventory.On("CancelReservation", mock.Anything, reservation).Return(nil)

	// Act
	orderID, err := saga.PlaceOrder(ctx, "user-456", items)

	// Assert
	assert.Error(t, err)
	assert.Empty(t, orderID)

	// A reserva não fica presa quando o ledger de pedidos falha
	mocks.inventory.AssertCalled(t, "CancelReservation", mock.Anything, reservation)
	mocks.repo.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
	mocks.notifier.AssertNotCalled(t, "OrderConfirmed", mock.Anything, mock.Anything)
}

func TestPlaceOrder_ConfirmFailureCompensatesInReverseOrder(t *testing.T) {
	// Arrange
	saga, mocks := newTestSaga()
	ctx := context.Background()
	items := []CartItem{{ProductID: "product-a", Quantity: 1}}
	reservation := []ReservationItem{{ProductID: "product-a", Quantity: 1}}

	mocks.products.On("GetProduct", mock.Anything, "product-a").
		Return(&ProductDetails{ID: "product-a", Name: "Product A", Price: decimal.RequireFromString("9.99")}, nil)
	mocks.inventory.On("ReserveStock", mock.Anything, reservation).Return(nil)
	mocks.repo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*main.Order")).Return(nil)

	var compensations []string
	mocks.repo.On("UpdateOrderStatus", mock.Anything, mock.AnythingOfType("string"), OrderStatusConfirmed).
		Return(errors.New("connection refused"))
	mocks.repo.On("UpdateOrderStatus", mock.Anything, mock.AnythingOfType("string"), OrderStatusFailed).
		Run(func(args mock.Arguments) {
			compensations = append(compensations, "mark_failed")
		}).
		Return(nil)
	mocks.inventory.On("CancelReservation", mock.Anything, reservation).
		Run(func(args mock.Arguments) {
			compensations = append(compensations, "cancel_reservation")
		}).
		Return(nil)

	// Act
	orderID, err := saga.PlaceOrder(ctx, "user-456", items)

	// Assert
	assert.Error(t, err)
	assert.Empty(t, orderID)

	// As compensações rodam em ordem reversa: pedido marcado como failed
	// antes da reserva ser liberada
	assert.Equal(t, []string{"mark_failed", "cancel_reservation"}, compensations)
	mocks.notifier.AssertNotCalled(t, "OrderConfirmed", mock.Anything, mock.Anything)
}

func TestPlaceOrder_NotificationFailureDoesNotFailSaga(t *testing.T) {
	// Arrange
	saga, mocks := newTestSaga()
	ctx := context.Background()
	items := []CartItem{{ProductID: "product-a", Quantity: 1}}
	reservation := []ReservationItem{{ProductID: "product-a", Quantity: 1}}

	mocks.products.On("GetProduct", mock.Anything, "product-a").
		Return(&ProductDetails{ID: "product-a", Name: "Product A", Price: decimal.RequireFromString("9.99")}, nil)
	mocks.inventory.On("ReserveStock", mock.Anything, reservation).Return(nil)
	mocks.repo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*main.Order")).Return(nil)
	mocks.repo.On("UpdateOrderStatus", mock.Anything, mock.AnythingOfType("string"), OrderStatusConfirmed).Return(nil)
	mocks.notifier.On("OrderConfirmed", mock.Anything, mock.AnythingOfType("*main.Order")).
		Return(errors.New("broker unreachable"))

	// Act
	orderID, err := saga.PlaceOrder(ctx, "user-456", items)

	// Assert: o pedido foi confirmado mesmo sem a notificação
	assert.NoError(t, err)
	assert.NotEmpty(t, orderID)
	mocks.inventory.AssertNotCalled(t, "CancelReservation", mock.Anything, mock.Anything)
}

func TestPlaceOrder_Validation(t *testing.T) {
	saga, mocks := newTestSaga()
	ctx := context.Background()

	_, err := saga.PlaceOrder(ctx, "", []CartItem{{ProductID: "product-a", Quantity: 1}})
	assert.True(t, errors.Is(err, ErrEmptyUserID))

	_, err = saga.PlaceOrder(ctx, "user-456", nil)
	assert.True(t, errors.Is(err, ErrEmptyOrder))

	_, err = saga.PlaceOrder(ctx, "user-456", []CartItem{{ProductID: "product-a", Quantity: 0}})
	assert.Error(t, err)

	// Nenhum colaborador é tocado antes da validação passar
	mocks.products.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
	mocks.inventory.AssertNotCalled(t, "ReserveStock", mock.Anything, mock.Anything)
	mocks.repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}
