package main

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.opentelemetry.io/otel/trace/noop"
)

// MockProductRepository simula o repositório do catálogo
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, productID string) (*Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]*Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func TestGetProductByID(t *testing.T) {
	// Arrange
	mockRepo := new(MockProductRepository)
	uc := NewProductUseCase(mockRepo, noop.NewTracerProvider().Tracer("test"))
	ctx := context.Background()

	expected := &Product{ID: "product-123", Name: "Laptop", Price: decimal.NewFromFloat(9.99)}
	mockRepo.On("GetByID", mock.Anything, "product-123").Return(expected, nil)

	// Act
	product, err := uc.GetProductByID(ctx, "product-123")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, expected, product)
	mockRepo.AssertExpectations(t)
}

func TestGetProductByID_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	uc := NewProductUseCase(mockRepo, noop.NewTracerProvider().Tracer("test"))

	mockRepo.On("GetByID", mock.Anything, "missing").Return(nil, ErrProductNotFound)

	product, err := uc.GetProductByID(context.Background(), "missing")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetProductByID_EmptyID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	uc := NewProductUseCase(mockRepo, noop.NewTracerProvider().Tracer("test"))

	_, err := uc.GetProductByID(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyProductID)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCreateProduct_RejectsInvalidPrice(t *testing.T) {
	mockRepo := new(MockProductRepository)
	uc := NewProductUseCase(mockRepo, noop.NewTracerProvider().Tracer("test"))

	_, err := uc.CreateProduct(context.Background(), "product-123", "Laptop", decimal.Zero)

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
