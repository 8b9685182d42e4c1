package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
)

type mockService struct {
	GetProductFunc       func(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsByIDsFunc func(ctx context.Context, ids []int64) ([]domain.Product, []int64, error)
}

func (m *mockService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return m.GetProductFunc(ctx, id)
}

func (m *mockService) GetProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, []int64, error) {
	return m.GetProductsByIDsFunc(ctx, ids)
}

func TestSearchProducts_MapsProducts(t *testing.T) {
	svc := &mockService{
		GetProductsByIDsFunc: func(ctx context.Context, ids []int64) ([]domain.Product, []int64, error) {
			return []domain.Product{{
				ID:            1,
				SKU:           "SKU-1",
				Name:          "Widget",
				Price:         decimal.RequireFromString("5"),
				CostPrice:     decimal.NewNullDecimal(decimal.RequireFromString("3.5")),
				CurrentStock:  10,
				MinStockLevel: 10,
			}}, nil, nil
		},
	}

	resp, err := NewSearchUseCase(svc).SearchProducts(context.Background(), dto.SearchProductsRequest{ProductIDs: []int64{1}})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)

	p := resp.Products[0]
	assert.Equal(t, "5.00", p.Price)
	require.NotNil(t, p.CostPrice)
	assert.Equal(t, "3.50", *p.CostPrice)
	assert.True(t, p.LowStock)
	assert.Equal(t, []int64{}, resp.NotFound)
}

func TestGetProduct_NoCostPrice(t *testing.T) {
	svc := &mockService{
		GetProductFunc: func(ctx context.Context, id int64) (*domain.Product, error) {
			return &domain.Product{ID: id, Price: decimal.RequireFromString("1.25"), CurrentStock: 11, MinStockLevel: 10}, nil
		},
	}

	p, err := NewSearchUseCase(svc).GetProduct(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.ID)
	assert.Nil(t, p.CostPrice)
	assert.False(t, p.LowStock)
}
