package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/domain"
)

type mockRepository struct {
	FindByIDFunc  func(ctx context.Context, id int64) (*domain.Product, error)
	FindByIDsFunc func(ctx context.Context, ids []int64) ([]domain.Product, error)
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	return m.FindByIDsFunc(ctx, ids)
}

func TestGetProductsByIDs_SplitsFoundAndMissing(t *testing.T) {
	repo := &mockRepository{
		FindByIDsFunc: func(ctx context.Context, ids []int64) ([]domain.Product, error) {
			return []domain.Product{{ID: 1}, {ID: 3}}, nil
		},
	}

	found, notFound, err := NewService(repo).GetProductsByIDs(context.Background(), []int64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, []int64{2, 4}, notFound)
}

func TestGetProductsByIDs_RepositoryError(t *testing.T) {
	repo := &mockRepository{
		FindByIDsFunc: func(ctx context.Context, ids []int64) ([]domain.Product, error) {
			return nil, errors.New("connection refused")
		},
	}

	found, notFound, err := NewService(repo).GetProductsByIDs(context.Background(), []int64{1})
	assert.Error(t, err)
	assert.Nil(t, found)
	assert.Nil(t, notFound)
}
