package usecase

import (
	"context"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
)

type Service interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int64) (found []domain.Product, notFoundIDs []int64, err error)
}

type SearchUseCase struct {
	service Service
}

func NewSearchUseCase(service Service) *SearchUseCase {
	return &SearchUseCase{service: service}
}

func (uc *SearchUseCase) SearchProducts(ctx context.Context, req dto.SearchProductsRequest) (*dto.SearchProductsResponse, error) {
	found, notFoundIDs, err := uc.service.GetProductsByIDs(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}

	products := make([]dto.ProductDTO, 0, len(found))
	for _, p := range found {
		products = append(products, toProductDTO(p))
	}

	if notFoundIDs == nil {
		notFoundIDs = []int64{}
	}

	return &dto.SearchProductsResponse{
		Products: products,
		NotFound: notFoundIDs,
	}, nil
}

func (uc *SearchUseCase) GetProduct(ctx context.Context, id int64) (*dto.ProductDTO, error) {
	p, err := uc.service.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	out := toProductDTO(*p)
	return &out, nil
}

func toProductDTO(p domain.Product) dto.ProductDTO {
	var costPrice *string
	if p.CostPrice.Valid {
		s := p.CostPrice.Decimal.StringFixed(2)
		costPrice = &s
	}

	return dto.ProductDTO{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Price:         p.Price.StringFixed(2),
		CostPrice:     costPrice,
		CurrentStock:  p.CurrentStock,
		MinStockLevel: p.MinStockLevel,
		LowStock:      p.IsLowStock(),
		SupplierID:    p.SupplierID,
		IsActive:      p.IsActive,
	}
}
