package dto

type SearchProductsRequest struct {
	ProductIDs []int64 `json:"productIds" validate:"required,min=1,max=100,dive,gt=0"`
}

type SearchProductsResponse struct {
	Products []ProductDTO `json:"products"`
	NotFound []int64      `json:"notFound"`
}

type ProductDTO struct {
	ID            int64   `json:"id"`
	SKU           string  `json:"sku"`
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	Price         string  `json:"price"`
	CostPrice     *string `json:"costPrice"`
	CurrentStock  int     `json:"currentStock"`
	MinStockLevel int     `json:"minStockLevel"`
	LowStock      bool    `json:"lowStock"`
	SupplierID    *int64  `json:"supplierId"`
	IsActive      bool    `json:"isActive"`
}
