package dto

import (
	"time"

	"stockledger/internal/domain"
)

type SupplierContactDTO struct {
	ID    *int64  `json:"id"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type LowStockProductDTO struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	SKU           string             `json:"sku"`
	Category      *string            `json:"category"`
	CurrentStock  int                `json:"currentStock"`
	MinStockLevel int                `json:"minStockLevel"`
	Price         string             `json:"price"`
	Supplier      SupplierContactDTO `json:"supplier"`
}

type LowStockResponse struct {
	TraceID  string               `json:"traceId"`
	Count    int                  `json:"count"`
	Products []LowStockProductDTO `json:"products"`
}

type InventoryValueLineDTO struct {
	ProductID    int64   `json:"productId"`
	ProductName  string  `json:"productName"`
	SKU          string  `json:"sku"`
	CurrentStock int     `json:"currentStock"`
	UnitPrice    string  `json:"unitPrice"`
	TotalValue   string  `json:"totalValue"`
	SupplierName *string `json:"supplierName"`
}

type InventoryValueResponse struct {
	TraceID             string                  `json:"traceId"`
	TotalInventoryValue string                  `json:"totalInventoryValue"`
	Products            []InventoryValueLineDTO `json:"products"`
}

type SupplierProductDTO struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Category     *string `json:"category"`
	CurrentStock int     `json:"currentStock"`
	Price        string  `json:"price"`
	StockValue   string  `json:"stockValue"`
}

type SupplierGroupDTO struct {
	SupplierID      *int64               `json:"supplierId"`
	SupplierName    string               `json:"supplierName"`
	SupplierEmail   *string              `json:"supplierEmail"`
	ProductCount    int                  `json:"productCount"`
	TotalStockValue string               `json:"totalStockValue"`
	Products        []SupplierProductDTO `json:"products"`
}

type ProductsBySupplierResponse struct {
	TraceID   string             `json:"traceId"`
	Suppliers []SupplierGroupDTO `json:"suppliers"`
}

type SalesSummaryLineDTO struct {
	ProductID      int64  `json:"productId"`
	ProductName    string `json:"productName"`
	SKU            string `json:"sku"`
	TotalSold      int64  `json:"totalSold"`
	TotalPurchased int64  `json:"totalPurchased"`
	SalesRevenue   string `json:"salesRevenue"`
	PurchaseCost   string `json:"purchaseCost"`
}

type SalesSummaryTotalsDTO struct {
	TotalSold      int64  `json:"totalSold"`
	TotalPurchased int64  `json:"totalPurchased"`
	TotalRevenue   string `json:"totalRevenue"`
	TotalCost      string `json:"totalCost"`
}

type SalesSummaryResponse struct {
	TraceID    string                `json:"traceId"`
	WindowDays int                   `json:"windowDays"`
	Since      time.Time             `json:"since"`
	Summary    SalesSummaryTotalsDTO `json:"summary"`
	Products   []SalesSummaryLineDTO `json:"products"`
}

type TrendDayDTO struct {
	Date           string `json:"date"`
	SalesCount     int64  `json:"salesCount"`
	PurchaseCount  int64  `json:"purchaseCount"`
	SalesAmount    string `json:"salesAmount"`
	PurchaseAmount string `json:"purchaseAmount"`
}

type TransactionTrendsResponse struct {
	TraceID    string        `json:"traceId"`
	WindowDays int           `json:"windowDays"`
	Since      time.Time     `json:"since"`
	Trends     []TrendDayDTO `json:"trends"`
}

type DashboardResponse struct {
	TraceID                 string `json:"traceId"`
	TotalProducts           int    `json:"totalProducts"`
	TotalSuppliers          int    `json:"totalSuppliers"`
	LowStockCount           int    `json:"lowStockCount"`
	TotalInventoryValue     string `json:"totalInventoryValue"`
	RecentTransactionsCount int    `json:"recentTransactionsCount"`
	RecentWindowDays        int    `json:"recentWindowDays"`
}

func NewLowStockResponse(traceID string, r *domain.LowStockReport) LowStockResponse {
	products := make([]LowStockProductDTO, 0, len(r.Products))
	for _, p := range r.Products {
		products = append(products, LowStockProductDTO{
			ID:            p.ID,
			Name:          p.Name,
			SKU:           p.SKU,
			Category:      p.Category,
			CurrentStock:  p.CurrentStock,
			MinStockLevel: p.MinStockLevel,
			Price:         p.Price.StringFixed(2),
			Supplier: SupplierContactDTO{
				ID:    p.SupplierID,
				Name:  p.SupplierName,
				Email: p.SupplierEmail,
				Phone: p.SupplierPhone,
			},
		})
	}
	return LowStockResponse{TraceID: traceID, Count: r.Count, Products: products}
}

func NewInventoryValueResponse(traceID string, r *domain.InventoryValueReport) InventoryValueResponse {
	lines := make([]InventoryValueLineDTO, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, InventoryValueLineDTO{
			ProductID:    l.ProductID,
			ProductName:  l.Name,
			SKU:          l.SKU,
			CurrentStock: l.CurrentStock,
			UnitPrice:    l.UnitPrice.StringFixed(2),
			TotalValue:   l.TotalValue.StringFixed(2),
			SupplierName: l.SupplierName,
		})
	}
	return InventoryValueResponse{
		TraceID:             traceID,
		TotalInventoryValue: r.TotalValue.StringFixed(2),
		Products:            lines,
	}
}

func NewProductsBySupplierResponse(traceID string, groups []domain.SupplierGroup) ProductsBySupplierResponse {
	out := make([]SupplierGroupDTO, 0, len(groups))
	for _, g := range groups {
		products := make([]SupplierProductDTO, 0, len(g.Products))
		for _, p := range g.Products {
			products = append(products, SupplierProductDTO{
				ID:           p.ID,
				Name:         p.Name,
				SKU:          p.SKU,
				Category:     p.Category,
				CurrentStock: p.CurrentStock,
				Price:        p.Price.StringFixed(2),
				StockValue:   p.StockValue.StringFixed(2),
			})
		}
		out = append(out, SupplierGroupDTO{
			SupplierID:      g.SupplierID,
			SupplierName:    g.SupplierName,
			SupplierEmail:   g.SupplierEmail,
			ProductCount:    g.ProductCount,
			TotalStockValue: g.TotalStockValue.StringFixed(2),
			Products:        products,
		})
	}
	return ProductsBySupplierResponse{TraceID: traceID, Suppliers: out}
}

func NewSalesSummaryResponse(traceID string, r *domain.SalesSummaryReport) SalesSummaryResponse {
	lines := make([]SalesSummaryLineDTO, 0, len(r.Products))
	for _, p := range r.Products {
		lines = append(lines, SalesSummaryLineDTO{
			ProductID:      p.ProductID,
			ProductName:    p.ProductName,
			SKU:            p.SKU,
			TotalSold:      p.SoldUnits,
			TotalPurchased: p.PurchasedUnits,
			SalesRevenue:   p.SalesRevenue.StringFixed(2),
			PurchaseCost:   p.PurchaseCost.StringFixed(2),
		})
	}
	return SalesSummaryResponse{
		TraceID:    traceID,
		WindowDays: r.WindowDays,
		Since:      r.Since,
		Summary: SalesSummaryTotalsDTO{
			TotalSold:      r.Totals.TotalSold,
			TotalPurchased: r.Totals.TotalPurchased,
			TotalRevenue:   r.Totals.TotalRevenue.StringFixed(2),
			TotalCost:      r.Totals.TotalCost.StringFixed(2),
		},
		Products: lines,
	}
}

func NewTransactionTrendsResponse(traceID string, r *domain.TransactionTrendsReport) TransactionTrendsResponse {
	days := make([]TrendDayDTO, 0, len(r.Days))
	for _, d := range r.Days {
		days = append(days, TrendDayDTO{
			Date:           d.Day.UTC().Format(time.DateOnly),
			SalesCount:     d.SaleCount,
			PurchaseCount:  d.PurchaseCount,
			SalesAmount:    d.SaleAmount.StringFixed(2),
			PurchaseAmount: d.PurchaseAmount.StringFixed(2),
		})
	}
	return TransactionTrendsResponse{
		TraceID:    traceID,
		WindowDays: r.WindowDays,
		Since:      r.Since,
		Trends:     days,
	}
}

func NewDashboardResponse(traceID string, d *domain.Dashboard) DashboardResponse {
	return DashboardResponse{
		TraceID:                 traceID,
		TotalProducts:           d.TotalProducts,
		TotalSuppliers:          d.TotalSuppliers,
		LowStockCount:           d.LowStockCount,
		TotalInventoryValue:     d.TotalInventoryValue.StringFixed(2),
		RecentTransactionsCount: d.RecentTransactionsCount,
		RecentWindowDays:        d.RecentWindowDays,
	}
}
