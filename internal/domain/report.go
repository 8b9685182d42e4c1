package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductListing is a product row as the reports see it, with its supplier's contact data.
type ProductListing struct {
	Product
	SupplierName  *string
	SupplierEmail *string
	SupplierPhone *string
}

type LedgerTotals struct {
	ProductID      int64
	ProductName    string
	SKU            string
	SoldUnits      int64
	PurchasedUnits int64
	SalesRevenue   decimal.Decimal
	PurchaseCost   decimal.Decimal
}

type DailyLedgerTotals struct {
	Day            time.Time
	SaleCount      int64
	PurchaseCount  int64
	SaleAmount     decimal.Decimal
	PurchaseAmount decimal.Decimal
}

type LowStockReport struct {
	Count    int
	Products []ProductListing
}

type InventoryValueLine struct {
	ProductID    int64
	Name         string
	SKU          string
	CurrentStock int
	UnitPrice    decimal.Decimal
	TotalValue   decimal.Decimal
	SupplierName *string
}

type InventoryValueReport struct {
	TotalValue decimal.Decimal
	Lines      []InventoryValueLine
}

type SupplierProduct struct {
	ID           int64
	Name         string
	SKU          string
	Category     *string
	CurrentStock int
	Price        decimal.Decimal
	StockValue   decimal.Decimal
}

// SupplierGroup has a nil SupplierID for the bucket of products without a supplier.
type SupplierGroup struct {
	SupplierID      *int64
	SupplierName    string
	SupplierEmail   *string
	ProductCount    int
	TotalStockValue decimal.Decimal
	Products        []SupplierProduct
}

type SalesSummaryTotals struct {
	TotalSold      int64
	TotalPurchased int64
	TotalRevenue   decimal.Decimal
	TotalCost      decimal.Decimal
}

type SalesSummaryReport struct {
	WindowDays int
	Since      time.Time
	Totals     SalesSummaryTotals
	Products   []LedgerTotals
}

type TransactionTrendsReport struct {
	WindowDays int
	Since      time.Time
	Days       []DailyLedgerTotals
}

type Dashboard struct {
	TotalProducts           int
	TotalSuppliers          int
	LowStockCount           int
	TotalInventoryValue     decimal.Decimal
	RecentTransactionsCount int
	RecentWindowDays        int
}
