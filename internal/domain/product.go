package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxStock is the largest quantity the current_stock column holds.
const MaxStock = math.MaxInt32

type Product struct {
	ID            int64
	SKU           string
	Name          string
	Description   *string
	Category      *string
	Price         decimal.Decimal
	CostPrice     decimal.NullDecimal
	CurrentStock  int
	MinStockLevel int
	SupplierID    *int64
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock treats the threshold as inclusive.
func (p Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinStockLevel
}

func (p Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}
