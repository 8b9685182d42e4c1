package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindPurchase TransactionKind = "purchase"
	KindSale     TransactionKind = "sale"
)

func (k TransactionKind) Valid() bool {
	return k == KindPurchase || k == KindSale
}

// Apply returns the stock level after an entry of this kind takes effect.
func (k TransactionKind) Apply(stock, quantity int) int {
	if k == KindPurchase {
		return stock + quantity
	}
	return stock - quantity
}

// Revert returns the stock level the product would have without an entry of this kind.
func (k TransactionKind) Revert(stock, quantity int) int {
	if k == KindPurchase {
		return stock - quantity
	}
	return stock + quantity
}

// Transaction is one ledger entry. Rows are never updated, only inserted or reversed.
type Transaction struct {
	ID              int64
	ProductID       int64
	Kind            TransactionKind
	Quantity        int
	UnitPrice       decimal.Decimal
	TotalAmount     decimal.Decimal
	Notes           *string
	TransactionDate time.Time
	CreatedAt       time.Time
}

func TotalAmount(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// TransactionView is a ledger entry joined with the product and supplier it refers to.
type TransactionView struct {
	Transaction
	ProductName  string
	ProductSKU   string
	ProductStock int
	SupplierID   *int64
	SupplierName *string
}

type TransactionFilter struct {
	Limit  int
	Offset int
	Kind   *TransactionKind
}
