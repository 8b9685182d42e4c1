package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stockledger/internal/domain"
)

// CreateTransactionRequest is the input of record. Tags are evaluated by the ledger use case.
type CreateTransactionRequest struct {
	ProductID       int64           `json:"productId" validate:"required,gt=0"`
	Type            string          `json:"type" validate:"required,oneof=purchase sale"`
	Quantity        int             `json:"quantity" validate:"required,gt=0,lte=1000000"`
	UnitPrice       decimal.Decimal `json:"unitPrice" validate:"money"`
	Notes           *string         `json:"notes" validate:"omitempty,max=1000"`
	TransactionDate *time.Time      `json:"transactionDate" validate:"omitempty,notfuture"`
}

type ListTransactionsRequest struct {
	Limit  int    `json:"limit" validate:"gte=0"`
	Offset int    `json:"offset" validate:"gte=0"`
	Type   string `json:"type" validate:"omitempty,oneof=purchase sale"`
}

type RecordResult struct {
	Transaction  domain.Transaction
	CurrentStock int
}

type ReverseResult struct {
	TransactionID int64
	ProductID     int64
	CurrentStock  int
}

type TransactionDTO struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"productId"`
	Type            string    `json:"type"`
	Quantity        int       `json:"quantity"`
	UnitPrice       string    `json:"unitPrice"`
	TotalAmount     string    `json:"totalAmount"`
	Notes           *string   `json:"notes"`
	TransactionDate time.Time `json:"transactionDate"`
	CreatedAt       time.Time `json:"createdAt"`
}

type TransactionViewDTO struct {
	TransactionDTO
	ProductName  string  `json:"productName"`
	ProductSKU   string  `json:"productSku"`
	CurrentStock int     `json:"currentStock"`
	SupplierID   *int64  `json:"supplierId"`
	SupplierName *string `json:"supplierName"`
}

type CreateTransactionResponse struct {
	TraceID      string         `json:"traceId"`
	Transaction  TransactionDTO `json:"transaction"`
	CurrentStock int            `json:"currentStock"`
}

type DeleteTransactionResponse struct {
	TraceID      string `json:"traceId"`
	Message      string `json:"message"`
	ProductID    int64  `json:"productId"`
	CurrentStock int    `json:"currentStock"`
}

type TransactionListResponse struct {
	TraceID      string               `json:"traceId"`
	Transactions []TransactionViewDTO `json:"transactions"`
	Limit        int                  `json:"limit,omitempty"`
	Offset       int                  `json:"offset,omitempty"`
}

type TransactionResponse struct {
	TraceID     string             `json:"traceId"`
	Transaction TransactionViewDTO `json:"transaction"`
}

// ErrorResponse is the body of every non-validation failure.
type ErrorResponse struct {
	TraceID      string    `json:"traceId"`
	Status       int       `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	CurrentStock *int      `json:"currentStock,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewTransactionDTO(t domain.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:              t.ID,
		ProductID:       t.ProductID,
		Type:            string(t.Kind),
		Quantity:        t.Quantity,
		UnitPrice:       t.UnitPrice.StringFixed(2),
		TotalAmount:     t.TotalAmount.StringFixed(2),
		Notes:           t.Notes,
		TransactionDate: t.TransactionDate.UTC(),
		CreatedAt:       t.CreatedAt.UTC(),
	}
}

func NewTransactionViewDTO(v domain.TransactionView) TransactionViewDTO {
	return TransactionViewDTO{
		TransactionDTO: NewTransactionDTO(v.Transaction),
		ProductName:    v.ProductName,
		ProductSKU:     v.ProductSKU,
		CurrentStock:   v.ProductStock,
		SupplierID:     v.SupplierID,
		SupplierName:   v.SupplierName,
	}
}
