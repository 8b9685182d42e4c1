package errors

import (
	stderrors "errors"
	"fmt"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

const (
	ResourceProduct     = "product"
	ResourceTransaction = "transaction"
)

type NotFoundError struct {
	Resource string
	Message  string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if stderrors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

// InsufficientStockError rejects a sale that would drive stock below zero.
type InsufficientStockError struct {
	ProductID    int64
	CurrentStock int
	Requested    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: current %d, requested %d", e.ProductID, e.CurrentStock, e.Requested)
}

func NewInsufficientStockError(productID int64, currentStock, requested int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID:    productID,
		CurrentStock: currentStock,
		Requested:    requested,
	}
}

func IsInsufficientStockError(err error) (*InsufficientStockError, bool) {
	var ise *InsufficientStockError
	if stderrors.As(err, &ise) {
		return ise, true
	}
	return nil, false
}

// IrreversibleDeletionError rejects a reversal whose inverse would leave negative stock.
type IrreversibleDeletionError struct {
	TransactionID int64
	ProductID     int64
	CurrentStock  int
	Quantity      int
}

func (e *IrreversibleDeletionError) Error() string {
	return fmt.Sprintf("cannot delete transaction %d: reverting %d units would leave product %d with negative stock (current %d)",
		e.TransactionID, e.Quantity, e.ProductID, e.CurrentStock)
}

func NewIrreversibleDeletionError(transactionID, productID int64, currentStock, quantity int) *IrreversibleDeletionError {
	return &IrreversibleDeletionError{
		TransactionID: transactionID,
		ProductID:     productID,
		CurrentStock:  currentStock,
		Quantity:      quantity,
	}
}

func IsIrreversibleDeletionError(err error) (*IrreversibleDeletionError, bool) {
	var ide *IrreversibleDeletionError
	if stderrors.As(err, &ide) {
		return ide, true
	}
	return nil, false
}

// ConflictError is returned once concurrent writers kept colliding past the retry budget.
type ConflictError struct {
	Message  string
	Attempts int
	Cause    error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s after %d attempts", e.Message, e.Attempts)
}

func (e *ConflictError) Unwrap() error {
	return e.Cause
}

func NewConflictError(message string, attempts int, cause error) *ConflictError {
	return &ConflictError{
		Message:  message,
		Attempts: attempts,
		Cause:    cause,
	}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

// IsAppError reports whether err carries one of the typed errors above, as opposed to a raw
// store or driver failure.
func IsAppError(err error) bool {
	if _, ok := IsValidationError(err); ok {
		return true
	}
	if _, ok := IsNotFoundError(err); ok {
		return true
	}
	if _, ok := IsInsufficientStockError(err); ok {
		return true
	}
	if _, ok := IsIrreversibleDeletionError(err); ok {
		return true
	}
	if _, ok := IsConflictError(err); ok {
		return true
	}
	var ie *InternalError
	return stderrors.As(err, &ie)
}
