package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
	"stockledger/internal/errors"
	"stockledger/internal/infrastructure/mysql"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (mysql.Tx, error)
}

type ProductRepository interface {
	FindByIDForUpdate(ctx context.Context, tx mysql.Tx, id int64) (*domain.Product, error)
	UpdateStock(ctx context.Context, tx mysql.Tx, id int64, stock int) error
}

type TransactionRepository interface {
	Insert(ctx context.Context, tx mysql.Tx, t domain.Transaction) (int64, error)
	FindByID(ctx context.Context, tx mysql.Tx, id int64) (*domain.Transaction, error)
	FindByIDForUpdate(ctx context.Context, tx mysql.Tx, id int64) (*domain.Transaction, error)
	Delete(ctx context.Context, tx mysql.Tx, id int64) error
}

// LedgerService applies and reverses ledger entries. Each call is one database transaction in
// which the product row is locked before any ledger row, so same-product calls serialize and
// different products never wait on each other.
type LedgerService struct {
	db              TransactionManager
	productRepo     ProductRepository
	transactionRepo TransactionRepository
	logger          *zap.Logger
	txTimeout       time.Duration
	now             func() time.Time
}

func NewLedgerService(
	db TransactionManager,
	productRepo ProductRepository,
	transactionRepo TransactionRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *LedgerService {
	return &LedgerService{
		db:              db,
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
		txTimeout:       txTimeout,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (s *LedgerService) begin(ctx context.Context) (mysql.Tx, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	return tx, nil
}

// Record applies entry to its product's stock and stores it. Kind, quantity and price are
// expected to be validated already.
func (s *LedgerService) Record(ctx context.Context, entry domain.Transaction) (*dto.RecordResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.begin(txCtx)
	if err != nil {
		return nil, err
	}
	// MySQL ignores rollback if already committed.
	defer tx.Rollback()

	product, err := s.productRepo.FindByIDForUpdate(txCtx, tx, entry.ProductID)
	if err != nil {
		return nil, err
	}

	newStock := entry.Kind.Apply(product.CurrentStock, entry.Quantity)
	if newStock < 0 {
		s.logger.Warn("insufficient stock",
			zap.Int64("productId", product.ID),
			zap.Int("currentStock", product.CurrentStock),
			zap.Int("requested", entry.Quantity))
		return nil, errors.NewInsufficientStockError(product.ID, product.CurrentStock, entry.Quantity)
	}
	if newStock > domain.MaxStock {
		return nil, stockOverflow(product)
	}

	if err := s.productRepo.UpdateStock(txCtx, tx, product.ID, newStock); err != nil {
		return nil, err
	}

	now := s.now()
	entry.TotalAmount = domain.TotalAmount(entry.Quantity, entry.UnitPrice)
	entry.CreatedAt = now
	if entry.TransactionDate.IsZero() {
		entry.TransactionDate = now
	}

	id, err := s.transactionRepo.Insert(txCtx, tx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Int64("productId", product.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("transaction recorded",
		zap.Int64("transactionId", id),
		zap.Int64("productId", product.ID),
		zap.String("type", string(entry.Kind)),
		zap.Int("quantity", entry.Quantity),
		zap.Int("currentStock", newStock))

	return &dto.RecordResult{Transaction: entry, CurrentStock: newStock}, nil
}

// Reverse deletes the entry and restores the stock it had changed.
func (s *LedgerService) Reverse(ctx context.Context, transactionID int64) (*dto.ReverseResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Unlocked read to learn the product; the entry is locked only after its product.
	entry, err := s.transactionRepo.FindByID(txCtx, tx, transactionID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByIDForUpdate(txCtx, tx, entry.ProductID)
	if err != nil {
		if _, ok := errors.IsNotFoundError(err); ok {
			s.logger.Error("ledger entry references a missing product",
				zap.Int64("transactionId", transactionID),
				zap.Int64("productId", entry.ProductID))
		}
		return nil, err
	}

	entry, err = s.transactionRepo.FindByIDForUpdate(txCtx, tx, transactionID)
	if err != nil {
		return nil, err
	}

	newStock := entry.Kind.Revert(product.CurrentStock, entry.Quantity)
	if newStock < 0 {
		s.logger.Warn("reversal would leave negative stock",
			zap.Int64("transactionId", transactionID),
			zap.Int64("productId", product.ID),
			zap.Int("currentStock", product.CurrentStock),
			zap.Int("quantity", entry.Quantity))
		return nil, errors.NewIrreversibleDeletionError(transactionID, product.ID, product.CurrentStock, entry.Quantity)
	}
	if newStock > domain.MaxStock {
		return nil, stockOverflow(product)
	}

	if err := s.productRepo.UpdateStock(txCtx, tx, product.ID, newStock); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Delete(txCtx, tx, transactionID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Int64("transactionId", transactionID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("transaction reversed",
		zap.Int64("transactionId", transactionID),
		zap.Int64("productId", product.ID),
		zap.Int("currentStock", newStock))

	return &dto.ReverseResult{
		TransactionID: transactionID,
		ProductID:     product.ID,
		CurrentStock:  newStock,
	}, nil
}

func stockOverflow(product *domain.Product) error {
	return errors.NewValidationError("validation failed", errors.ValidationDetail{
		Field:   "quantity",
		Message: fmt.Sprintf("quantity would raise stock of product %d above %d", product.ID, domain.MaxStock),
	})
}
