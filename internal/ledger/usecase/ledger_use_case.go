package usecase

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
	apperrors "stockledger/internal/errors"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
	RecentLimit      = 10

	errLockDeadlock    = 1213
	errLockWaitTimeout = 1205
)

type LedgerService interface {
	Record(ctx context.Context, entry domain.Transaction) (*dto.RecordResult, error)
	Reverse(ctx context.Context, transactionID int64) (*dto.ReverseResult, error)
}

type TransactionReader interface {
	List(ctx context.Context, filter domain.TransactionFilter) ([]domain.TransactionView, error)
	FindViewByID(ctx context.Context, id int64) (*domain.TransactionView, error)
}

type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

type LedgerUseCase struct {
	ledger   LedgerService
	reader   TransactionReader
	validate *validator.Validate
	tracer   trace.Tracer
	logger   *zap.Logger
	retry    RetryPolicy
	now      func() time.Time
}

func NewLedgerUseCase(
	ledger LedgerService,
	reader TransactionReader,
	tracer trace.Tracer,
	logger *zap.Logger,
	retry RetryPolicy,
) *LedgerUseCase {
	uc := &LedgerUseCase{
		ledger: ledger,
		reader: reader,
		tracer: tracer,
		logger: logger,
		retry:  retry,
		now:    func() time.Time { return time.Now().UTC() },
	}
	uc.validate = newValidator(func() time.Time { return uc.now() })
	return uc
}

func (uc *LedgerUseCase) RecordTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*dto.RecordResult, error) {
	ctx, span := uc.tracer.Start(ctx, "ledger.RecordTransaction")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("product.id", req.ProductID),
		attribute.String("transaction.type", req.Type),
		attribute.Int("transaction.quantity", req.Quantity),
	)

	if err := uc.validate.StructCtx(ctx, req); err != nil {
		return nil, uc.fail(span, validationFailure(err))
	}

	entry := domain.Transaction{
		ProductID: req.ProductID,
		Kind:      domain.TransactionKind(req.Type),
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice.Round(2),
		Notes:     req.Notes,
	}
	if req.TransactionDate != nil {
		entry.TransactionDate = req.TransactionDate.UTC()
	}

	var result *dto.RecordResult
	err := uc.withRetry(ctx, "record", func() error {
		var err error
		result, err = uc.ledger.Record(ctx, entry)
		return err
	})
	if err != nil {
		return nil, uc.fail(span, uc.classify(err, "failed to record transaction"))
	}

	span.SetAttributes(
		attribute.Int64("transaction.id", result.Transaction.ID),
		attribute.Int("product.current_stock", result.CurrentStock),
	)
	return result, nil
}

func (uc *LedgerUseCase) ReverseTransaction(ctx context.Context, transactionID int64) (*dto.ReverseResult, error) {
	ctx, span := uc.tracer.Start(ctx, "ledger.ReverseTransaction")
	defer span.End()

	span.SetAttributes(attribute.Int64("transaction.id", transactionID))

	if transactionID <= 0 {
		return nil, uc.fail(span, invalidID())
	}

	var result *dto.ReverseResult
	err := uc.withRetry(ctx, "reverse", func() error {
		var err error
		result, err = uc.ledger.Reverse(ctx, transactionID)
		return err
	})
	if err != nil {
		return nil, uc.fail(span, uc.classify(err, "failed to reverse transaction"))
	}

	span.SetAttributes(
		attribute.Int64("product.id", result.ProductID),
		attribute.Int("product.current_stock", result.CurrentStock),
	)
	return result, nil
}

// ListTransactions returns entries newest first. A zero limit means the default and limits above
// the maximum are clamped.
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, req dto.ListTransactionsRequest) ([]domain.TransactionView, domain.TransactionFilter, error) {
	ctx, span := uc.tracer.Start(ctx, "ledger.ListTransactions")
	defer span.End()

	if err := uc.validate.StructCtx(ctx, req); err != nil {
		return nil, domain.TransactionFilter{}, uc.fail(span, validationFailure(err))
	}

	filter := domain.TransactionFilter{Limit: req.Limit, Offset: req.Offset}
	if filter.Limit == 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	if req.Type != "" {
		kind := domain.TransactionKind(req.Type)
		filter.Kind = &kind
	}

	views, err := uc.reader.List(ctx, filter)
	if err != nil {
		return nil, filter, uc.fail(span, uc.classify(err, "failed to list transactions"))
	}

	span.SetAttributes(attribute.Int("transaction.count", len(views)))
	return views, filter, nil
}

func (uc *LedgerUseCase) RecentTransactions(ctx context.Context) ([]domain.TransactionView, error) {
	ctx, span := uc.tracer.Start(ctx, "ledger.RecentTransactions")
	defer span.End()

	views, err := uc.reader.List(ctx, domain.TransactionFilter{Limit: RecentLimit})
	if err != nil {
		return nil, uc.fail(span, uc.classify(err, "failed to list recent transactions"))
	}
	return views, nil
}

func (uc *LedgerUseCase) GetTransaction(ctx context.Context, transactionID int64) (*domain.TransactionView, error) {
	ctx, span := uc.tracer.Start(ctx, "ledger.GetTransaction")
	defer span.End()

	if transactionID <= 0 {
		return nil, uc.fail(span, invalidID())
	}

	view, err := uc.reader.FindViewByID(ctx, transactionID)
	if err != nil {
		return nil, uc.fail(span, uc.classify(err, "failed to load transaction"))
	}
	return view, nil
}

// withRetry reruns op while it fails on an InnoDB deadlock or lock wait timeout. Every attempt is
// a fresh database transaction, so a retried op never sees its own earlier partial work.
func (uc *LedgerUseCase) withRetry(ctx context.Context, op string, fn func() error) error {
	maxAttempts := uc.retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isDeadlockError(err) {
			return err
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}

		uc.logger.Warn("lock conflict detected, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", maxAttempts),
			zap.Error(err))

		if err := sleepCtx(ctx, backoff(uc.retry.Backoff, attempt)); err != nil {
			return err
		}
	}

	uc.logger.Error("lock conflict retries exhausted", zap.String("op", op), zap.Int("attempts", maxAttempts))
	return apperrors.NewConflictError("concurrent update conflict", maxAttempts, lastErr)
}

// backoff doubles base for every attempt and spreads it by ±20%.
func backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	d := base << (attempt - 1)
	jitter := 0.8 + rand.Float64()*0.4
	return time.Duration(float64(d) * jitter)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == errLockDeadlock || mysqlErr.Number == errLockWaitTimeout
	}
	return false
}

// classify passes typed errors through and wraps raw store failures.
func (uc *LedgerUseCase) classify(err error, message string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	uc.logger.Error(message, zap.Error(err))
	return apperrors.NewInternalError(message, err)
}

func (uc *LedgerUseCase) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func invalidID() error {
	return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
		Field:   "id",
		Message: "id must be a positive integer",
	})
}
