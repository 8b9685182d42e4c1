package ledger

import (
	"database/sql"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"stockledger/internal/config"
	"stockledger/internal/infrastructure/mysql"
	"stockledger/internal/ledger/controller"
	"stockledger/internal/ledger/repository"
	"stockledger/internal/ledger/service"
	"stockledger/internal/ledger/usecase"
	productrepo "stockledger/internal/product/repository"
)

func NewModule(db *sql.DB, cfg config.LedgerConfig, logger *zap.Logger) *controller.TransactionController {
	transactionRepo := repository.NewMySQLTransactionRepository(db)
	productRepo := productrepo.NewMySQLRepository(db)

	ledgerSvc := service.NewLedgerService(
		mysql.NewTxManager(db),
		productRepo,
		transactionRepo,
		logger,
		cfg.TxTimeout,
	)

	uc := usecase.NewLedgerUseCase(
		ledgerSvc,
		transactionRepo,
		otel.Tracer("stockledger/ledger"),
		logger,
		usecase.RetryPolicy{MaxAttempts: cfg.MaxRetryAttempts, Backoff: cfg.RetryBackoff},
	)

	return controller.NewTransactionController(uc, logger)
}
