package report

import (
	"database/sql"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"stockledger/internal/config"
	"stockledger/internal/report/controller"
	"stockledger/internal/report/repository"
	"stockledger/internal/report/service"
	"stockledger/internal/report/usecase"
)

func NewModule(db *sql.DB, cfg config.ReportsConfig, logger *zap.Logger) *controller.ReportController {
	aggregator := service.NewAggregator(repository.NewSnapshotRepository(db))

	uc := usecase.NewReportUseCase(
		aggregator,
		otel.Tracer("stockledger/reports"),
		logger,
		usecase.Windows{DefaultDays: cfg.DefaultWindowDays, RecentDays: cfg.RecentWindowDays},
	)

	return controller.NewReportController(uc, logger)
}
