package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"stockledger/internal/domain"
	apperrors "stockledger/internal/errors"
)

const (
	MinWindowDays = 1
	MaxWindowDays = 3650
)

type Aggregator interface {
	LowStock(ctx context.Context) (*domain.LowStockReport, error)
	InventoryValue(ctx context.Context) (*domain.InventoryValueReport, error)
	ProductsBySupplier(ctx context.Context) ([]domain.SupplierGroup, error)
	SalesSummary(ctx context.Context, windowDays int) (*domain.SalesSummaryReport, error)
	TransactionTrends(ctx context.Context, windowDays int) (*domain.TransactionTrendsReport, error)
	Dashboard(ctx context.Context, recentWindowDays int) (*domain.Dashboard, error)
}

type Windows struct {
	DefaultDays int
	RecentDays  int
}

type ReportUseCase struct {
	aggregator Aggregator
	tracer     trace.Tracer
	logger     *zap.Logger
	windows    Windows
}

func NewReportUseCase(aggregator Aggregator, tracer trace.Tracer, logger *zap.Logger, windows Windows) *ReportUseCase {
	return &ReportUseCase{
		aggregator: aggregator,
		tracer:     tracer,
		logger:     logger,
		windows:    windows,
	}
}

func (uc *ReportUseCase) LowStock(ctx context.Context) (*domain.LowStockReport, error) {
	ctx, span := uc.tracer.Start(ctx, "reports.LowStock")
	defer span.End()

	report, err := uc.aggregator.LowStock(ctx)
	if err != nil {
		return nil, uc.fail(span, err, "failed to build low stock report")
	}
	span.SetAttributes(attribute.Int("report.count", report.Count))
	return report, nil
}

func (uc *ReportUseCase) InventoryValue(ctx context.Context) (*domain.InventoryValueReport, error) {
	ctx, span := uc.tracer.Start(ctx, "reports.InventoryValue")
	defer span.End()

	report, err := uc.aggregator.InventoryValue(ctx)
	if err != nil {
		return nil, uc.fail(span, err, "failed to build inventory value report")
	}
	span.SetAttributes(attribute.Int("report.count", len(report.Lines)))
	return report, nil
}

func (uc *ReportUseCase) ProductsBySupplier(ctx context.Context) ([]domain.SupplierGroup, error) {
	ctx, span := uc.tracer.Start(ctx, "reports.ProductsBySupplier")
	defer span.End()

	groups, err := uc.aggregator.ProductsBySupplier(ctx)
	if err != nil {
		return nil, uc.fail(span, err, "failed to build products by supplier report")
	}
	span.SetAttributes(attribute.Int("report.count", len(groups)))
	return groups, nil
}

// SalesSummary uses the configured default window when windowDays is nil.
func (uc *ReportUseCase) SalesSummary(ctx context.Context, windowDays *int) (*domain.SalesSummaryReport, error) {
	ctx, span := uc.tracer.Start(ctx, "reports.SalesSummary")
	defer span.End()

	days, err := uc.window(windowDays)
	if err != nil {
		return nil, uc.fail(span, err, "")
	}
	span.SetAttributes(attribute.Int("report.window_days", days))

	report, err := uc.aggregator.SalesSummary(ctx, days)
	if err != nil {
		return nil, uc.fail(span, err, "failed to build sales summary")
	}
	return report, nil
}

func (uc *ReportUseCase) TransactionTrends(ctx context.Context, windowDays *int) (*domain.TransactionTrendsReport, error) {
	ctx, span := uc.tracer.Start(ctx, "reports.TransactionTrends")
	defer span.End()

	days, err := uc.window(windowDays)
	if err != nil {
		return nil, uc.fail(span, err, "")
	}
	span.SetAttributes(attribute.Int("report.window_days", days))

	report, err := uc.aggregator.TransactionTrends(ctx, days)
	if err != nil {
		return nil, uc.fail(span, err, "failed to build transaction trends")
	}
	return report, nil
}

func (uc *ReportUseCase) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	ctx, span := uc.tracer.Start(ctx, "reports.Dashboard")
	defer span.End()

	dashboard, err := uc.aggregator.Dashboard(ctx, uc.windows.RecentDays)
	if err != nil {
		return nil, uc.fail(span, err, "failed to build dashboard")
	}
	return dashboard, nil
}

func (uc *ReportUseCase) window(windowDays *int) (int, error) {
	if windowDays == nil {
		return uc.windows.DefaultDays, nil
	}
	if *windowDays < MinWindowDays || *windowDays > MaxWindowDays {
		return 0, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "days",
			Message: fmt.Sprintf("days must be between %d and %d", MinWindowDays, MaxWindowDays),
		})
	}
	return *windowDays, nil
}

// fail records err on the span and wraps raw store failures in an InternalError.
func (uc *ReportUseCase) fail(span trace.Span, err error, message string) error {
	if !apperrors.IsAppError(err) {
		uc.logger.Error(message, zap.Error(err))
		err = apperrors.NewInternalError(message, err)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
