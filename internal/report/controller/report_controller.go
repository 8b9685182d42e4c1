package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
	apperrors "stockledger/internal/errors"
	"stockledger/internal/httpapi"
)

type ReportUseCase interface {
	LowStock(ctx context.Context) (*domain.LowStockReport, error)
	InventoryValue(ctx context.Context) (*domain.InventoryValueReport, error)
	ProductsBySupplier(ctx context.Context) ([]domain.SupplierGroup, error)
	SalesSummary(ctx context.Context, windowDays *int) (*domain.SalesSummaryReport, error)
	TransactionTrends(ctx context.Context, windowDays *int) (*domain.TransactionTrendsReport, error)
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
}

type ReportController struct {
	useCase ReportUseCase
	logger  *zap.Logger
}

func NewReportController(useCase ReportUseCase, logger *zap.Logger) *ReportController {
	return &ReportController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *ReportController) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/low-stock", c.LowStock)
		r.Get("/inventory-value", c.InventoryValue)
		r.Get("/products-by-supplier", c.ProductsBySupplier)
		r.Get("/sales-summary", c.SalesSummary)
		r.Get("/transaction-trends", c.TransactionTrends)
		r.Get("/dashboard", c.Dashboard)
	})
}

func (c *ReportController) LowStock(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpapi.NewTrace(c.logger)

	report, err := c.useCase.LowStock(r.Context())
	if err != nil {
		httpapi.WriteUseCaseError(w, logger, traceID, err)
		return
	}
	httpapi.WriteJSON(w, logger, http.StatusOK, dto.NewLowStockResponse(traceID, report))
}

func (c *ReportController) InventoryValue(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpapi.NewTrace(c.logger)

	report, err := c.useCase.InventoryValue(r.Context())
	if err != nil {
		httpapi.WriteUseCaseError(w, logger, traceID, err)
		return
	}
	httpapi.WriteJSON(w, logger, http.StatusOK, dto.NewInventoryValueResponse(traceID, report))
}

func (c *ReportController) ProductsBySupplier(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpapi.NewTrace(c.logger)

	groups, err := c.useCase.ProductsBySupplier(r.Context())
	if err != nil {
		httpapi.WriteUseCaseError(w, logger, traceID, err)
		return
	}
	httpapi.WriteJSON(w, logger, http.StatusOK, dto.NewProductsBySupplierResponse(traceID, groups))
}

// SalesSummary serves GET /reports/sales-summary?days=N. Only products with at least one ledger
// entry in the window are listed; products without activity are omitted rather than reported
// with zero totals.
func (c *ReportController) SalesSummary(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpapi.NewTrace(c.logger)

	days, ok := windowDays(r)
	if !ok {
		c.writeInvalidDays(w, logger, traceID)
		return
	}

	report, err := c.useCase.SalesSummary(r.Context(), days)
	if err != nil {
		httpapi.WriteUseCaseError(w, logger, traceID, err)
		return
	}
	httpapi.WriteJSON(w, logger, http.StatusOK, dto.NewSalesSummaryResponse(traceID, report))
}

func (c *ReportController) TransactionTrends(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpapi.NewTrace(c.logger)

	days, ok := windowDays(r)
	if !ok {
		c.writeInvalidDays(w, logger, traceID)
		return
	}

	report, err := c.useCase.TransactionTrends(r.Context(), days)
	if err != nil {
		httpapi.WriteUseCaseError(w, logger, traceID, err)
		return
	}
	httpapi.WriteJSON(w, logger, http.StatusOK, dto.NewTransactionTrendsResponse(traceID, report))
}

func (c *ReportController) Dashboard(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpapi.NewTrace(c.logger)

	dashboard, err := c.useCase.Dashboard(r.Context())
	if err != nil {
		httpapi.WriteUseCaseError(w, logger, traceID, err)
		return
	}
	httpapi.WriteJSON(w, logger, http.StatusOK, dto.NewDashboardResponse(traceID, dashboard))
}

func (c *ReportController) writeInvalidDays(w http.ResponseWriter, logger *zap.Logger, traceID string) {
	httpapi.WriteValidationError(w, logger, traceID, "validation failed", apperrors.ValidationDetail{
		Field:   "days",
		Message: "days must be an integer",
	})
}

// windowDays returns nil when the days query parameter is absent.
func windowDays(r *http.Request) (*int, bool) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &n, true
}
