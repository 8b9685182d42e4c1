package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
	apperrors "stockledger/internal/errors"
	"stockledger/internal/httpapi"
)

type LedgerUseCase interface {
	RecordTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*dto.RecordResult, error)
	ReverseTransaction(ctx context.Context, transactionID int64) (*dto.ReverseResult, error)
	ListTransactions(ctx context.Context, req dto.ListTransactionsRequest) ([]domain.TransactionView, domain.TransactionFilter, error)
	RecentTransactions(ctx context.Context) ([]domain.TransactionView, error)
	GetTransaction(ctx context.Context, transactionID int64) (*domain.TransactionView, error)
}

type TransactionController struct {
	useCase LedgerUseCase
	logger  *zap.Logger
}

func NewTransactionController(useCase LedgerUseCase, logger *zap.Logger) *TransactionController {
	return &TransactionController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *TransactionController) RegisterRoutes(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Post("/", c.Create)
		r.Get("/", c.List)
		r.Get("/recent", c.Recent)
		r.Get("/{id}", c.Get)
		r.Delete("/{id}", c.Delete)
	})
}

func (c *TransactionController) Create(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpapi.NewTrace(c.logger)

	var req dto.CreateTransactionRequest
	if !httpapi.DecodeJSON(w, r, logger, traceID, &req) {
		return
	}

	result, err := c.useCase.RecordTransaction(r.Context(), req)
	if err != nil {
		httpapi.WriteUseCaseError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusCreated, dto.CreateTransactionResponse{
		TraceID:      traceID,
		Transaction:  dto.NewTransactionDTO(result.Transaction),
		CurrentStock: result.CurrentStock,
	})
}

func (c *TransactionController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpapi.NewTrace(c.logger)

	id, ok := httpapi.PathID(r, "id")
	if !ok {
		c.writeInvalidID(w, logger, traceID)
		return
	}

	result, err := c.useCase.ReverseTransaction(r.Context(), id)
	if err != nil {
		httpapi.WriteUseCaseError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, dto.DeleteTransactionResponse{
		TraceID:      traceID,
		Message:      "transaction deleted and stock restored",
		ProductID:    result.ProductID,
		CurrentStock: result.CurrentStock,
	})
}

func (c *TransactionController) List(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpapi.NewTrace(c.logger)

	var details []apperrors.ValidationDetail
	limit, ok := httpapi.QueryInt(r, "limit", 0)
	if !ok {
		details = append(details, apperrors.ValidationDetail{Field: "limit", Message: "limit must be an integer"})
	}
	offset, ok := httpapi.QueryInt(r, "offset", 0)
	if !ok {
		details = append(details, apperrors.ValidationDetail{Field: "offset", Message: "offset must be an integer"})
	}
	if len(details) > 0 {
		httpapi.WriteValidationError(w, logger, traceID, "validation failed", details...)
		return
	}

	views, filter, err := c.useCase.ListTransactions(r.Context(), dto.ListTransactionsRequest{
		Limit:  limit,
		Offset: offset,
		Type:   r.URL.Query().Get("type"),
	})
	if err != nil {
		httpapi.WriteUseCaseError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, dto.TransactionListResponse{
		TraceID:      traceID,
		Transactions: toViewDTOs(views),
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	})
}

func (c *TransactionController) Recent(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpapi.NewTrace(c.logger)

	views, err := c.useCase.RecentTransactions(r.Context())
	if err != nil {
		httpapi.WriteUseCaseError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, dto.TransactionListResponse{
		TraceID:      traceID,
		Transactions: toViewDTOs(views),
	})
}

func (c *TransactionController) Get(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpapi.NewTrace(c.logger)

	id, ok := httpapi.PathID(r, "id")
	if !ok {
		c.writeInvalidID(w, logger, traceID)
		return
	}

	view, err := c.useCase.GetTransaction(r.Context(), id)
	if err != nil {
		httpapi.WriteUseCaseError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, dto.TransactionResponse{
		TraceID:     traceID,
		Transaction: dto.NewTransactionViewDTO(*view),
	})
}

func (c *TransactionController) writeInvalidID(w http.ResponseWriter, logger *zap.Logger, traceID string) {
	httpapi.WriteValidationError(w, logger, traceID, "invalid transaction id", apperrors.ValidationDetail{
		Field:   "id",
		Message: "id must be a positive integer",
	})
}

func toViewDTOs(views []domain.TransactionView) []dto.TransactionViewDTO {
	out := make([]dto.TransactionViewDTO, 0, len(views))
	for _, v := range views {
		out = append(out, dto.NewTransactionViewDTO(v))
	}
	return out
}
