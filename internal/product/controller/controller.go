package controller

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"stockledger/internal/dto"
	apperrors "stockledger/internal/errors"
	"stockledger/internal/httpapi"
)

type SearchUseCase interface {
	SearchProducts(ctx context.Context, req dto.SearchProductsRequest) (*dto.SearchProductsResponse, error)
	GetProduct(ctx context.Context, id int64) (*dto.ProductDTO, error)
}

type Controller struct {
	useCase  SearchUseCase
	validate *validator.Validate
	logger   *zap.Logger
}

func NewController(useCase SearchUseCase, logger *zap.Logger) *Controller {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})

	return &Controller{
		useCase:  useCase,
		validate: v,
		logger:   logger,
	}
}

func (c *Controller) RegisterRoutes(r chi.Router) {
	r.Post("/products/search", c.HandleSearchProducts)
	r.Get("/products/{id}", c.HandleGetProduct)
}

func (c *Controller) HandleSearchProducts(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpapi.NewTrace(c.logger)

	var req dto.SearchProductsRequest
	if !httpapi.DecodeJSON(w, r, logger, traceID, &req) {
		return
	}

	if err := c.validate.StructCtx(r.Context(), req); err != nil {
		httpapi.WriteValidationError(w, logger, traceID, "validation failed", searchViolations(err)...)
		return
	}

	resp, err := c.useCase.SearchProducts(r.Context(), req)
	if err != nil {
		httpapi.WriteUseCaseError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, resp)
}

func (c *Controller) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpapi.NewTrace(c.logger)

	id, ok := httpapi.PathID(r, "id")
	if !ok {
		httpapi.WriteValidationError(w, logger, traceID, "invalid product id", apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must be a positive integer",
		})
		return
	}

	product, err := c.useCase.GetProduct(r.Context(), id)
	if err != nil {
		httpapi.WriteUseCaseError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, product)
}

func searchViolations(err error) []apperrors.ValidationDetail {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperrors.ValidationDetail{{Field: "body", Message: err.Error()}}
	}

	details := make([]apperrors.ValidationDetail, 0, len(verrs))
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required", "min":
			msg = "productIds must not be empty"
		case "max":
			msg = fmt.Sprintf("productIds exceeds maximum of %s", fe.Param())
		case "gt":
			msg = "each productId must be a positive integer"
		default:
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		details = append(details, apperrors.ValidationDetail{Field: fe.Field(), Message: msg})
	}
	return details
}
