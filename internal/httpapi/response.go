// Package httpapi holds the response helpers shared by every controller.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockledger/internal/dto"
	apperrors "stockledger/internal/errors"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 16 << 10

const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodeInsufficientStock    = "INSUFFICIENT_STOCK"
	CodeIrreversibleDeletion = "IRREVERSIBLE_DELETION"
	CodeConflict             = "CONCURRENCY_CONFLICT"
	CodeTimeout              = "TIMEOUT"
	CodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	CodeInternal             = "INTERNAL_ERROR"
)

// NewTrace returns a request trace id and a logger carrying it.
func NewTrace(logger *zap.Logger) (string, *zap.Logger) {
	traceID := uuid.New().String()
	return traceID, logger.With(zap.String("traceId", traceID))
}

func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

type validationErrorResponse struct {
	TraceID string                       `json:"traceId"`
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func WriteValidationError(w http.ResponseWriter, logger *zap.Logger, traceID, message string, details ...apperrors.ValidationDetail) {
	if details == nil {
		details = []apperrors.ValidationDetail{}
	}
	WriteJSON(w, logger, http.StatusBadRequest, validationErrorResponse{
		TraceID: traceID,
		Error:   CodeValidation,
		Message: message,
		Details: details,
	})
}

func writeError(w http.ResponseWriter, logger *zap.Logger, traceID string, status int, code, message string, currentStock *int) {
	WriteJSON(w, logger, status, dto.ErrorResponse{
		TraceID:      traceID,
		Status:       status,
		Code:         code,
		Message:      message,
		CurrentStock: currentStock,
		Timestamp:    time.Now().UTC(),
	})
}

// WriteUseCaseError maps a typed error to its HTTP status. Anything unrecognised is logged in
// full and answered with a generic 500.
func WriteUseCaseError(w http.ResponseWriter, logger *zap.Logger, traceID string, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		WriteValidationError(w, logger, traceID, ve.Message, ve.Details...)
		return
	}

	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		writeError(w, logger, traceID, http.StatusNotFound, CodeNotFound, nfe.Message, nil)
		return
	}

	if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		stock := ise.CurrentStock
		writeError(w, logger, traceID, http.StatusConflict, CodeInsufficientStock, ise.Error(), &stock)
		return
	}

	if ide, ok := apperrors.IsIrreversibleDeletionError(err); ok {
		stock := ide.CurrentStock
		writeError(w, logger, traceID, http.StatusBadRequest, CodeIrreversibleDeletion, ide.Error(), &stock)
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		logger.Warn("request abandoned after lock conflicts", zap.Error(err))
		writeError(w, logger, traceID, http.StatusServiceUnavailable, CodeConflict, "the product is busy, retry the request", nil)
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("request timed out", zap.Error(err))
		writeError(w, logger, traceID, http.StatusGatewayTimeout, CodeTimeout, "the request timed out", nil)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	writeError(w, logger, traceID, http.StatusInternalServerError, CodeInternal, "an unexpected error occurred", nil)
}

// DecodeJSON reads the request body into dst. On failure it writes the error response itself
// and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, traceID string, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		logger.Warn("request body too large", zap.Int64("limit", tooLarge.Limit))
		writeError(w, logger, traceID, http.StatusRequestEntityTooLarge, CodePayloadTooLarge,
			"request body must not exceed 16 KB", nil)
		return false
	}

	logger.Warn("invalid JSON body", zap.Error(err))
	WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
		Field:   "body",
		Message: "request body must be valid JSON",
	})
	return false
}

// PathID parses a positive integer chi URL parameter.
func PathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// QueryInt parses an optional integer query parameter. Absent means def.
func QueryInt(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
