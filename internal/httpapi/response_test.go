package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockledger/internal/dto"
	apperrors "stockledger/internal/errors"
)

func TestWriteUseCaseError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", apperrors.NewNotFoundError(apperrors.ResourceProduct, "product with id 1 not found"), http.StatusNotFound, CodeNotFound},
		{"insufficient stock", apperrors.NewInsufficientStockError(1, 150, 200), http.StatusConflict, CodeInsufficientStock},
		{"irreversible", apperrors.NewIrreversibleDeletionError(1, 1, 20, 50), http.StatusBadRequest, CodeIrreversibleDeletion},
		{"conflict", apperrors.NewConflictError("concurrent update conflict", 3, nil), http.StatusServiceUnavailable, CodeConflict},
		{"deadline", apperrors.NewInternalError("failed", fmt.Errorf("query: %w", context.DeadlineExceeded)), http.StatusGatewayTimeout, CodeTimeout},
		{"internal", apperrors.NewInternalError("failed", fmt.Errorf("dial tcp: refused")), http.StatusInternalServerError, CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteUseCaseError(rec, zap.NewNop(), "trace-1", tc.err)

			assert.Equal(t, tc.status, rec.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, "trace-1", body.TraceID)
		})
	}
}

func TestWriteUseCaseError_InsufficientStockCarriesStock(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteUseCaseError(rec, zap.NewNop(), "t", apperrors.NewInsufficientStockError(1, 150, 200))

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.CurrentStock)
	assert.Equal(t, 150, *body.CurrentStock)
}

func TestWriteUseCaseError_InternalHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteUseCaseError(rec, zap.NewNop(), "t", fmt.Errorf("password=hunter2 rejected"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestWriteUseCaseError_Validation(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteUseCaseError(rec, zap.NewNop(), "t", apperrors.NewValidationError("validation failed",
		apperrors.ValidationDetail{Field: "quantity", Message: "quantity is required"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body validationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, CodeValidation, body.Error)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "quantity", body.Details[0].Field)
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		var p payload
		ok := DecodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"bolt"}`)), zap.NewNop(), "t", &p)
		assert.True(t, ok)
		assert.Equal(t, "bolt", p.Name)
	})

	t.Run("invalid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		var p payload
		ok := DecodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`)), zap.NewNop(), "t", &p)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), CodeValidation)
	})

	t.Run("too large", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := `{"name":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
		var p payload
		ok := DecodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), zap.NewNop(), "t", &p)
		assert.False(t, ok)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, CodePayloadTooLarge, resp.Code)
	})
}

func TestPathID(t *testing.T) {
	for raw, want := range map[string]bool{"12": true, "0": false, "-4": false, "abc": false} {
		r := httptest.NewRequest(http.MethodGet, "/transactions/"+raw, nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", raw)
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

		_, ok := PathID(r, "id")
		assert.Equal(t, want, ok, raw)
	}
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/reports/sales-summary?days=7&bad=x", nil)

	n, ok := QueryInt(r, "days", 30)
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	n, ok = QueryInt(r, "missing", 30)
	assert.True(t, ok)
	assert.Equal(t, 30, n)

	_, ok = QueryInt(r, "bad", 30)
	assert.False(t, ok)
}
