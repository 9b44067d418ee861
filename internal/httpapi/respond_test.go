package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	catalogdomain "github.com/nkapur/storefront/internal/catalog/domain"
	orderdomain "github.com/nkapur/storefront/internal/order/domain"
	"github.com/nkapur/storefront/pkg/apperr"
)

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"validation", apperr.Invalidf("price must be positive"), http.StatusBadRequest, "validation_error"},
		{"insufficient stock", catalogdomain.ErrInsufficientStock, http.StatusBadRequest, "insufficient_stock"},
		{"wrapped insufficient stock", fmt.Errorf("product x: %w", catalogdomain.ErrInsufficientStock), http.StatusBadRequest, "insufficient_stock"},
		{"product not found", catalogdomain.ErrProductNotFound, http.StatusNotFound, "not_found"},
		{"order not found", orderdomain.ErrOrderNotFound, http.StatusNotFound, "not_found"},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable, "store_unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, discardLogger(), tc.err)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantKind)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestHealth(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		h := Health(discardLogger(), func(context.Context) error { return nil })
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"ok"`)
	})

	t.Run("store down", func(t *testing.T) {
		h := Health(discardLogger(), func(context.Context) error { return errors.New("no reachable servers") })
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"unavailable"`)
	})
}

func TestCORS(t *testing.T) {
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/products", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
