// Package httpapi holds the HTTP plumbing shared by the catalog and order
// handlers: response encoding, error-to-status mapping, middleware, health.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	catalogdomain "github.com/nkapur/storefront/internal/catalog/domain"
	orderdomain "github.com/nkapur/storefront/internal/order/domain"
	"github.com/nkapur/storefront/internal/platform/mongodb"
	"github.com/nkapur/storefront/pkg/apperr"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// Error maps a service error onto the wire: validation and insufficient stock
// are the client's fault, missing documents are 404, store connectivity is
// 503, anything else is a 500 with the detail kept out of the body.
func Error(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case apperr.IsValidation(err):
		JSON(w, http.StatusBadRequest, errorBody{Error: "validation_error", Detail: err.Error()})
	case errors.Is(err, catalogdomain.ErrInsufficientStock):
		JSON(w, http.StatusBadRequest, errorBody{Error: "insufficient_stock", Detail: err.Error()})
	case errors.Is(err, catalogdomain.ErrProductNotFound),
		errors.Is(err, orderdomain.ErrOrderNotFound):
		JSON(w, http.StatusNotFound, errorBody{Error: "not_found", Detail: err.Error()})
	case mongodb.Unavailable(err):
		log.Error("store unavailable", "err", err)
		JSON(w, http.StatusServiceUnavailable, errorBody{Error: "store_unavailable", Detail: "document store is unreachable"})
	default:
		log.Error("request failed", "err", err)
		JSON(w, http.StatusInternalServerError, errorBody{Error: "internal", Detail: "internal server error"})
	}
}
