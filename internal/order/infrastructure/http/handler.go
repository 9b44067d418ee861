package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/nkapur/storefront/internal/httpapi"
	"github.com/nkapur/storefront/internal/order/application"
	"github.com/nkapur/storefront/internal/order/domain"
	"github.com/nkapur/storefront/pkg/apperr"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("order-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.place)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)

	return r
}

// placeOrderReq deliberately has no price fields: pricing is always taken
// from the catalog at placement time, never from the client.
type placeOrderReq struct {
	UserID          string `json:"user_id"`
	ShippingAddress string `json:"shipping_address"`
	Items           []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
}

type orderListResp struct {
	Orders []domain.Order `json:"orders"`
	Total  int64          `json:"total"`
	Limit  int64          `json:"limit"`
	Offset int64          `json:"offset"`
}

func (h *Handler) place(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlaceOrder")
	defer span.End()

	var req placeOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, h.log, apperr.Invalidf("invalid request body"))
		return
	}

	in := application.PlaceOrderInput{
		UserID:          req.UserID,
		ShippingAddress: req.ShippingAddress,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, application.PlaceOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	o, err := h.service.Place(ctx, in)
	if err != nil {
		httpapi.Error(w, h.log, err)
		return
	}

	h.log.Info("order placed", "order_id", o.ID.Hex(), "user_id", o.UserID, "total", o.TotalAmount)
	httpapi.JSON(w, http.StatusCreated, o)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListOrders")
	defer span.End()

	q := r.URL.Query()
	page, err := h.service.ListByUser(ctx, q.Get("user_id"), parseInt(q.Get("limit")), parseInt(q.Get("offset")))
	if err != nil {
		httpapi.Error(w, h.log, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, orderListResp{
		Orders: page.Orders,
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	o, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		httpapi.Error(w, h.log, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, o)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrder")
	defer span.End()

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		httpapi.Error(w, h.log, apperr.Invalidf("invalid request body"))
		return
	}

	o, err := h.service.Update(ctx, chi.URLParam(r, "id"), fields)
	if err != nil {
		httpapi.Error(w, h.log, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, o)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteOrder")
	defer span.End()

	if err := h.service.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		httpapi.Error(w, h.log, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

func parseInt(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
