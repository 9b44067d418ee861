package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/nkapur/storefront/internal/catalog/application"
	"github.com/nkapur/storefront/internal/catalog/domain"
	"github.com/nkapur/storefront/internal/httpapi"
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
		tracer:  otel.Tracer("catalog-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)

	return r
}

type createProductReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Size        string  `json:"size"`
	Stock       int     `json:"stock"`
}

type updateProductReq struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Size        *string  `json:"size"`
	Stock       *int     `json:"stock"`
}

type productListResp struct {
	Products []domain.Product `json:"products"`
	Total    int64            `json:"total"`
	Limit    int64            `json:"limit"`
	Offset   int64            `json:"offset"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateProduct")
	defer span.End()

	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, h.log, apperr.Invalidf("invalid request body"))
		return
	}

	p, err := h.service.Create(ctx, application.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Size:        req.Size,
		Stock:       req.Stock,
	})
	if err != nil {
		httpapi.Error(w, h.log, err)
		return
	}
	httpapi.JSON(w, http.StatusCreated, p)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListProducts")
	defer span.End()

	q := r.URL.Query()
	page, err := h.service.List(ctx, application.ListFilter{
		Name:   q.Get("name"),
		Size:   q.Get("size"),
		Limit:  parseInt(q.Get("limit")),
		Offset: parseInt(q.Get("offset")),
	})
	if err != nil {
		httpapi.Error(w, h.log, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, productListResp{
		Products: page.Products,
		Total:    page.Total,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetProduct")
	defer span.End()

	p, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		httpapi.Error(w, h.log, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateProduct")
	defer span.End()

	var req updateProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, h.log, apperr.Invalidf("invalid request body"))
		return
	}

	p, err := h.service.Update(ctx, chi.URLParam(r, "id"), application.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Size:        req.Size,
		Stock:       req.Stock,
	})
	if err != nil {
		httpapi.Error(w, h.log, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, p)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteProduct")
	defer span.End()

	if err := h.service.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		httpapi.Error(w, h.log, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
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
