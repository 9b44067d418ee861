package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nkapur/storefront/internal/catalog/application"
	"github.com/nkapur/storefront/internal/catalog/domain"
)

type memProductRepo struct {
	byID  map[string]domain.Product
	order []string
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{byID: map[string]domain.Product{}}
}

func (m *memProductRepo) Insert(_ context.Context, p domain.Product) (domain.Product, error) {
	p.ID = primitive.NewObjectID()
	m.byID[p.ID.Hex()] = p
	m.order = append(m.order, p.ID.Hex())
	return p, nil
}

func (m *memProductRepo) Find(_ context.Context, f application.ListFilter) ([]domain.Product, int64, error) {
	var matched []domain.Product
	for _, id := range m.order {
		p := m.byID[id]
		if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
			continue
		}
		if f.Size != "" && p.Size != f.Size {
			continue
		}
		matched = append(matched, p)
	}
	total := int64(len(matched))
	if f.Offset >= total {
		return nil, total, nil
	}
	matched = matched[f.Offset:]
	if int64(len(matched)) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

func (m *memProductRepo) Get(_ context.Context, id string) (domain.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (m *memProductRepo) Update(_ context.Context, id string, patch application.ProductPatch) (domain.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	m.byID[id] = p
	return p, nil
}

func (m *memProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(m.byID, id)
	return nil
}

func newTestHandler() (*Handler, *memProductRepo) {
	repo := newMemProductRepo()
	svc := application.NewService(repo, 100)
	return NewHandler(slog.New(slog.DiscardHandler), svc), repo
}

func TestCreateProductHTTP(t *testing.T) {
	h, _ := newTestHandler()
	srv := h.Routes()

	body := `{"name":"Widget","description":"a widget","price":9.99,"category":"tools","stock":5}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	var p domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, 5, p.Stock)
	assert.False(t, p.ID.IsZero())
}

func TestCreateProductHTTPBadRequests(t *testing.T) {
	h, _ := newTestHandler()
	srv := h.Routes()

	cases := map[string]string{
		"malformed json":     `{"name":`,
		"non-positive price": `{"name":"W","description":"d","price":0,"category":"c","stock":1}`,
		"negative stock":     `{"name":"W","description":"d","price":1,"category":"c","stock":-1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "validation_error")
		})
	}
}

func TestListProductsHTTP(t *testing.T) {
	h, _ := newTestHandler()
	srv := h.Routes()

	for i := 0; i < 25; i++ {
		body := fmt.Sprintf(`{"name":"P%02d","description":"d","price":1.5,"category":"c","stock":1}`, i)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?limit=10&offset=0", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp productListResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Products, 10)
	assert.EqualValues(t, 25, resp.Total)
	assert.EqualValues(t, 10, resp.Limit)
	assert.EqualValues(t, 0, resp.Offset)
}

func TestGetProductHTTPMisses(t *testing.T) {
	h, _ := newTestHandler()
	srv := h.Routes()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+primitive.NewObjectID().Hex(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestUpdateAndDeleteProductHTTP(t *testing.T) {
	h, repo := newTestHandler()
	srv := h.Routes()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"name":"Widget","description":"d","price":9.99,"category":"tools","stock":5}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	var p domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/"+p.ID.Hex(), strings.NewReader(`{"price":12.5}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var updated domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 12.5, updated.Price)
	assert.Equal(t, "Widget", updated.Name)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/"+p.ID.Hex(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, repo.byID)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/"+p.ID.Hex(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
