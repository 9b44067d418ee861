package idempotency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSeener struct {
	seen map[string]bool
	err  error
}

func (f *fakeSeener) Key(method, path, token string) string {
	return fmt.Sprintf("idem:%s:%s:%s", method, path, token)
}

func (f *fakeSeener) Seen(_ context.Context, key string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen[key] {
		return true, nil
	}
	f.seen[key] = true
	return false, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	t.Run("no header passes through", func(t *testing.T) {
		store := &fakeSeener{seen: map[string]bool{}}
		h := Middleware(store, discardLogger())(ok)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", nil))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Empty(t, store.seen)
	})

	t.Run("first use accepted, replay rejected", func(t *testing.T) {
		store := &fakeSeener{seen: map[string]bool{}}
		h := Middleware(store, discardLogger())(ok)

		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set(Header, "abc-123")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "duplicate_request")
	})

	t.Run("store error lets request through", func(t *testing.T) {
		store := &fakeSeener{err: errors.New("redis down")}
		h := Middleware(store, discardLogger())(ok)

		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set(Header, "abc-123")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("nil store passes through", func(t *testing.T) {
		h := Middleware(nil, discardLogger())(ok)

		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set(Header, "abc-123")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}
