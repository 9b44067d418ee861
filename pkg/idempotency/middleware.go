package idempotency

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

const Header = "Idempotency-Key"

type Seener interface {
	Key(method, path, token string) string
	Seen(ctx context.Context, key string) (bool, error)
}

// Middleware rejects a request whose Idempotency-Key was already seen with a
// 409. Requests without the header pass through. A store error is logged and
// the request is let through rather than failed.
func Middleware(store Seener, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(Header)
			if store == nil || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			key := store.Key(r.Method, r.URL.Path, token)
			seen, err := store.Seen(r.Context(), key)
			if err != nil {
				log.Error("idempotency check failed", "key", key, "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if seen {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusConflict)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":  "duplicate_request",
					"detail": "request with this idempotency key was already accepted",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
