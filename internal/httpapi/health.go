package httpapi

import (
	"context"
	"log/slog"
	"net/http"
)

// Health reports store connectivity: 200 when the ping succeeds, 503 when it
// does not.
func Health(log *slog.Logger, ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ping(r.Context()); err != nil {
			log.Warn("health ping failed", "err", err)
			JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
