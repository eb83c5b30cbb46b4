// Package health exposes reachability of the process's backing
// dependencies.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Malmz/TalesFromTheSprawl/internal/transport/http/shared"
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

// Handler runs every registered check. Any failure degrades the response
// to 503 so load balancers stop routing claims at a node whose arbitration
// slot or handle store is unreachable.
func Handler(logger *slog.Logger, checks map[string]Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "health check failed",
					"dependency", name,
					"error", err,
				)
				shared.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"failed": name,
				})
				return
			}
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
