package handler

import (
	"encoding/json"
	"net/http"

	"github.com/zarena/platform/internal/infra"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthHandler reports liveness plus database reachability, the only hard
// dependency; Redis and Kafka degrade without taking the service down.
func HealthHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := infra.HealthCheck(r.Context(), pool); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{
				"service": "zarena-api",
				"status":  "unhealthy",
				"error":   err.Error(),
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"service": "zarena-api",
			"status":  "healthy",
		})
	}
}
