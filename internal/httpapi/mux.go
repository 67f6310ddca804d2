package httpapi

import (
	"database/sql"
	"net/http"

	"weatherboard/internal/observability"
)

// NewMux returns a mux with /healthz and /metrics mounted. Feature modules
// register their own routes on it. mqtt may be nil when ingest is disabled.
func NewMux(db *sql.DB, metrics *observability.Metrics, mqtt MQTTStatus) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db, mqtt)
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}
