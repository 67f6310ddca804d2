package httpapi

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"weatherboard/internal/utils"
)

// MQTTStatus reports broker connectivity for the health endpoint.
type MQTTStatus interface {
	IsConnected() bool
}

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	db   *sql.DB
	mqtt MQTTStatus
}

func NewHealthchecker(db *sql.DB, mqtt MQTTStatus) healthchecker {
	return &healthcheckerImpl{db: db, mqtt: mqtt}
}

// handleHealthz fails only when the database is unreachable; MQTT state is
// informational.
func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	var ok int
	if err := h.db.QueryRowContext(ctx, `SELECT 1`).Scan(&ok); err != nil {
		slog.Error("failed to check database connectivity", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to check database connectivity")
		return
	}

	body := map[string]string{"status": "ok", "mqtt": "disabled"}
	if h.mqtt != nil {
		body["mqtt"] = "disconnected"
		if h.mqtt.IsConnected() {
			body["mqtt"] = "connected"
		}
	}
	utils.WriteJSON(w, http.StatusOK, body)
}

func registerHealthcheck(mux *http.ServeMux, db *sql.DB, mqtt MQTTStatus) {
	healthchecker := NewHealthchecker(db, mqtt)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}
