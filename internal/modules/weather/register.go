package weather

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"

	"weatherboard/internal/config"
	"weatherboard/internal/modules/weather/controller"
	"weatherboard/internal/modules/weather/repository"
	"weatherboard/internal/modules/weather/service"
	"weatherboard/internal/mqtt"
	"weatherboard/internal/observability"
)

// RegisterFeature mounts the weather routes on mux and, when subscriber is
// non-nil, attaches the sample ingest handler to it.
func RegisterFeature(
	mux *http.ServeMux,
	db *sql.DB,
	subscriber mqtt.MQTTSubscriber,
	metrics *observability.Metrics,
	cfg config.Config,
) {
	logger := slog.Default().With("module", "weather")

	weatherRepository := repository.NewRepository(db)
	weatherService := service.NewService(weatherRepository, metrics, clockwork.NewRealClock(), cfg.QueryTimeout, logger)
	weatherController := controller.NewWeatherController(weatherService)
	weatherController.RegisterRoutes(mux)

	if subscriber != nil {
		registerMQTTHandler(subscriber, weatherRepository, metrics, logger)
	}
}
