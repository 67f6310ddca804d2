package dashboard

import (
	"database/sql"
	"log/slog"
	"net/http"

	"weatherboard/internal/config"
	"weatherboard/internal/modules/dashboard/controller"
	"weatherboard/internal/modules/dashboard/repository"
	"weatherboard/internal/modules/dashboard/service"
	"weatherboard/internal/observability"
)

func RegisterFeature(mux *http.ServeMux, db *sql.DB, metrics *observability.Metrics, cfg config.Config) {
	dashboardRepository := repository.NewRepository(db)
	dashboardService := service.NewService(dashboardRepository, metrics, cfg.QueryTimeout, slog.Default().With("module", "dashboard"))
	dashboardController := controller.NewDashboardController(dashboardService)
	dashboardController.RegisterRoutes(mux)
}
