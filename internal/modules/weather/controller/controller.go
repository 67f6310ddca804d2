package controller

import (
	"context"
	"net/http"

	"weatherboard/internal/modules/weather/types"
)

// WeatherService is the read side the controller depends on.
type WeatherService interface {
	TopK(ctx context.Context, field string, limit int, order string) ([]types.WeatherSample, error)
	List(ctx context.Context) ([]types.WeatherSample, error)
}

type WeatherController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type weatherControllerImpl struct {
	service WeatherService
}

func NewWeatherController(service WeatherService) WeatherController {
	return &weatherControllerImpl{service: service}
}

func (c *weatherControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/weather", c.handleSamples)
	mux.HandleFunc("GET /api/v1/weather/top", c.handleTopK)
}
