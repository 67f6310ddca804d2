package controller

import (
	"net/http"

	"weatherboard/internal/utils"
)

func (c *weatherControllerImpl) handleSamples(w http.ResponseWriter, r *http.Request) {
	samples, err := c.service.List(r.Context())
	if err != nil {
		utils.WriteServiceError(w, err, "failed to load weather data")
		return
	}
	utils.WriteJSON(w, http.StatusOK, samples)
}

func (c *weatherControllerImpl) handleTopK(w http.ResponseWriter, r *http.Request) {
	field, limit, order, err := parseTopKQuery(r)
	if err != nil {
		utils.WriteServiceError(w, err, "invalid query")
		return
	}

	samples, err := c.service.TopK(r.Context(), field, limit, order)
	if err != nil {
		utils.WriteServiceError(w, err, "failed to load weather data")
		return
	}
	utils.WriteJSON(w, http.StatusOK, samples)
}
