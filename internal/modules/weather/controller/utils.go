package controller

import (
	"net/http"

	"weatherboard/internal/modules/weather/types"
)

const defaultOrder = "asc"

// parseTopKQuery reads field, limit and order from the query string. Absent
// limit and order fall back to the dashboard defaults; a present but
// malformed limit is an *types.InvalidLimitError. Field and order are passed
// through untouched for the service to validate.
func parseTopKQuery(r *http.Request) (field string, limit int, order string, err error) {
	q := r.URL.Query()

	field = q.Get("field")
	// Keep the service's field-before-limit error precedence.
	if _, err := types.ParseField(field); err != nil {
		return "", 0, "", err
	}

	limit = types.DefaultLimit
	if q.Has("limit") {
		limit, err = types.ParseLimit(q.Get("limit"))
		if err != nil {
			return "", 0, "", err
		}
	}

	order = defaultOrder
	if q.Has("order") {
		order = q.Get("order")
	}

	return field, limit, order, nil
}
