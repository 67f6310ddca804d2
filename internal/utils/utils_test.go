package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"weatherboard/internal/db"
	"weatherboard/internal/modules/weather/types"
)

func TestWriteJSON(t *testing.T) {
	t.Run("sets content-type and status", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := map[string]string{"key": "value"}
		WriteJSON(w, http.StatusOK, body)

		if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
			t.Errorf("Content-Type = %q; want application/json; charset=utf-8", got)
		}
		if w.Code != http.StatusOK {
			t.Errorf("Code = %d; want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("encodes body as JSON", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := []types.WeatherSample{{ID: "a", City: "Oslo", PressurePsi: 14.7}}
		WriteJSON(w, http.StatusCreated, body)

		var got []map[string]any
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("body is not valid JSON: %v", err)
		}
		if len(got) != 1 || got[0]["pressurePsi"] != 14.7 {
			t.Errorf("body = %v; want one sample with pressurePsi 14.7", got)
		}
	})
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	status := http.StatusBadRequest
	msg := "invalid input"
	WriteError(w, status, msg)

	if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q; want application/json; charset=utf-8", got)
	}
	if w.Code != status {
		t.Errorf("Code = %d; want %d", w.Code, status)
	}

	var got map[string]any
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if got["error"] != http.StatusText(status) {
		t.Errorf("error = %q; want %q", got["error"], http.StatusText(status))
	}
	if got["message"] != msg {
		t.Errorf("message = %q; want %q", got["message"], msg)
	}
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "invalid field",
			err:         &types.InvalidFieldError{Field: "status"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: `invalid field "status"`,
		},
		{
			name:        "invalid limit",
			err:         &types.InvalidLimitError{Value: "0"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: `invalid limit "0"`,
		},
		{
			name:        "not found",
			err:         fmt.Errorf("invoice %q: %w", "x", db.ErrNotFound),
			wantStatus:  http.StatusNotFound,
			wantMessage: "not found",
		},
		{
			name:        "fetch error hides driver text",
			err:         db.FetchError("TopK", errors.New("no such table: weatherdata")),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "failed to load weather data",
		},
		{
			name:        "unknown error",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "failed to load weather data",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteServiceError(w, tt.err, "failed to load weather data")

			if w.Code != tt.wantStatus {
				t.Errorf("Code = %d; want %d", w.Code, tt.wantStatus)
			}
			var got map[string]string
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("body is not valid JSON: %v", err)
			}
			if !strings.Contains(got["message"], tt.wantMessage) {
				t.Errorf("message = %q; want it to contain %q", got["message"], tt.wantMessage)
			}
			if strings.Contains(got["message"], "no such table") {
				t.Errorf("message leaks driver error: %q", got["message"])
			}
		})
	}
}
