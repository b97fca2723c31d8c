package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Weather handles GET /api/weather/{destination}, returning a five-day
// forecast summarized per calendar day. Forecasts are cached inside the
// WeatherProvider.
func (s *Server) Weather(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	destination := strings.TrimSpace(chi.URLParam(r, "destination"))
	if destination == "" {
		writeBadRequest(w, "destination is required")
		return
	}

	forecast, err := s.weather.GetForecast(r.Context(), destination)
	if err != nil {
		writeDomainError(w, err, "no forecast for that destination")
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}
