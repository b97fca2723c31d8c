package handler

import (
	"net/http"
	"strings"
)

// GeocodeAddress handles GET /api/geocode?address=...
// Results are cached inside the Geocoder, so repeated lookups for the same
// address do not hit the upstream service.
func (s *Server) GeocodeAddress(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		writeBadRequest(w, "address query parameter is required")
		return
	}

	result, err := s.geocoder.Geocode(r.Context(), address)
	if err != nil {
		writeDomainError(w, err, "no results for that address")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
