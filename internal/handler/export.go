package handler

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tkasten/wayfare/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_title", "trip_destination", "trip_start_date", "trip_end_date",
	"budget_total", "budget_spent",
	"activity_name", "activity_date", "start_time", "end_time",
	"location_name", "cost", "category", "status",
}

// exportRowResponse is the JSON shape of one export row.
type exportRowResponse struct {
	TripID          string  `json:"trip_id"`
	TripTitle       string  `json:"trip_title"`
	TripDestination string  `json:"trip_destination"`
	TripStartDate   string  `json:"trip_start_date"`
	TripEndDate     string  `json:"trip_end_date"`
	BudgetTotal     float64 `json:"budget_total"`
	BudgetSpent     float64 `json:"budget_spent"`

	ActivityName string  `json:"activity_name,omitempty"`
	ActivityDate string  `json:"activity_date,omitempty"`
	StartTime    string  `json:"start_time,omitempty"`
	EndTime      string  `json:"end_time,omitempty"`
	LocationName string  `json:"location_name,omitempty"`
	Cost         float64 `json:"cost"`
	Category     string  `json:"category,omitempty"`
	Status       string  `json:"status,omitempty"`
}

// Export handles GET /api/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	rows, err := s.export.Export(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, "no trips to export")
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, rows)
		return
	}

	out := make([]exportRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToResponse(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV streams rows as text/csv with a header row.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary.csv"`)

	cw := csv.NewWriter(w)
	//nolint:errcheck // write failures are caught by the Error check below
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(rowToCSVRecord(r))
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		// Headers are already sent; nothing to do for the client but log it.
		slog.Error("writing csv export", "error", err)
	}
}

func rowToResponse(r domain.ExportRow) exportRowResponse {
	return exportRowResponse(r)
}

// rowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Monetary values are printed without trailing zeros.
func rowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.TripID,
		r.TripTitle,
		r.TripDestination,
		r.TripStartDate,
		r.TripEndDate,
		formatAmount(r.BudgetTotal),
		formatAmount(r.BudgetSpent),
		r.ActivityName,
		r.ActivityDate,
		r.StartTime,
		r.EndTime,
		r.LocationName,
		formatAmount(r.Cost),
		r.Category,
		r.Status,
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
