package handler

import (
	"net/http"
	"strconv"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tkasten/wayfare/backend/internal/domain"
)

// tripResponse is the wire shape of a trip.
type tripResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Destination string             `json:"destination"`
	Description string             `json:"description,omitempty"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Budget      budgetResponse     `json:"budget"`
	Status      string             `json:"status"`
	Images      []string           `json:"images"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type budgetResponse struct {
	Total     float64 `json:"total"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

type createTripRequest struct {
	Title       string              `json:"title"`
	Destination string              `json:"destination"`
	Description string              `json:"description"`
	StartDate   *openapi_types.Date `json:"start_date"`
	EndDate     *openapi_types.Date `json:"end_date"`
	Budget      *struct {
		Total float64 `json:"total"`
	} `json:"budget"`
	Status string   `json:"status"`
	Images []string `json:"images"`
}

// updateTripRequest mirrors createTripRequest with every field optional.
// Absent fields stay nil and are never written, so a status-only update
// cannot clobber the budget or dates.
type updateTripRequest struct {
	Title       *string             `json:"title"`
	Destination *string             `json:"destination"`
	Description *string             `json:"description"`
	StartDate   *openapi_types.Date `json:"start_date"`
	EndDate     *openapi_types.Date `json:"end_date"`
	Budget      *struct {
		Total *float64 `json:"total"`
	} `json:"budget"`
	Status *string   `json:"status"`
	Images *[]string `json:"images"`
}

type paginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type tripListResponse struct {
	Data       []tripResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// CreateTrip handles POST /api/trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req createTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), userID, requestToTrip(req))
	if err != nil {
		writeDomainError(w, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /api/trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	trips, total, err := s.trips.List(r.Context(), userID, params)
	if err != nil {
		writeDomainError(w, err, "trip not found")
		return
	}

	data := make([]tripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, tripListResponse{
		Data: data,
		Pagination: paginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetTrip handles GET /api/trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, "trip id must be a valid uuid")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), userID, tripID)
	if err != nil {
		writeDomainError(w, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /api/trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, "trip id must be a valid uuid")
		return
	}

	var req updateTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	updated, err := s.trips.Update(r.Context(), userID, tripID, requestToTripUpdate(req))
	if err != nil {
		writeDomainError(w, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /api/trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, "trip id must be a valid uuid")
		return
	}

	if err := s.trips.Delete(r.Context(), userID, tripID); err != nil {
		writeDomainError(w, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// queryInt parses an optional integer query parameter, nil when absent or
// malformed.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func requestToTrip(req createTripRequest) domain.Trip {
	t := domain.Trip{
		Title:       req.Title,
		Destination: req.Destination,
		Description: req.Description,
		Status:      domain.TripStatus(req.Status),
		Images:      req.Images,
	}
	if req.StartDate != nil {
		t.StartDate = req.StartDate.Time
	}
	if req.EndDate != nil {
		t.EndDate = req.EndDate.Time
	}
	if req.Budget != nil {
		t.Budget.Total = req.Budget.Total
	}
	return t
}

func requestToTripUpdate(req updateTripRequest) domain.TripUpdate {
	upd := domain.TripUpdate{
		Title:       req.Title,
		Destination: req.Destination,
		Description: req.Description,
		Images:      req.Images,
	}
	if req.StartDate != nil {
		upd.StartDate = &req.StartDate.Time
	}
	if req.EndDate != nil {
		upd.EndDate = &req.EndDate.Time
	}
	if req.Budget != nil {
		upd.BudgetTotal = req.Budget.Total
	}
	if req.Status != nil {
		status := domain.TripStatus(*req.Status)
		upd.Status = &status
	}
	return upd
}

func tripToResponse(t domain.Trip) tripResponse {
	images := t.Images
	if images == nil {
		images = []string{}
	}
	return tripResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Destination: t.Destination,
		Description: t.Description,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		EndDate:     openapi_types.Date{Time: t.EndDate},
		Budget: budgetResponse{
			Total:     t.Budget.Total,
			Spent:     t.Budget.Spent,
			Remaining: t.Budget.Remaining(),
		},
		Status:    string(t.Status),
		Images:    images,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
