package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tkasten/wayfare/backend/internal/domain"
)

var (
	errInvalidTripID     = errors.New("trip id must be a valid uuid")
	errInvalidActivityID = errors.New("activity id must be a valid uuid")
)

// activityResponse is the wire shape of an activity.
type activityResponse struct {
	ID               string             `json:"id"`
	TripID           string             `json:"trip_id"`
	Name             string             `json:"name"`
	Description      string             `json:"description,omitempty"`
	Date             openapi_types.Date `json:"date"`
	StartTime        string             `json:"start_time,omitempty"`
	EndTime          string             `json:"end_time,omitempty"`
	Location         locationPayload    `json:"location"`
	Cost             float64            `json:"cost"`
	Category         string             `json:"category"`
	Status           string             `json:"status"`
	Notes            string             `json:"notes,omitempty"`
	BookingReference string             `json:"booking_reference,omitempty"`
	Images           []string           `json:"images"`
	Priority         string             `json:"priority"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

type locationPayload struct {
	Name      string   `json:"name,omitempty"`
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type createActivityRequest struct {
	Name             string              `json:"name"`
	Description      string              `json:"description"`
	Date             *openapi_types.Date `json:"date"`
	StartTime        string              `json:"start_time"`
	EndTime          string              `json:"end_time"`
	Location         *locationPayload    `json:"location"`
	Cost             float64             `json:"cost"`
	Category         string              `json:"category"`
	Status           string              `json:"status"`
	Notes            string              `json:"notes"`
	BookingReference string              `json:"booking_reference"`
	Images           []string            `json:"images"`
	Priority         string              `json:"priority"`
}

// updateActivityRequest mirrors createActivityRequest with every field
// optional. An omitted date skips the window recheck; an omitted cost leaves
// the trip's recorded spend alone.
type updateActivityRequest struct {
	Name             *string             `json:"name"`
	Description      *string             `json:"description"`
	Date             *openapi_types.Date `json:"date"`
	StartTime        *string             `json:"start_time"`
	EndTime          *string             `json:"end_time"`
	Location         *locationPayload    `json:"location"`
	Cost             *float64            `json:"cost"`
	Category         *string             `json:"category"`
	Status           *string             `json:"status"`
	Notes            *string             `json:"notes"`
	BookingReference *string             `json:"booking_reference"`
	Images           *[]string           `json:"images"`
	Priority         *string             `json:"priority"`
}

// CreateActivity handles POST /api/trips/{tripID}/activities.
func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, "trip id must be a valid uuid")
		return
	}

	var req createActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	created, err := s.activities.Create(r.Context(), userID, requestToActivity(tripID, req))
	if err != nil {
		writeDomainError(w, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, activityToResponse(created))
}

// ListActivities handles GET /api/trips/{tripID}/activities.
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, "trip id must be a valid uuid")
		return
	}

	activities, err := s.activities.ListByTrip(r.Context(), userID, tripID)
	if err != nil {
		writeDomainError(w, err, "trip not found")
		return
	}

	data := make([]activityResponse, len(activities))
	for i, a := range activities {
		data[i] = activityToResponse(a)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// GetActivity handles GET /api/trips/{tripID}/activities/{activityID}.
func (s *Server) GetActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID, activityID, err := activityPath(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	activity, err := s.activities.GetByID(r.Context(), userID, tripID, activityID)
	if err != nil {
		writeDomainError(w, err, "activity not found")
		return
	}
	writeJSON(w, http.StatusOK, activityToResponse(activity))
}

// UpdateActivity handles PUT /api/trips/{tripID}/activities/{activityID}.
func (s *Server) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID, activityID, err := activityPath(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var req updateActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	updated, err := s.activities.Update(r.Context(), userID, tripID, activityID, requestToActivityUpdate(req))
	if err != nil {
		writeDomainError(w, err, "activity not found")
		return
	}
	writeJSON(w, http.StatusOK, activityToResponse(updated))
}

// DeleteActivity handles DELETE /api/trips/{tripID}/activities/{activityID}.
func (s *Server) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID, activityID, err := activityPath(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.activities.Delete(r.Context(), userID, tripID, activityID); err != nil {
		writeDomainError(w, err, "activity not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

func activityPath(r *http.Request) (tripID, activityID uuid.UUID, err error) {
	tripID, err = pathUUID(r, "tripID")
	if err != nil {
		return uuid.Nil, uuid.Nil, errInvalidTripID
	}
	activityID, err = pathUUID(r, "activityID")
	if err != nil {
		return uuid.Nil, uuid.Nil, errInvalidActivityID
	}
	return tripID, activityID, nil
}

func requestToActivity(tripID uuid.UUID, req createActivityRequest) domain.Activity {
	a := domain.Activity{
		TripID:           tripID,
		Name:             req.Name,
		Description:      req.Description,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Cost:             req.Cost,
		Category:         domain.ActivityCategory(req.Category),
		Status:           domain.ActivityStatus(req.Status),
		Notes:            req.Notes,
		BookingReference: req.BookingReference,
		Images:           req.Images,
		Priority:         domain.ActivityPriority(req.Priority),
	}
	if req.Date != nil {
		a.Date = req.Date.Time
	}
	if req.Location != nil {
		a.Location = domain.Location{
			Name:      req.Location.Name,
			Address:   req.Location.Address,
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
		}
	}
	return a
}

func requestToActivityUpdate(req updateActivityRequest) domain.ActivityUpdate {
	upd := domain.ActivityUpdate{
		Name:             req.Name,
		Description:      req.Description,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Cost:             req.Cost,
		Notes:            req.Notes,
		BookingReference: req.BookingReference,
		Images:           req.Images,
	}
	if req.Date != nil {
		upd.Date = &req.Date.Time
	}
	if req.Location != nil {
		upd.Location = &domain.Location{
			Name:      req.Location.Name,
			Address:   req.Location.Address,
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
		}
	}
	if req.Category != nil {
		c := domain.ActivityCategory(*req.Category)
		upd.Category = &c
	}
	if req.Status != nil {
		st := domain.ActivityStatus(*req.Status)
		upd.Status = &st
	}
	if req.Priority != nil {
		p := domain.ActivityPriority(*req.Priority)
		upd.Priority = &p
	}
	return upd
}

func activityToResponse(a domain.Activity) activityResponse {
	images := a.Images
	if images == nil {
		images = []string{}
	}
	return activityResponse{
		ID:          a.ID.String(),
		TripID:      a.TripID.String(),
		Name:        a.Name,
		Description: a.Description,
		Date:        openapi_types.Date{Time: a.Date},
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Location: locationPayload{
			Name:      a.Location.Name,
			Address:   a.Location.Address,
			Latitude:  a.Location.Latitude,
			Longitude: a.Location.Longitude,
		},
		Cost:             a.Cost,
		Category:         string(a.Category),
		Status:           string(a.Status),
		Notes:            a.Notes,
		BookingReference: a.BookingReference,
		Images:           images,
		Priority:         string(a.Priority),
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
