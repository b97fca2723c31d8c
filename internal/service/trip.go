// Package service contains the business logic for the Wayfare API.
// Services validate inputs, enforce ownership, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tkasten/wayfare/backend/internal/domain"
	"github.com/tkasten/wayfare/backend/internal/repo"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 1000
)

// TripService implements business logic for Trip operations.
// Every operation on an existing trip verifies the requesting user owns it
// before anything else happens.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create validates and persists a new trip owned by userID.
// The recorded spend always starts at zero; only the activity ledger may
// move it afterwards.
func (s *TripService) Create(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	trip.UserID = userID
	trip.Budget.Spent = 0
	if trip.Status == "" {
		trip.Status = domain.TripPlanning
	}

	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	result, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
// Returns domain.ErrNotFound if it does not exist, domain.ErrForbidden if
// userID is not the owner.
func (s *TripService) GetByID(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns one page of the user's trips, newest first, plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update applies a partial update to an existing trip. Fields left nil in upd
// are untouched, so a status-only update never clobbers the budget.
// The merged result is validated against the same rules as Create, so an
// update can never leave end_date before start_date.
func (s *TripService) Update(ctx context.Context, userID, tripID uuid.UUID, upd domain.TripUpdate) (domain.Trip, error) {
	current, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	if err := validateTrip(mergeTrip(current, upd)); err != nil {
		return domain.Trip{}, err
	}

	result, err := s.repo.Update(ctx, tripID, upd)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by ID. The schema cascades the delete to the trip's
// activities.
func (s *TripService) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := s.repo.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// ownedTrip loads a trip and verifies userID owns it.
func (s *TripService) ownedTrip(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if trip.UserID != userID {
		return domain.Trip{}, fmt.Errorf("%w: trip belongs to another user", domain.ErrForbidden)
	}
	return trip, nil
}

// mergeTrip applies the non-nil fields of upd onto t, mirroring what the
// repo's COALESCE update will persist. Used to validate the post-update state.
func mergeTrip(t domain.Trip, upd domain.TripUpdate) domain.Trip {
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Destination != nil {
		t.Destination = *upd.Destination
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.StartDate != nil {
		t.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		t.EndDate = *upd.EndDate
	}
	if upd.BudgetTotal != nil {
		t.Budget.Total = *upd.BudgetTotal
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.Images != nil {
		t.Images = *upd.Images
	}
	return t
}

// validateTrip enforces business rules common to both Create and Update.
func validateTrip(t domain.Trip) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if len(t.Title) > maxTitleLen {
		return fmt.Errorf("%w: title must be at most %d characters", domain.ErrValidation, maxTitleLen)
	}
	if strings.TrimSpace(t.Destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if len(t.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: description must be at most %d characters", domain.ErrValidation, maxDescriptionLen)
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	if domain.DateOnly(t.EndDate).Before(domain.DateOnly(t.StartDate)) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	if t.Budget.Total < 0 {
		return fmt.Errorf("%w: budget total must not be negative", domain.ErrValidation)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, t.Status)
	}
	return nil
}
