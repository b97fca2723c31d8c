package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tkasten/wayfare/backend/internal/domain"
	"github.com/tkasten/wayfare/backend/internal/repo"
)

const maxActivityNameLen = 200

// ActivityService implements business logic for Activity operations,
// including the budget ledger: every activity create, cost change, and
// delete pushes a delta into the parent trip's recorded spend so that
// trip.Budget.Spent stays equal to the sum of its activities' costs.
//
// Every mutation follows the same pipeline: load the parent trip, verify
// ownership, validate (including the date window), write the activity, then
// apply the spend delta. Guards run strictly before any write.
type ActivityService struct {
	trips      repo.TripRepo
	activities repo.ActivityRepo
	log        *slog.Logger
}

// NewActivityService constructs an ActivityService backed by the provided repos.
func NewActivityService(trips repo.TripRepo, activities repo.ActivityRepo, log *slog.Logger) *ActivityService {
	return &ActivityService{trips: trips, activities: activities, log: log}
}

// Create validates and persists a new activity under the trip, then adds its
// cost to the trip's recorded spend.
// Returns domain.ErrNotFound if the trip does not exist, domain.ErrForbidden
// if userID is not the trip owner, domain.ErrValidation if the activity's
// date falls outside the trip's date window or another rule fails.
func (s *ActivityService) Create(ctx context.Context, userID uuid.UUID, activity domain.Activity) (domain.Activity, error) {
	trip, err := s.ownedTrip(ctx, userID, activity.TripID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}

	applyActivityDefaults(&activity)
	if err := validateActivity(activity); err != nil {
		return domain.Activity{}, err
	}
	if err := validateActivityDate(trip, activity.Date); err != nil {
		return domain.Activity{}, err
	}

	created, err := s.activities.Create(ctx, activity)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}

	if created.Cost != 0 {
		if err := s.applyDelta(ctx, trip.ID, created.Cost); err != nil {
			return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
		}
	}
	return created, nil
}

// GetByID returns a single activity, scoped to the trip and its owner.
func (s *ActivityService) GetByID(ctx context.Context, userID, tripID, activityID uuid.UUID) (domain.Activity, error) {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.GetByID: %w", err)
	}
	result, err := s.activities.GetByID(ctx, tripID, activityID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.GetByID: %w", err)
	}
	return result, nil
}

// ListByTrip returns all activities for a trip in itinerary order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ActivityService) ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Activity, error) {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, fmt.Errorf("service.ActivityService.ListByTrip: %w", err)
	}
	activities, err := s.activities.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.ListByTrip: %w", err)
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	return activities, nil
}

// Update applies a partial update to an activity. The date window is only
// revalidated when the update carries a date; an update that omits the date
// leaves the stored one unchecked. When the update carries a cost that
// differs from the stored one, the difference is pushed into the trip's
// recorded spend after the activity row is written.
func (s *ActivityService) Update(ctx context.Context, userID, tripID, activityID uuid.UUID, upd domain.ActivityUpdate) (domain.Activity, error) {
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Update: %w", err)
	}

	current, err := s.activities.GetByID(ctx, tripID, activityID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Update: %w", err)
	}

	if err := validateActivityUpdate(upd); err != nil {
		return domain.Activity{}, err
	}
	if upd.Date != nil {
		if err := validateActivityDate(trip, *upd.Date); err != nil {
			return domain.Activity{}, err
		}
	}

	updated, err := s.activities.Update(ctx, tripID, activityID, upd)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Update: %w", err)
	}

	if upd.Cost != nil && *upd.Cost != current.Cost {
		if err := s.applyDelta(ctx, trip.ID, *upd.Cost-current.Cost); err != nil {
			return domain.Activity{}, fmt.Errorf("service.ActivityService.Update: %w", err)
		}
	}
	return updated, nil
}

// Delete removes an activity. Its cost is subtracted from the trip's
// recorded spend before the row is removed; once the row is gone the cost
// is unrecoverable, so the ledger must settle first.
func (s *ActivityService) Delete(ctx context.Context, userID, tripID, activityID uuid.UUID) error {
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return fmt.Errorf("service.ActivityService.Delete: %w", err)
	}

	current, err := s.activities.GetByID(ctx, tripID, activityID)
	if err != nil {
		return fmt.Errorf("service.ActivityService.Delete: %w", err)
	}

	if current.Cost > 0 {
		if err := s.applyDelta(ctx, trip.ID, -current.Cost); err != nil {
			return fmt.Errorf("service.ActivityService.Delete: %w", err)
		}
	}

	if err := s.activities.Delete(ctx, tripID, activityID); err != nil {
		return fmt.Errorf("service.ActivityService.Delete: %w", err)
	}
	return nil
}

// ownedTrip loads the parent trip and verifies userID owns it.
func (s *ActivityService) ownedTrip(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if trip.UserID != userID {
		return domain.Trip{}, fmt.Errorf("%w: trip belongs to another user", domain.ErrForbidden)
	}
	return trip, nil
}

// applyDelta pushes a spend delta into the trip through the repo's atomic
// server-side update. The ledger never clamps: a negative result is kept and
// logged as a signal that deltas were applied out of order.
func (s *ActivityService) applyDelta(ctx context.Context, tripID uuid.UUID, delta float64) error {
	updated, err := s.trips.ApplySpentDelta(ctx, tripID, delta)
	if err != nil {
		return err
	}
	if updated.Budget.Spent < 0 {
		s.log.Warn("trip spend went negative",
			"trip_id", tripID,
			"spent", updated.Budget.Spent,
			"delta", delta,
		)
	}
	return nil
}

// applyActivityDefaults fills the enum fields the original clients may omit.
func applyActivityDefaults(a *domain.Activity) {
	if a.Category == "" {
		a.Category = domain.CategoryOther
	}
	if a.Status == "" {
		a.Status = domain.ActivityPlanned
	}
	if a.Priority == "" {
		a.Priority = domain.PriorityMedium
	}
}

// validateActivityDate confirms date falls within the trip's inclusive
// [start_date, end_date] window, compared at day granularity. The failure
// message cites the permitted range.
func validateActivityDate(trip domain.Trip, date time.Time) error {
	d := domain.DateOnly(date)
	start := domain.DateOnly(trip.StartDate)
	end := domain.DateOnly(trip.EndDate)
	if d.Before(start) || d.After(end) {
		return fmt.Errorf("%w: activity date must fall between %s and %s",
			domain.ErrValidation,
			start.Format("2006-01-02"),
			end.Format("2006-01-02"))
	}
	return nil
}

// validateActivity enforces rules on a complete activity (create path).
func validateActivity(a domain.Activity) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if len(a.Name) > maxActivityNameLen {
		return fmt.Errorf("%w: name must be at most %d characters", domain.ErrValidation, maxActivityNameLen)
	}
	if len(a.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: description must be at most %d characters", domain.ErrValidation, maxDescriptionLen)
	}
	if a.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if a.Cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}
	if !a.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, a.Category)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, a.Status)
	}
	if !a.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, a.Priority)
	}
	return nil
}

// validateActivityUpdate enforces rules on the fields an update carries.
// Nil fields are not validated; they will not be written.
func validateActivityUpdate(upd domain.ActivityUpdate) error {
	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
		}
		if len(*upd.Name) > maxActivityNameLen {
			return fmt.Errorf("%w: name must be at most %d characters", domain.ErrValidation, maxActivityNameLen)
		}
	}
	if upd.Description != nil && len(*upd.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: description must be at most %d characters", domain.ErrValidation, maxDescriptionLen)
	}
	if upd.Cost != nil && *upd.Cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}
	if upd.Category != nil && !upd.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, *upd.Category)
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *upd.Status)
	}
	if upd.Priority != nil && !upd.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, *upd.Priority)
	}
	return nil
}
