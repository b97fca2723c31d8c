// Package domain contains the core data types for the Wayfare travel planner.
// This package has no dependencies beyond uuid and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	TripPlanning  TripStatus = "planning"
	TripConfirmed TripStatus = "confirmed"
	TripOngoing   TripStatus = "ongoing"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

// Valid reports whether s is one of the known trip statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case TripPlanning, TripConfirmed, TripOngoing, TripCompleted, TripCancelled:
		return true
	}
	return false
}

// Budget tracks planned versus recorded spending for a trip.
// Spent is maintained by the activity ledger: every activity create, cost
// change, and delete applies a delta so Spent tracks the sum of the trip's
// activity costs.
type Budget struct {
	Total float64
	Spent float64
}

// Remaining returns the unspent portion of the budget.
func (b Budget) Remaining() float64 {
	return b.Total - b.Spent
}

// Trip is the top-level aggregate; activities belong to a trip.
// StartDate and EndDate carry day granularity only (UTC midnight).
type Trip struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Destination string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Budget      Budget
	Status      TripStatus
	Images      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DurationDays returns the trip length in days, inclusive of both endpoints.
// A trip whose start and end fall on the same day lasts one day.
func (t Trip) DurationDays() int {
	return int(DateOnly(t.EndDate).Sub(DateOnly(t.StartDate))/(24*time.Hour)) + 1
}

// TripUpdate carries a partial update to a trip. Nil pointers mean "leave
// this field untouched", so that updating only the status never clobbers the
// budget or dates.
//
// Budget.Spent is deliberately absent: only the ledger may change it.
type TripUpdate struct {
	Title       *string
	Destination *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	BudgetTotal *float64
	Status      *TripStatus
	Images      *[]string
}

// DateOnly strips the time-of-day portion from t, returning UTC midnight of
// the same calendar date. All day-granularity comparisons go through this.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
