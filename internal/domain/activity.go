package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityCategory classifies what kind of activity an entry is.
type ActivityCategory string

const (
	CategoryAccommodation ActivityCategory = "accommodation"
	CategoryTransport     ActivityCategory = "transport"
	CategoryFood          ActivityCategory = "food"
	CategorySightseeing   ActivityCategory = "sightseeing"
	CategoryAdventure     ActivityCategory = "adventure"
	CategoryShopping      ActivityCategory = "shopping"
	CategoryEntertainment ActivityCategory = "entertainment"
	CategoryOther         ActivityCategory = "other"
)

// Valid reports whether c is one of the known categories.
func (c ActivityCategory) Valid() bool {
	switch c {
	case CategoryAccommodation, CategoryTransport, CategoryFood,
		CategorySightseeing, CategoryAdventure, CategoryShopping,
		CategoryEntertainment, CategoryOther:
		return true
	}
	return false
}

// ActivityStatus is the lifecycle state of a single activity.
type ActivityStatus string

const (
	ActivityPlanned   ActivityStatus = "planned"
	ActivityConfirmed ActivityStatus = "confirmed"
	ActivityCompleted ActivityStatus = "completed"
	ActivityCancelled ActivityStatus = "cancelled"
)

// Valid reports whether s is one of the known activity statuses.
func (s ActivityStatus) Valid() bool {
	switch s {
	case ActivityPlanned, ActivityConfirmed, ActivityCompleted, ActivityCancelled:
		return true
	}
	return false
}

// ActivityPriority orders activities by importance within a day.
type ActivityPriority string

const (
	PriorityLow    ActivityPriority = "low"
	PriorityMedium ActivityPriority = "medium"
	PriorityHigh   ActivityPriority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p ActivityPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Location is where an activity takes place. All fields are optional;
// coordinates are pointers so "unknown" is distinguishable from (0, 0).
type Location struct {
	Name      string
	Address   string
	Latitude  *float64
	Longitude *float64
}

// Activity is a dated, timed event nested under a trip.
// Date carries day granularity only; StartTime and EndTime are free-form
// time-of-day strings ("09:00 AM") and are not validated beyond presence.
// The activity's Date must fall inside the parent trip's date window.
type Activity struct {
	ID               uuid.UUID
	TripID           uuid.UUID
	Name             string
	Description      string
	Date             time.Time
	StartTime        string
	EndTime          string
	Location         Location
	Cost             float64
	Category         ActivityCategory
	Status           ActivityStatus
	Notes            string
	BookingReference string
	Images           []string
	Priority         ActivityPriority
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ActivityUpdate carries a partial update to an activity. Nil pointers mean
// "leave this field untouched". The pointers matter for the core procedures:
// the date window is only revalidated when Date is non-nil, and the budget
// ledger only fires when Cost is non-nil and differs from the stored cost.
// TripID is not updatable; an activity never moves between trips.
type ActivityUpdate struct {
	Name             *string
	Description      *string
	Date             *time.Time
	StartTime        *string
	EndTime          *string
	Location         *Location
	Cost             *float64
	Category         *ActivityCategory
	Status           *ActivityStatus
	Notes            *string
	BookingReference *string
	Images           *[]string
	Priority         *ActivityPriority
}
