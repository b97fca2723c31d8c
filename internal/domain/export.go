package domain

// ExportRow is a single row in the full-itinerary export.
// It is a flat, denormalized view: one row per activity, with trip fields
// repeated for every activity on that trip. Trips with no activities yield
// one row with zero values for all activity fields.
type ExportRow struct {
	// Trip fields, repeated for every activity on the trip.
	TripID          string
	TripTitle       string
	TripDestination string
	TripStartDate   string // "2006-01-02" formatted date
	TripEndDate     string
	BudgetTotal     float64
	BudgetSpent     float64

	// Activity fields, zero values when the trip has no activities.
	ActivityName string
	ActivityDate string // "2006-01-02", empty when the trip has no activities
	StartTime    string
	EndTime      string
	LocationName string
	Cost         float64
	Category     string
	Status       string
}
