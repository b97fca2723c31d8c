package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tkasten/wayfare/backend/internal/domain"
	"github.com/tkasten/wayfare/backend/internal/repo"
)

// ExportService assembles a flat export of a user's full itinerary:
// one row per activity, trip fields repeated on each row.
type ExportService struct {
	trips      repo.TripRepo
	activities repo.ActivityRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, activities repo.ActivityRepo) *ExportService {
	return &ExportService{trips: trips, activities: activities}
}

// Export returns one ExportRow per activity across all of the user's trips,
// trips newest first and activities in itinerary order within each trip.
// Trips with no activities contribute one row with empty activity fields.
func (s *ExportService) Export(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error) {
	trips, err := s.trips.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, trip := range trips {
		activities, err := s.activities.ListByTripID(ctx, trip.ID)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}

		if len(activities) == 0 {
			rows = append(rows, tripRow(trip))
			continue
		}
		for _, a := range activities {
			row := tripRow(trip)
			row.ActivityName = a.Name
			row.ActivityDate = a.Date.Format("2006-01-02")
			row.StartTime = a.StartTime
			row.EndTime = a.EndTime
			row.LocationName = a.Location.Name
			row.Cost = a.Cost
			row.Category = string(a.Category)
			row.Status = string(a.Status)
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// tripRow builds an ExportRow carrying only the trip-level fields.
func tripRow(t domain.Trip) domain.ExportRow {
	return domain.ExportRow{
		TripID:          t.ID.String(),
		TripTitle:       t.Title,
		TripDestination: t.Destination,
		TripStartDate:   t.StartDate.Format("2006-01-02"),
		TripEndDate:     t.EndDate.Format("2006-01-02"),
		BudgetTotal:     t.Budget.Total,
		BudgetSpent:     t.Budget.Spent,
	}
}
