package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tkasten/wayfare/backend/internal/domain"
)

// ActivityRepo defines the persistence operations for Activities.
// All single-record operations are scoped by tripID so an activity can never
// be read or written through another trip's URL.
type ActivityRepo interface {
	// Create inserts a new activity and returns the persisted record.
	Create(ctx context.Context, activity domain.Activity) (domain.Activity, error)

	// GetByID retrieves a single activity by its UUID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no activity with that ID exists under that trip.
	GetByID(ctx context.Context, tripID, activityID uuid.UUID) (domain.Activity, error)

	// ListByTripID returns all activities for a trip ordered by date, then
	// start_time, the order an itinerary is read in.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)

	// Update applies the non-nil fields of upd to an activity, scoped to the
	// given tripID, and returns the updated record.
	// Returns domain.ErrNotFound if no activity with that ID exists under that trip.
	Update(ctx context.Context, tripID, activityID uuid.UUID, upd domain.ActivityUpdate) (domain.Activity, error)

	// Delete removes an activity by ID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no activity with that ID exists under that trip.
	Delete(ctx context.Context, tripID, activityID uuid.UUID) error
}

// pgActivityRepo is the Postgres implementation of ActivityRepo.
type pgActivityRepo struct {
	db db
}

// NewActivityRepo constructs an ActivityRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewActivityRepo(db db) ActivityRepo {
	return &pgActivityRepo{db: db}
}

const activityColumns = `id, trip_id, name, description, date, start_time, end_time,
		location_name, location_address, latitude, longitude,
		cost, category, status, notes, booking_reference, images, priority,
		created_at, updated_at`

func (r *pgActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	const q = `
		INSERT INTO activities (trip_id, name, description, date, start_time, end_time,
			location_name, location_address, latitude, longitude,
			cost, category, status, notes, booking_reference, images, priority)
		VALUES (@trip_id, @name, @description, @date, @start_time, @end_time,
			@location_name, @location_address, @latitude, @longitude,
			@cost, @category, @status, @notes, @booking_reference, @images, @priority)
		RETURNING ` + activityColumns

	args := pgx.NamedArgs{
		"trip_id":           a.TripID,
		"name":              a.Name,
		"description":       a.Description,
		"date":              a.Date,
		"start_time":        a.StartTime,
		"end_time":          a.EndTime,
		"location_name":     a.Location.Name,
		"location_address":  a.Location.Address,
		"latitude":          a.Location.Latitude,
		"longitude":         a.Location.Longitude,
		"cost":              a.Cost,
		"category":          string(a.Category),
		"status":            string(a.Status),
		"notes":             a.Notes,
		"booking_reference": a.BookingReference,
		"images":            imagesArg(a.Images),
		"priority":          string(a.Priority),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanActivity(row)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w: %v", domain.ErrPersistence, err)
	}
	return result, nil
}

func (r *pgActivityRepo) GetByID(ctx context.Context, tripID, activityID uuid.UUID) (domain.Activity, error) {
	const q = `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE id = @id AND trip_id = @trip_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": activityID, "trip_id": tripID})
	result, err := scanActivity(row)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgActivityRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	const q = `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE trip_id = @trip_id
		ORDER BY date, start_time, created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ActivityRepo.ListByTripID: scan: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.ListByTripID: rows: %w", err)
	}

	return activities, nil
}

// Update applies the non-nil fields of upd via COALESCE, so unspecified
// fields keep their stored values. Location is replaced as a whole when set;
// its four columns always travel together.
func (r *pgActivityRepo) Update(ctx context.Context, tripID, activityID uuid.UUID, upd domain.ActivityUpdate) (domain.Activity, error) {
	const q = `
		UPDATE activities
		SET name              = COALESCE(@name, name),
		    description       = COALESCE(@description, description),
		    date              = COALESCE(@date, date),
		    start_time        = COALESCE(@start_time, start_time),
		    end_time          = COALESCE(@end_time, end_time),
		    location_name     = CASE WHEN @set_location THEN @location_name ELSE location_name END,
		    location_address  = CASE WHEN @set_location THEN @location_address ELSE location_address END,
		    latitude          = CASE WHEN @set_location THEN @latitude ELSE latitude END,
		    longitude         = CASE WHEN @set_location THEN @longitude ELSE longitude END,
		    cost              = COALESCE(@cost, cost),
		    category          = COALESCE(@category, category),
		    status            = COALESCE(@status, status),
		    notes             = COALESCE(@notes, notes),
		    booking_reference = COALESCE(@booking_reference, booking_reference),
		    images            = COALESCE(@images, images),
		    priority          = COALESCE(@priority, priority),
		    updated_at        = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + activityColumns

	args := pgx.NamedArgs{
		"id":                activityID,
		"trip_id":           tripID,
		"name":              upd.Name,
		"description":       upd.Description,
		"date":              upd.Date,
		"start_time":        upd.StartTime,
		"end_time":          upd.EndTime,
		"set_location":      upd.Location != nil,
		"location_name":     nil,
		"location_address":  nil,
		"latitude":          nil,
		"longitude":         nil,
		"cost":              upd.Cost,
		"category":          enumArg(upd.Category),
		"status":            enumArg(upd.Status),
		"notes":             upd.Notes,
		"booking_reference": upd.BookingReference,
		"images":            nil,
		"priority":          enumArg(upd.Priority),
	}
	if upd.Location != nil {
		args["location_name"] = upd.Location.Name
		args["location_address"] = upd.Location.Address
		args["latitude"] = upd.Location.Latitude
		args["longitude"] = upd.Location.Longitude
	}
	if upd.Images != nil {
		args["images"] = imagesArg(*upd.Images)
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Update: %w", err)
		}
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Update: %w: %v", domain.ErrPersistence, err)
	}
	return result, nil
}

func (r *pgActivityRepo) Delete(ctx context.Context, tripID, activityID uuid.UUID) error {
	const q = `DELETE FROM activities WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": activityID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.ActivityRepo.Delete: %w: %v", domain.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ActivityRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanActivity maps a single database row into a domain.Activity.
// It handles the UUID, DATE, and nullable coordinate conversions.
func scanActivity(s scanner) (domain.Activity, error) {
	var (
		a        domain.Activity
		id       pgtype.UUID
		tripID   pgtype.UUID
		date     pgtype.Date
		lat      pgtype.Float8
		lng      pgtype.Float8
		category string
		status   string
		priority string
	)

	err := s.Scan(&id, &tripID, &a.Name, &a.Description, &date, &a.StartTime, &a.EndTime,
		&a.Location.Name, &a.Location.Address, &lat, &lng,
		&a.Cost, &category, &status, &a.Notes, &a.BookingReference, &a.Images, &priority,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, domain.ErrNotFound
		}
		return domain.Activity{}, err
	}

	a.ID = uuid.UUID(id.Bytes)
	a.TripID = uuid.UUID(tripID.Bytes)
	a.Date = date.Time
	if lat.Valid {
		v := lat.Float64
		a.Location.Latitude = &v
	}
	if lng.Valid {
		v := lng.Float64
		a.Location.Longitude = &v
	}
	a.Category = domain.ActivityCategory(category)
	a.Status = domain.ActivityStatus(status)
	a.Priority = domain.ActivityPriority(priority)
	return a, nil
}

// enumArg converts an optional enum-like string pointer (*TripStatus,
// *ActivityCategory, ...) into a *string NamedArg, preserving nil.
func enumArg[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
