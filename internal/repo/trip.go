// Package repo contains all database access logic for the Wayfare API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tkasten/wayfare/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListByUser returns one page of a user's trips, newest first, along with
	// the total number of trips that user owns.
	ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Trip, int64, error)

	// ListAllByUser returns every trip a user owns, newest first.
	// Used by the export path, which is not paginated.
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)

	// Update applies the non-nil fields of upd to an existing trip and returns
	// the updated record. Fields left nil are untouched, so a status-only
	// update never clobbers the budget or dates.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error)

	// ApplySpentDelta atomically adds delta to the trip's budget_spent as a
	// single server-side update (never read-modify-write in application code)
	// and returns the updated record.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	ApplySpentDelta(ctx context.Context, id uuid.UUID, delta float64) (domain.Trip, error)

	// Delete removes a trip by ID. Activities under the trip are removed by
	// the schema's ON DELETE CASCADE.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, user_id, title, destination, description, start_date, end_date,
		budget_total, budget_spent, status, images, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (user_id, title, destination, description, start_date, end_date,
			budget_total, budget_spent, status, images)
		VALUES (@user_id, @title, @destination, @description, @start_date, @end_date,
			@budget_total, @budget_spent, @status, @images)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"user_id":      trip.UserID,
		"title":        trip.Title,
		"destination":  trip.Destination,
		"description":  trip.Description,
		"start_date":   trip.StartDate,
		"end_date":     trip.EndDate,
		"budget_total": trip.Budget.Total,
		"budget_spent": trip.Budget.Spent,
		"status":       string(trip.Status),
		"images":       imagesArg(trip.Images),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w: %v", domain.ErrPersistence, err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByUser returns one page of a user's trips ordered by created_at
// descending (most recently created first), plus the total count.
func (r *pgTripRepo) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Trip, int64, error) {
	const countQ = `SELECT count(*) FROM trips WHERE user_id = @user_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"user_id": userID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByUser: count: %w", err)
	}

	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = @user_id
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"user_id": userID,
		"limit":   params.Limit,
		"offset":  params.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByUser: %w", err)
	}
	return trips, total, nil
}

// ListAllByUser returns every trip a user owns, newest first.
func (r *pgTripRepo) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = @user_id
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListAllByUser: %w", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListAllByUser: %w", err)
	}
	return trips, nil
}

// Update applies the non-nil fields of upd via COALESCE, so unspecified
// fields keep their stored values, and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET title        = COALESCE(@title, title),
		    destination  = COALESCE(@destination, destination),
		    description  = COALESCE(@description, description),
		    start_date   = COALESCE(@start_date, start_date),
		    end_date     = COALESCE(@end_date, end_date),
		    budget_total = COALESCE(@budget_total, budget_total),
		    status       = COALESCE(@status, status),
		    images       = COALESCE(@images, images),
		    updated_at   = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	var status *string
	if upd.Status != nil {
		s := string(*upd.Status)
		status = &s
	}
	var images any
	if upd.Images != nil {
		images = imagesArg(*upd.Images)
	}

	args := pgx.NamedArgs{
		"id":           id,
		"title":        upd.Title,
		"destination":  upd.Destination,
		"description":  upd.Description,
		"start_date":   upd.StartDate,
		"end_date":     upd.EndDate,
		"budget_total": upd.BudgetTotal,
		"status":       status,
		"images":       images,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w: %v", domain.ErrPersistence, err)
	}
	return result, nil
}

// ApplySpentDelta adds delta to budget_spent in a single UPDATE statement.
// The arithmetic runs server-side, so two concurrent deltas against the same
// trip cannot lose each other's write.
func (r *pgTripRepo) ApplySpentDelta(ctx context.Context, id uuid.UUID, delta float64) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET budget_spent = budget_spent + @delta,
		    updated_at   = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "delta": delta})
	result, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.ApplySpentDelta: %w", err)
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.ApplySpentDelta: %w: %v", domain.ErrPersistence, err)
	}
	return result, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w: %v", domain.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and DATE column conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		userID    pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
		status    string
	)

	err := s.Scan(&id, &userID, &t.Title, &t.Destination, &t.Description,
		&startDate, &endDate, &t.Budget.Total, &t.Budget.Spent, &status,
		&t.Images, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.UserID = uuid.UUID(userID.Bytes)
	t.StartDate = startDate.Time
	t.EndDate = endDate.Time
	t.Status = domain.TripStatus(status)
	return t, nil
}

// collectTrips drains rows into a slice, checking rows.Err at the end.
func collectTrips(rows pgx.Rows) ([]domain.Trip, error) {
	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return trips, nil
}

// imagesArg normalizes a nil image slice to an empty one so the NOT NULL
// text[] column never receives NULL.
func imagesArg(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}
