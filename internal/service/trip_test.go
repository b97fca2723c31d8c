package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkasten/wayfare/backend/internal/domain"
	"github.com/tkasten/wayfare/backend/internal/repo"
	"github.com/tkasten/wayfare/backend/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	create          func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listByUser      func(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Trip, int64, error)
	listAllByUser   func(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	update          func(ctx context.Context, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error)
	applySpentDelta func(ctx context.Context, id uuid.UUID, delta float64) (domain.Trip, error)
	delete          func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listByUser(ctx, userID, params)
}
func (m *mockTripRepo) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	return m.listAllByUser(ctx, userID)
}
func (m *mockTripRepo) Update(ctx context.Context, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error) {
	return m.update(ctx, id, upd)
}
func (m *mockTripRepo) ApplySpentDelta(ctx context.Context, id uuid.UUID, delta float64) (domain.Trip, error) {
	return m.applySpentDelta(ctx, id, delta)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- helpers ---------------------------------------------------------------

var (
	ownerID    = uuid.MustParse("6fa459ea-ee8a-3ca4-894e-db77e160355e")
	strangerID = uuid.MustParse("16fd2706-8baf-433b-82eb-8c7fada847da")
)

func validTrip() domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		UserID:      ownerID,
		Title:       "Tokyo in Spring",
		Destination: "Tokyo, Japan",
		StartDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		Budget:      domain.Budget{Total: 3000},
		Status:      domain.TripPlanning,
	}
}

func echoTripRepo() *mockTripRepo {
	// A repo that echoes whatever it receives back, useful for Create/Update
	// tests that only care about validation logic, not what the DB returns.
	return &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
		update: func(_ context.Context, _ uuid.UUID, _ domain.TripUpdate) (domain.Trip, error) {
			return domain.Trip{}, nil
		},
	}
}

// ---- Create tests ----------------------------------------------------------

func TestTripService_Create_Valid(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	got, err := svc.Create(context.Background(), ownerID, validTrip())

	require.NoError(t, err)
	assert.Equal(t, "Tokyo in Spring", got.Title)
	assert.Equal(t, ownerID, got.UserID)
}

func TestTripService_Create_ForcesOwnerAndZeroSpent(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	trip.UserID = strangerID   // must be overwritten with the caller's id
	trip.Budget.Spent = 999.99 // clients cannot seed recorded spend

	got, err := svc.Create(context.Background(), ownerID, trip)

	require.NoError(t, err)
	assert.Equal(t, ownerID, got.UserID)
	assert.Zero(t, got.Budget.Spent)
}

func TestTripService_Create_DefaultsStatus(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	trip.Status = ""

	got, err := svc.Create(context.Background(), ownerID, trip)

	require.NoError(t, err)
	assert.Equal(t, domain.TripPlanning, got.Status)
}

func TestTripService_Create_MissingTitle(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	trip.Title = "   " // whitespace-only should be treated as empty

	_, err := svc.Create(context.Background(), ownerID, trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_MissingDestination(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	trip.Destination = ""

	_, err := svc.Create(context.Background(), ownerID, trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_EndDateBeforeStartDate(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	trip.EndDate = trip.StartDate.AddDate(0, 0, -1)

	_, err := svc.Create(context.Background(), ownerID, trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_SameDayTrip(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	trip.EndDate = trip.StartDate // a one-day trip is valid

	_, err := svc.Create(context.Background(), ownerID, trip)

	assert.NoError(t, err)
}

func TestTripService_Create_NegativeBudget(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	trip.Budget.Total = -100

	_, err := svc.Create(context.Background(), ownerID, trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_UnknownStatus(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	trip.Status = "daydreaming"

	_, err := svc.Create(context.Background(), ownerID, trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- GetByID tests ---------------------------------------------------------

func TestTripService_GetByID_Owned(t *testing.T) {
	trip := validTrip()
	svc := service.NewTripService(&mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			assert.Equal(t, trip.ID, id)
			return trip, nil
		},
	})

	got, err := svc.GetByID(context.Background(), ownerID, trip.ID)

	require.NoError(t, err)
	assert.Equal(t, trip.Title, got.Title)
}

func TestTripService_GetByID_NotFound(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	})

	_, err := svc.GetByID(context.Background(), ownerID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_GetByID_NotOwner(t *testing.T) {
	trip := validTrip()
	svc := service.NewTripService(&mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			return trip, nil
		},
	})

	_, err := svc.GetByID(context.Background(), strangerID, trip.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ---- List tests ------------------------------------------------------------

func TestTripService_List_EmptyIsNotNil(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		listByUser: func(_ context.Context, _ uuid.UUID, _ domain.PaginationParams) ([]domain.Trip, int64, error) {
			return nil, 0, nil
		},
	})

	trips, total, err := svc.List(context.Background(), ownerID, domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.NotNil(t, trips)
	assert.Empty(t, trips)
	assert.Zero(t, total)
}

func TestTripService_List_PassesPagination(t *testing.T) {
	page, limit := 3, 10
	svc := service.NewTripService(&mockTripRepo{
		listByUser: func(_ context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Trip, int64, error) {
			assert.Equal(t, ownerID, userID)
			assert.Equal(t, 3, params.Page)
			assert.Equal(t, 10, params.Limit)
			return []domain.Trip{validTrip()}, 21, nil
		},
	})

	trips, total, err := svc.List(context.Background(), ownerID, domain.NewPaginationParams(&page, &limit))

	require.NoError(t, err)
	assert.Len(t, trips, 1)
	assert.Equal(t, int64(21), total)
}

// ---- Update tests ----------------------------------------------------------

func TestTripService_Update_StatusOnly(t *testing.T) {
	trip := validTrip()
	status := domain.TripConfirmed
	svc := service.NewTripService(&mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
		update: func(_ context.Context, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error) {
			// Only status should travel; everything else stays nil so the
			// COALESCE update leaves the stored values alone.
			assert.Equal(t, trip.ID, id)
			require.NotNil(t, upd.Status)
			assert.Nil(t, upd.BudgetTotal)
			assert.Nil(t, upd.StartDate)
			updated := trip
			updated.Status = *upd.Status
			return updated, nil
		},
	})

	got, err := svc.Update(context.Background(), ownerID, trip.ID, domain.TripUpdate{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, domain.TripConfirmed, got.Status)
	assert.Equal(t, trip.Budget.Total, got.Budget.Total)
}

func TestTripService_Update_MergedDatesValidated(t *testing.T) {
	trip := validTrip()
	// Moving only end_date before the stored start_date must fail even though
	// the update itself carries a single, well-formed field.
	bad := trip.StartDate.AddDate(0, 0, -2)
	svc := service.NewTripService(&mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
		update: func(_ context.Context, _ uuid.UUID, _ domain.TripUpdate) (domain.Trip, error) {
			t.Fatal("repo.Update must not be called when validation fails")
			return domain.Trip{}, nil
		},
	})

	_, err := svc.Update(context.Background(), ownerID, trip.ID, domain.TripUpdate{EndDate: &bad})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Update_NotOwner(t *testing.T) {
	trip := validTrip()
	title := "Hijacked"
	svc := service.NewTripService(&mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
		update: func(_ context.Context, _ uuid.UUID, _ domain.TripUpdate) (domain.Trip, error) {
			t.Fatal("repo.Update must not be called for a non-owner")
			return domain.Trip{}, nil
		},
	})

	_, err := svc.Update(context.Background(), strangerID, trip.ID, domain.TripUpdate{Title: &title})

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ---- Delete tests ----------------------------------------------------------

func TestTripService_Delete_Owned(t *testing.T) {
	trip := validTrip()
	deleted := false
	svc := service.NewTripService(&mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
		delete: func(_ context.Context, id uuid.UUID) error {
			assert.Equal(t, trip.ID, id)
			deleted = true
			return nil
		},
	})

	err := svc.Delete(context.Background(), ownerID, trip.ID)

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestTripService_Delete_NotOwner(t *testing.T) {
	trip := validTrip()
	svc := service.NewTripService(&mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
		delete: func(_ context.Context, _ uuid.UUID) error {
			t.Fatal("repo.Delete must not be called for a non-owner")
			return nil
		},
	})

	err := svc.Delete(context.Background(), strangerID, trip.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTripService_Delete_PersistenceError(t *testing.T) {
	trip := validTrip()
	svc := service.NewTripService(&mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
		delete: func(_ context.Context, _ uuid.UUID) error {
			return errors.Join(domain.ErrPersistence, errors.New("connection reset"))
		},
	})

	err := svc.Delete(context.Background(), ownerID, trip.ID)

	assert.ErrorIs(t, err, domain.ErrPersistence)
}
