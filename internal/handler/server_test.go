package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tkasten/wayfare/backend/internal/client"
	"github.com/tkasten/wayfare/backend/internal/domain"
	"github.com/tkasten/wayfare/backend/internal/handler"
	"github.com/tkasten/wayfare/backend/internal/middleware"
	"github.com/tkasten/wayfare/backend/internal/service"
)

// ---- mocks -----------------------------------------------------------------

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create  func(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	getByID func(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	list    func(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Trip, int64, error)
	update  func(ctx context.Context, userID, tripID uuid.UUID, upd domain.TripUpdate) (domain.Trip, error)
	delete  func(ctx context.Context, userID, tripID uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, userID, trip)
}
func (m *mockTripServicer) GetByID(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, userID, tripID)
}
func (m *mockTripServicer) List(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.list(ctx, userID, params)
}
func (m *mockTripServicer) Update(ctx context.Context, userID, tripID uuid.UUID, upd domain.TripUpdate) (domain.Trip, error) {
	return m.update(ctx, userID, tripID, upd)
}
func (m *mockTripServicer) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	return m.delete(ctx, userID, tripID)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

// mockActivityServicer is a test double for handler.ActivityServicer.
type mockActivityServicer struct {
	create     func(ctx context.Context, userID uuid.UUID, activity domain.Activity) (domain.Activity, error)
	getByID    func(ctx context.Context, userID, tripID, activityID uuid.UUID) (domain.Activity, error)
	listByTrip func(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Activity, error)
	update     func(ctx context.Context, userID, tripID, activityID uuid.UUID, upd domain.ActivityUpdate) (domain.Activity, error)
	delete     func(ctx context.Context, userID, tripID, activityID uuid.UUID) error
}

func (m *mockActivityServicer) Create(ctx context.Context, userID uuid.UUID, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, userID, a)
}
func (m *mockActivityServicer) GetByID(ctx context.Context, userID, tripID, activityID uuid.UUID) (domain.Activity, error) {
	return m.getByID(ctx, userID, tripID, activityID)
}
func (m *mockActivityServicer) ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Activity, error) {
	return m.listByTrip(ctx, userID, tripID)
}
func (m *mockActivityServicer) Update(ctx context.Context, userID, tripID, activityID uuid.UUID, upd domain.ActivityUpdate) (domain.Activity, error) {
	return m.update(ctx, userID, tripID, activityID, upd)
}
func (m *mockActivityServicer) Delete(ctx context.Context, userID, tripID, activityID uuid.UUID) error {
	return m.delete(ctx, userID, tripID, activityID)
}

var _ handler.ActivityServicer = (*mockActivityServicer)(nil)

// mockUserServicer is a test double for handler.UserServicer.
type mockUserServicer struct {
	register func(ctx context.Context, name, email, password string) (service.AuthResult, error)
	login    func(ctx context.Context, email, password string) (service.AuthResult, error)
	getByID  func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockUserServicer) Register(ctx context.Context, name, email, password string) (service.AuthResult, error) {
	return m.register(ctx, name, email, password)
}
func (m *mockUserServicer) Login(ctx context.Context, email, password string) (service.AuthResult, error) {
	return m.login(ctx, email, password)
}
func (m *mockUserServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}

var _ handler.UserServicer = (*mockUserServicer)(nil)

// mockExportServicer is a test double for handler.ExportServicer.
type mockExportServicer struct {
	export func(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error) {
	return m.export(ctx, userID)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// mockGeocoder is a test double for handler.Geocoder.
type mockGeocoder struct {
	geocode func(ctx context.Context, address string) (client.GeocodeResult, error)
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (client.GeocodeResult, error) {
	return m.geocode(ctx, address)
}

var _ handler.Geocoder = (*mockGeocoder)(nil)

// mockWeatherProvider is a test double for handler.WeatherProvider.
type mockWeatherProvider struct {
	getForecast func(ctx context.Context, city string) (client.Forecast, error)
}

func (m *mockWeatherProvider) GetForecast(ctx context.Context, city string) (client.Forecast, error) {
	return m.getForecast(ctx, city)
}

var _ handler.WeatherProvider = (*mockWeatherProvider)(nil)

// ---- helpers ---------------------------------------------------------------

var testUserID = uuid.MustParse("6fa459ea-ee8a-3ca4-894e-db77e160355e")

// deps bundles the mocks a test wants to install; nil fields stay nil on the
// Server so an unexpected call panics loudly.
type deps struct {
	trips      handler.TripServicer
	activities handler.ActivityServicer
	users      handler.UserServicer
	export     handler.ExportServicer
	geocoder   handler.Geocoder
	weather    handler.WeatherProvider
}

// newTestRouter wires a Server into its chi router with an auth middleware
// that injects testUserID, standing in for a verified bearer token.
func newTestRouter(d deps) http.Handler {
	srv := handler.NewServer(d.trips, d.activities, d.users, d.export, d.geocoder, d.weather,
		[]byte("openapi: 3.0.3\n"))
	return srv.Routes(authAs(testUserID))
}

// authAs returns an auth middleware that unconditionally resolves userID.
func authAs(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), userID)))
		})
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeBody(t *testing.T, body *bytes.Buffer, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(v))
}

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		UserID:      testUserID,
		Title:       "Tokyo in Spring",
		Destination: "Tokyo, Japan",
		StartDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		Budget:      domain.Budget{Total: 3000, Spent: 250},
		Status:      domain.TripPlanning,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func activityFixture(tripID uuid.UUID) domain.Activity {
	return domain.Activity{
		ID:        uuid.New(),
		TripID:    tripID,
		Name:      "teamLab Planets",
		Date:      time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00 AM",
		Cost:      250,
		Category:  domain.CategorySightseeing,
		Status:    domain.ActivityPlanned,
		Priority:  domain.PriorityMedium,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}
