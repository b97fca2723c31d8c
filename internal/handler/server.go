// Package handler implements the HTTP layer for the Wayfare API.
// All handlers are methods on Server, split into resource-specific files
// (trip.go, activity.go, auth.go, etc.) but sharing one struct so they can
// access its dependencies. Handlers decode and encode JSON, translate domain
// errors to status codes, and delegate everything else to the service layer.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tkasten/wayfare/backend/internal/client"
	"github.com/tkasten/wayfare/backend/internal/domain"
	"github.com/tkasten/wayfare/backend/internal/middleware"
	"github.com/tkasten/wayfare/backend/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, userID, tripID uuid.UUID, upd domain.TripUpdate) (domain.Trip, error)
	Delete(ctx context.Context, userID, tripID uuid.UUID) error
}

// ActivityServicer defines the business operations the activity handlers
// depend on.
type ActivityServicer interface {
	Create(ctx context.Context, userID uuid.UUID, activity domain.Activity) (domain.Activity, error)
	GetByID(ctx context.Context, userID, tripID, activityID uuid.UUID) (domain.Activity, error)
	ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Activity, error)
	Update(ctx context.Context, userID, tripID, activityID uuid.UUID, upd domain.ActivityUpdate) (domain.Activity, error)
	Delete(ctx context.Context, userID, tripID, activityID uuid.UUID) error
}

// UserServicer defines the account operations the auth handlers depend on.
type UserServicer interface {
	Register(ctx context.Context, name, email, password string) (service.AuthResult, error)
	Login(ctx context.Context, email, password string) (service.AuthResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// ExportServicer defines the operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error)
}

// Geocoder resolves free-text addresses to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (client.GeocodeResult, error)
}

// WeatherProvider fetches a multi-day forecast for a destination.
type WeatherProvider interface {
	GetForecast(ctx context.Context, city string) (client.Forecast, error)
}

// Server holds all handler dependencies.
type Server struct {
	trips      TripServicer
	activities ActivityServicer
	users      UserServicer
	export     ExportServicer
	geocoder   Geocoder
	weather    WeatherProvider
	openapi    []byte
}

// NewServer constructs the Server with all its dependencies.
// openapi is the raw OpenAPI document served at /openapi.yaml.
func NewServer(trips TripServicer, activities ActivityServicer, users UserServicer,
	export ExportServicer, geocoder Geocoder, weather WeatherProvider, openapi []byte) *Server {
	return &Server{
		trips:      trips,
		activities: activities,
		users:      users,
		export:     export,
		geocoder:   geocoder,
		weather:    weather,
		openapi:    openapi,
	}
}

// Routes mounts every endpoint on a chi router. authn guards the routes that
// require a signed-in user; register, login, health, and the spec document
// stay public.
func (s *Server) Routes(authn func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.Health)
	r.Get("/openapi.yaml", s.OpenAPI)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(authn)

			r.Get("/me", s.Me)

			r.Route("/trips", func(r chi.Router) {
				r.Get("/", s.ListTrips)
				r.Post("/", s.CreateTrip)
				r.Route("/{tripID}", func(r chi.Router) {
					r.Get("/", s.GetTrip)
					r.Put("/", s.UpdateTrip)
					r.Delete("/", s.DeleteTrip)

					r.Route("/activities", func(r chi.Router) {
						r.Get("/", s.ListActivities)
						r.Post("/", s.CreateActivity)
						r.Get("/{activityID}", s.GetActivity)
						r.Put("/{activityID}", s.UpdateActivity)
						r.Delete("/{activityID}", s.DeleteActivity)
					})
				})
			})

			r.Get("/export", s.Export)
			r.Get("/geocode", s.GeocodeAddress)
			r.Get("/weather/{destination}", s.Weather)
		})
	})

	return r
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// requireUser reads the authenticated user id from the request context,
// writing a 401 when it is absent. The auth middleware guarantees presence on
// guarded routes; this is the backstop for a misrouted handler.
func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
	}
	return id, ok
}
