// Package handler implements the HTTP handlers for the carpool API.
// All handlers are methods on Server. Methods are split into
// resource-specific files (health.go, ride.go, export.go) but all share the
// same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/carpool/internal/domain"
)

// RideServicer defines the registry operations the ride handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching storage or the service layer.
type RideServicer interface {
	List(ctx context.Context) ([]domain.RideOffer, error)
	Get(ctx context.Context, id uuid.UUID) (domain.RideOffer, error)
	CreateOffer(ctx context.Context, driverName, departureTime, origin string, totalSeats int) (domain.RideOffer, error)
	JoinOffer(ctx context.Context, id uuid.UUID, passengerName string) (domain.RideOffer, error)
	DeleteOffer(ctx context.Context, id uuid.UUID, driverName string) (domain.RideOffer, error)
	JoinOptions(ctx context.Context) ([]domain.RideOption, error)
	DriverOffers(ctx context.Context, driverName string) ([]domain.RideOption, error)
}

// ExportServicer defines the export operation used by GET /export.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Server holds the dependencies of every endpoint.
// Wire it in main.go via Handler(server).
type Server struct {
	rides  RideServicer
	export ExportServicer
	event  domain.EventInfo
	log    *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(rides RideServicer, export ExportServicer, event domain.EventInfo, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{rides: rides, export: export, event: event, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, domain.EventInfo{}, nil)
}

// Handler mounts every endpoint of s on a chi router.
// Cross-cutting middleware (request id, logging, CORS) is applied by main.go.
func Handler(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/event", s.GetEvent)
	r.Get("/export", s.GetExport)

	r.Route("/rides", func(r chi.Router) {
		r.Get("/", s.ListRides)
		r.Post("/", s.CreateRide)
		// Registered before /{id} so "joinable" is never bound as an id.
		r.Get("/joinable", s.ListJoinable)
		r.Get("/{id}", s.GetRide)
		r.Delete("/{id}", s.DeleteRide)
		r.Post("/{id}/passengers", s.JoinRide)
	})

	r.Get("/drivers/{name}/rides", s.ListDriverRides)

	return r
}
