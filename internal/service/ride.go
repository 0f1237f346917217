// Package service contains the business logic for the carpool registry.
// Services validate inputs, enforce business rules, and orchestrate store calls.
// No encoding or SQL lives here; services depend on the repo.RideStore
// interface, not an implementation.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/carpool/internal/domain"
	"github.com/pkordes/carpool/internal/repo"
)

// RideService implements the registry operations.
// Every mutation is a full Load → mutate → Save cycle. mu makes this process
// the single writer, so two requests can no longer overwrite each other's
// Save. Separate processes sharing one file store can still race.
type RideService struct {
	mu    sync.Mutex
	store repo.RideStore
	log   *slog.Logger
}

// NewRideService constructs a RideService backed by the provided store.
// A nil logger discards service log lines.
func NewRideService(store repo.RideStore, log *slog.Logger) *RideService {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &RideService{store: store, log: log}
}

// List returns every ride in registry order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *RideService) List(ctx context.Context) ([]domain.RideOffer, error) {
	offers, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RideService.List: %w", err)
	}
	if offers == nil {
		return []domain.RideOffer{}, nil
	}
	return offers, nil
}

// Get returns a single ride by ID.
// Returns domain.ErrNotFound if no ride with that ID exists.
func (s *RideService) Get(ctx context.Context, id uuid.UUID) (domain.RideOffer, error) {
	offers, err := s.store.Load(ctx)
	if err != nil {
		return domain.RideOffer{}, fmt.Errorf("service.RideService.Get: %w", err)
	}
	i := indexOf(offers, id)
	if i < 0 {
		return domain.RideOffer{}, fmt.Errorf("service.RideService.Get: %w", domain.ErrNotFound)
	}
	return offers[i], nil
}

// CreateOffer validates and appends a new ride with no passengers.
// Returns domain.ErrFieldsMissing if the driver name or origin is empty and
// domain.ErrValidation for a malformed departure time or a seat count
// outside 1–4. Nothing is stored when validation fails.
func (s *RideService) CreateOffer(ctx context.Context, driverName, departureTime, origin string, totalSeats int) (domain.RideOffer, error) {
	offer, err := newOffer(driverName, departureTime, origin, totalSeats)
	if err != nil {
		return domain.RideOffer{}, fmt.Errorf("service.RideService.CreateOffer: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	offers, err := s.store.Load(ctx)
	if err != nil {
		return domain.RideOffer{}, fmt.Errorf("service.RideService.CreateOffer: %w", err)
	}
	offers = append(offers, offer)
	if err := s.store.Save(ctx, offers); err != nil {
		return domain.RideOffer{}, fmt.Errorf("service.RideService.CreateOffer: %w", err)
	}

	s.log.InfoContext(ctx, "ride offered",
		"ride_id", offer.ID,
		"driver", offer.DriverName,
		"departure_time", offer.DepartureTime,
		"seats", offer.TotalSeats,
	)
	return offer.Clone(), nil
}

// JoinOffer appends passengerName to the ride's passenger list.
// Returns domain.ErrNameMissing for an empty name, domain.ErrNotFound for an
// unknown ride, domain.ErrAlreadyJoined if the name is already on the ride
// and domain.ErrRideFull when no seat is left. The list is unchanged on error.
func (s *RideService) JoinOffer(ctx context.Context, id uuid.UUID, passengerName string) (domain.RideOffer, error) {
	name := strings.TrimSpace(passengerName)
	if name == "" {
		return domain.RideOffer{}, fmt.Errorf("service.RideService.JoinOffer: %w", domain.ErrNameMissing)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	offers, err := s.store.Load(ctx)
	if err != nil {
		return domain.RideOffer{}, fmt.Errorf("service.RideService.JoinOffer: %w", err)
	}
	i := indexOf(offers, id)
	if i < 0 {
		return domain.RideOffer{}, fmt.Errorf("service.RideService.JoinOffer: %w", domain.ErrNotFound)
	}

	target := offers[i].Clone()
	if target.HasPassenger(name) {
		return domain.RideOffer{}, fmt.Errorf("service.RideService.JoinOffer: %w", domain.ErrAlreadyJoined)
	}
	if target.AvailableSeats() == 0 {
		return domain.RideOffer{}, fmt.Errorf("service.RideService.JoinOffer: %w", domain.ErrRideFull)
	}
	target.Passengers = append(target.Passengers, name)
	offers[i] = target

	if err := s.store.Save(ctx, offers); err != nil {
		return domain.RideOffer{}, fmt.Errorf("service.RideService.JoinOffer: %w", err)
	}

	s.log.InfoContext(ctx, "ride joined",
		"ride_id", target.ID,
		"passenger", name,
		"available_seats", target.AvailableSeats(),
	)
	return target.Clone(), nil
}

// DeleteOffer removes a ride, keeping the order of the rest.
// driverName must match the ride's driver; this mirrors the "type your name
// to see your rides" flow and is not authentication.
// Returns domain.ErrNotFound for an unknown ride and domain.ErrNotOwner on a
// name mismatch.
func (s *RideService) DeleteOffer(ctx context.Context, id uuid.UUID, driverName string) (domain.RideOffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	offers, err := s.store.Load(ctx)
	if err != nil {
		return domain.RideOffer{}, fmt.Errorf("service.RideService.DeleteOffer: %w", err)
	}
	i := indexOf(offers, id)
	if i < 0 {
		return domain.RideOffer{}, fmt.Errorf("service.RideService.DeleteOffer: %w", domain.ErrNotFound)
	}
	removed := offers[i]
	if !domain.SameName(removed.DriverName, driverName) {
		return domain.RideOffer{}, fmt.Errorf("service.RideService.DeleteOffer: %w", domain.ErrNotOwner)
	}

	offers = slices.Delete(offers, i, i+1)
	if err := s.store.Save(ctx, offers); err != nil {
		return domain.RideOffer{}, fmt.Errorf("service.RideService.DeleteOffer: %w", err)
	}

	s.log.InfoContext(ctx, "ride deleted",
		"ride_id", removed.ID,
		"driver", removed.DriverName,
		"passengers", len(removed.Passengers),
	)
	return removed, nil
}

// JoinOptions returns the rides that still have a free seat, labelled for a
// picker. Full rides are left out.
func (s *RideService) JoinOptions(ctx context.Context) ([]domain.RideOption, error) {
	offers, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RideService.JoinOptions: %w", err)
	}
	opts := []domain.RideOption{}
	for _, o := range offers {
		if o.AvailableSeats() > 0 {
			opts = append(opts, domain.RideOption{
				RideID:         o.ID,
				Label:          domain.JoinLabel(o),
				AvailableSeats: o.AvailableSeats(),
			})
		}
	}
	return opts, nil
}

// DriverOffers returns the rides offered by driverName, labelled for the
// delete picker. An empty name matches nothing.
func (s *RideService) DriverOffers(ctx context.Context, driverName string) ([]domain.RideOption, error) {
	offers, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RideService.DriverOffers: %w", err)
	}
	name := strings.TrimSpace(driverName)
	opts := []domain.RideOption{}
	if name == "" {
		return opts, nil
	}
	for _, o := range offers {
		if domain.SameName(o.DriverName, name) {
			opts = append(opts, domain.RideOption{
				RideID:         o.ID,
				Label:          domain.DeleteLabel(o),
				AvailableSeats: o.AvailableSeats(),
			})
		}
	}
	return opts, nil
}

// newOffer enforces the creation rules:
//   - driver name and origin must be non-empty (whitespace-only is empty).
//   - departure time must be a valid HH:MM time of day.
//   - seats must be within 1–4.
func newOffer(driverName, departureTime, origin string, totalSeats int) (domain.RideOffer, error) {
	driverName = strings.TrimSpace(driverName)
	origin = strings.TrimSpace(origin)

	var missing []string
	if driverName == "" {
		missing = append(missing, "driver name")
	}
	if origin == "" {
		missing = append(missing, "origin")
	}
	if len(missing) > 0 {
		return domain.RideOffer{}, fmt.Errorf("%w: %s", domain.ErrFieldsMissing, strings.Join(missing, ", "))
	}

	hhmm, ok := domain.NormalizeDepartureTime(departureTime)
	if !ok {
		return domain.RideOffer{}, fmt.Errorf("%w: departure time must be HH:MM", domain.ErrValidation)
	}
	if totalSeats < domain.MinSeats || totalSeats > domain.MaxSeats {
		return domain.RideOffer{}, fmt.Errorf("%w: seats must be between %d and %d", domain.ErrValidation, domain.MinSeats, domain.MaxSeats)
	}

	return domain.RideOffer{
		ID:            uuid.New(),
		DriverName:    driverName,
		DepartureTime: hhmm,
		Origin:        origin,
		TotalSeats:    totalSeats,
		Passengers:    []string{},
	}, nil
}

func indexOf(offers []domain.RideOffer, id uuid.UUID) int {
	return slices.IndexFunc(offers, func(o domain.RideOffer) bool { return o.ID == id })
}
