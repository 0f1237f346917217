package service

import (
	"context"
	"fmt"

	"github.com/pkordes/carpool/internal/domain"
	"github.com/pkordes/carpool/internal/repo"
)

// ExportService assembles a flat export of every ride and its passengers.
type ExportService struct {
	store repo.RideStore
}

// NewExportService constructs an ExportService backed by the provided store.
func NewExportService(store repo.RideStore) *ExportService {
	return &ExportService{store: store}
}

// Export returns one ExportRow per passenger across all rides, in registry
// and join order. Rides with no passengers contribute one row with an empty
// passenger.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	offers, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, o := range offers {
		base := domain.ExportRow{
			RideID:         o.ID.String(),
			DriverName:     o.DriverName,
			DepartureTime:  o.DepartureTime,
			Origin:         o.Origin,
			TotalSeats:     o.TotalSeats,
			AvailableSeats: o.AvailableSeats(),
		}
		if len(o.Passengers) == 0 {
			rows = append(rows, base)
			continue
		}
		for i, p := range o.Passengers {
			row := base
			row.Passenger = p
			row.Position = i + 1
			rows = append(rows, row)
		}
	}
	return rows, nil
}
