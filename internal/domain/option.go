package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// RideOption is one selectable entry in a join or delete picker.
// Label is the human-readable line shown to the user; RideID is what the
// selection resolves to.
type RideOption struct {
	RideID         uuid.UUID
	Label          string
	AvailableSeats int
}

// JoinLabel renders a ride as it appears in the "join a ride" picker,
// e.g. "Ana - 08:00 - Centro (3 vagas)".
func JoinLabel(r RideOffer) string {
	return fmt.Sprintf("%s - %s - %s (%d vagas)", r.DriverName, r.DepartureTime, r.Origin, r.AvailableSeats())
}

// DeleteLabel renders a ride as it appears in the driver's "delete my ride"
// picker, e.g. "08:00 - Centro (1/3 ocupantes)".
func DeleteLabel(r RideOffer) string {
	return fmt.Sprintf("%s - %s (%d/%d ocupantes)", r.DepartureTime, r.Origin, len(r.Passengers), r.TotalSeats)
}
