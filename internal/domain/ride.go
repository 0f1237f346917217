// Package domain contains the core data types for the carpool registry.
// This package depends only on uuid and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MinSeats and MaxSeats bound RideOffer.TotalSeats.
const (
	MinSeats = 1
	MaxSeats = 4
)

// TimeLayout is the HH:MM layout used for departure times.
const TimeLayout = "15:04"

// RideOffer is a driver's offer of seats to the event destination.
// The JSON tags are the persisted file layout; "id" was added next to the
// Portuguese keys so existing caronas.json files still load.
type RideOffer struct {
	ID            uuid.UUID `json:"id"`
	DriverName    string    `json:"motorista"`
	DepartureTime string    `json:"hora_saida"` // HH:MM
	Origin        string    `json:"origem"`
	TotalSeats    int       `json:"vagas"`
	Passengers    []string  `json:"ocupantes"` // join order
}

// AvailableSeats returns how many seats are still free. Never negative.
func (r RideOffer) AvailableSeats() int {
	n := r.TotalSeats - len(r.Passengers)
	if n < 0 {
		return 0
	}
	return n
}

// HasPassenger reports whether name is already on the ride.
func (r RideOffer) HasPassenger(name string) bool {
	return slices.ContainsFunc(r.Passengers, func(p string) bool { return SameName(p, name) })
}

// SameName compares two person names as typed: surrounding blanks are
// ignored on both sides, case is not.
func SameName(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

// Clone returns a copy whose Passengers slice does not alias r's.
func (r RideOffer) Clone() RideOffer {
	c := r
	c.Passengers = slices.Clone(r.Passengers)
	if c.Passengers == nil {
		c.Passengers = []string{}
	}
	return c
}

// NormalizeDepartureTime parses s as a time of day and returns it in HH:MM
// form. Single-digit hours ("8:05") are accepted.
func NormalizeDepartureTime(s string) (string, bool) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return t.Format(TimeLayout), true
}
