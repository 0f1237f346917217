package domain

import "strconv"

// ExportRow is a single row in the full-data export.
// It is a flat, denormalized view: one row per passenger, with ride fields
// repeated for every passenger on that ride. Rides with no passengers yield
// one row with an empty Passenger.
type ExportRow struct {
	// Ride fields, repeated for every passenger on the ride.
	RideID         string `json:"ride_id"`
	DriverName     string `json:"driver_name"`
	DepartureTime  string `json:"departure_time"`
	Origin         string `json:"origin"`
	TotalSeats     int    `json:"total_seats"`
	AvailableSeats int    `json:"available_seats"`

	// Passenger is empty when the ride has no passengers yet.
	Passenger string `json:"passenger,omitempty"`
	// Position is the 1-based join order of Passenger; 0 when empty.
	Position int `json:"position,omitempty"`
}

// ExportColumns are the CSV column names, in CSVRecord order.
var ExportColumns = []string{
	"ride_id", "driver_name", "departure_time", "origin",
	"total_seats", "available_seats", "passenger", "position",
}

// CSVRecord encodes r as a flat string slice matching ExportColumns.
// A zero Position is written as an empty cell.
func (r ExportRow) CSVRecord() []string {
	position := ""
	if r.Position > 0 {
		position = strconv.Itoa(r.Position)
	}
	return []string{
		r.RideID,
		r.DriverName,
		r.DepartureTime,
		r.Origin,
		strconv.Itoa(r.TotalSeats),
		strconv.Itoa(r.AvailableSeats),
		r.Passenger,
		position,
	}
}
