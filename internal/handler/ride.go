package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/carpool/internal/domain"
)

// Ride is the API representation of a ride offer.
type Ride struct {
	Id             openapi_types.UUID `json:"id"`
	DriverName     string             `json:"driver_name"`
	DepartureTime  string             `json:"departure_time"`
	Origin         string             `json:"origin"`
	TotalSeats     int                `json:"total_seats"`
	AvailableSeats int                `json:"available_seats"`
	Passengers     []string           `json:"passengers"`
}

// RideList is the body of GET /rides.
type RideList struct {
	Data []Ride `json:"data"`
}

// CreateRideRequest is the body of POST /rides.
type CreateRideRequest struct {
	DriverName    string `json:"driver_name"`
	DepartureTime string `json:"departure_time"`
	Origin        string `json:"origin"`
	TotalSeats    int    `json:"total_seats"`
}

// JoinRideRequest is the body of POST /rides/{id}/passengers.
type JoinRideRequest struct {
	Name string `json:"name"`
}

// RideOption is one entry of a picker list.
type RideOption struct {
	Id             openapi_types.UUID `json:"id"`
	Label          string             `json:"label"`
	AvailableSeats int                `json:"available_seats"`
}

// RideOptionList is the body of the picker endpoints.
type RideOptionList struct {
	Data []RideOption `json:"data"`
}

// ListRides handles GET /rides.
func (s *Server) ListRides(w http.ResponseWriter, r *http.Request) {
	offers, err := s.rides.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "ride")
		return
	}

	data := make([]Ride, len(offers))
	for i, o := range offers {
		data[i] = rideToResponse(o)
	}
	writeJSON(w, http.StatusOK, RideList{Data: data})
}

// CreateRide handles POST /rides.
func (s *Server) CreateRide(w http.ResponseWriter, r *http.Request) {
	var body CreateRideRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.rides.CreateOffer(r.Context(), body.DriverName, body.DepartureTime, body.Origin, body.TotalSeats)
	if err != nil {
		s.writeServiceError(w, r, err, "ride")
		return
	}

	writeJSON(w, http.StatusCreated, rideToResponse(created))
}

// GetRide handles GET /rides/{id}.
func (s *Server) GetRide(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	offer, err := s.rides.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "ride")
		return
	}

	writeJSON(w, http.StatusOK, rideToResponse(offer))
}

// DeleteRide handles DELETE /rides/{id}?driver=NAME.
// The driver name must match the ride's driver.
func (s *Server) DeleteRide(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	driver, ok := queryString(w, r, "driver")
	if !ok {
		return
	}

	if _, err := s.rides.DeleteOffer(r.Context(), id, driver); err != nil {
		s.writeServiceError(w, r, err, "ride")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// JoinRide handles POST /rides/{id}/passengers.
func (s *Server) JoinRide(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body JoinRideRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.rides.JoinOffer(r.Context(), id, body.Name)
	if err != nil {
		s.writeServiceError(w, r, err, "ride")
		return
	}

	writeJSON(w, http.StatusOK, rideToResponse(updated))
}

// ListJoinable handles GET /rides/joinable: rides with at least one free seat.
func (s *Server) ListJoinable(w http.ResponseWriter, r *http.Request) {
	opts, err := s.rides.JoinOptions(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "ride")
		return
	}
	writeJSON(w, http.StatusOK, optionsToResponse(opts))
}

// ListDriverRides handles GET /drivers/{name}/rides: the delete picker.
func (s *Server) ListDriverRides(w http.ResponseWriter, r *http.Request) {
	name, ok := pathString(w, r, "name")
	if !ok {
		return
	}

	opts, err := s.rides.DriverOffers(r.Context(), name)
	if err != nil {
		s.writeServiceError(w, r, err, "ride")
		return
	}
	writeJSON(w, http.StatusOK, optionsToResponse(opts))
}

// --- mapping helpers --------------------------------------------------------

// decodeBody decodes a JSON request body into dst.
// Writes 413 when the body-size middleware cut the body short and 422 for a
// missing or malformed body; returns false in both cases.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		requestBody(w, "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorBody(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
			return false
		}
		requestBody(w, "malformed request body: "+err.Error())
		return false
	}
	return true
}

// rideToResponse converts a domain.RideOffer into its API shape.
func rideToResponse(o domain.RideOffer) Ride {
	passengers := o.Passengers
	if passengers == nil {
		passengers = []string{}
	}
	return Ride{
		Id:             o.ID,
		DriverName:     o.DriverName,
		DepartureTime:  o.DepartureTime,
		Origin:         o.Origin,
		TotalSeats:     o.TotalSeats,
		AvailableSeats: o.AvailableSeats(),
		Passengers:     passengers,
	}
}

func optionsToResponse(opts []domain.RideOption) RideOptionList {
	data := make([]RideOption, len(opts))
	for i, o := range opts {
		data[i] = RideOption{Id: o.RideID, Label: o.Label, AvailableSeats: o.AvailableSeats}
	}
	return RideOptionList{Data: data}
}
