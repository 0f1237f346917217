// export.go implements GET /export: every ride and passenger as a flat
// table, JSON by default or CSV with ?format=csv.

package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/carpool/internal/domain"
)

// ExportRow is the JSON shape of one export row.
// Passenger fields are omitted for rides nobody has joined yet.
type ExportRow struct {
	RideId         openapi_types.UUID `json:"ride_id"`
	DriverName     string             `json:"driver_name"`
	DepartureTime  string             `json:"departure_time"`
	Origin         string             `json:"origin"`
	TotalSeats     int                `json:"total_seats"`
	AvailableSeats int                `json:"available_seats"`
	Passenger      *string            `json:"passenger,omitempty"`
	Position       *int               `json:"position,omitempty"`
}

// GetExport implements GET /export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format, ok := queryString(w, r, "format")
	if !ok {
		return
	}
	if format != "" && format != "json" && format != "csv" {
		writeErrorBody(w, http.StatusBadRequest, "invalid_parameter", "format must be json or csv")
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "export")
		return
	}

	if format == "csv" {
		writeCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, buildJSONRows(rows))
}

// buildJSONRows converts domain rows to the JSON response shape.
func buildJSONRows(rows []domain.ExportRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domainRowToJSONRow(r))
	}
	return out
}

// writeCSV encodes domain rows as CSV.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(domain.ExportColumns)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(r.CSVRecord())
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="caronas.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(buf.Bytes())
}

// domainRowToJSONRow maps a domain.ExportRow to its JSON shape.
// An empty passenger becomes nil pointers (omitted in JSON).
func domainRowToJSONRow(r domain.ExportRow) ExportRow {
	rideID, _ := uuid.Parse(r.RideID)

	row := ExportRow{
		RideId:         rideID,
		DriverName:     r.DriverName,
		DepartureTime:  r.DepartureTime,
		Origin:         r.Origin,
		TotalSeats:     r.TotalSeats,
		AvailableSeats: r.AvailableSeats,
	}
	if r.Passenger != "" {
		p, pos := r.Passenger, r.Position
		row.Passenger = &p
		row.Position = &pos
	}
	return row
}
