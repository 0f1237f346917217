package handler

import "net/http"

// EventResponse is the body of GET /event.
type EventResponse struct {
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

// GetEvent handles GET /event: the header every client shows above the ride list.
func (s *Server) GetEvent(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, EventResponse{Destination: s.event.Destination, Date: s.event.Date})
}
