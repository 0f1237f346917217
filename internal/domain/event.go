package domain

// Defaults for the single event the registry coordinates.
const (
	DefaultEventDestination = "Campos do Jordão - SP"
	DefaultEventDate        = "30/05/2025"
)

// EventInfo is the display header for the event: where everyone is going and when.
type EventInfo struct {
	Destination string
	Date        string
}
