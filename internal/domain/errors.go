package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// ride does not exist in the registry.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. departure time not HH:MM, seats outside 1-4).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New(ErrValidationText)

// ErrValidationText is the message of ErrValidation. Handlers strip it (and
// everything before it) to show only the rule that failed.
const ErrValidationText = "validation error"

// ErrFieldsMissing is returned when a required text field of a ride offer
// (driver name or origin) is empty. It wraps ErrValidation.
var ErrFieldsMissing = fmt.Errorf("%w: required fields missing", ErrValidation)

// ErrNameMissing is returned when a passenger tries to join without a name.
// It wraps ErrValidation.
var ErrNameMissing = fmt.Errorf("%w: passenger name is required", ErrValidation)

// ErrAlreadyJoined is returned when the passenger is already on the ride.
// Handlers should map this to HTTP 409 Conflict.
var ErrAlreadyJoined = errors.New("passenger already joined")

// ErrRideFull is returned when a join targets a ride with no seats left.
// Handlers should map this to HTTP 409 Conflict.
var ErrRideFull = errors.New("no seats available")

// ErrNotOwner is returned when a delete names a driver other than the one
// who offered the ride. This is a name match, not authentication.
// Handlers should map this to HTTP 403.
var ErrNotOwner = errors.New("driver name does not match ride")
