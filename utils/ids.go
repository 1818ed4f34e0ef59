package utils

import "github.com/google/uuid"

// NewReservationID returns a fresh reservation identifier. Reservations
// are keyed by this value rather than the reserver's name, so equal
// names never overwrite each other.
func NewReservationID() string {
	return uuid.NewString()
}
