package utils

import "time"

// ReservationTime renders the current wall-clock time in the short
// human-readable form reservations carry, e.g. "3:04:05 PM". The value
// is display metadata, never parsed back.
func ReservationTime() string {
	return time.Now().Format("3:04:05 PM")
}
