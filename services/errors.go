package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStoreUnavailable wraps any failed store round trip. Recoverable
	// by resubmitting once the store is reachable again.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrSlotUnavailable means the caller lost a race or acted on a
	// stale view: the slot is already taken or has a request in flight.
	ErrSlotUnavailable = errors.New("slot unavailable")
	// ErrNotFound means the referenced slot or reservation does not
	// exist. Releasing an already-vacant slot lands here, harmlessly.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports user input that never reached the store.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// PartialReleaseError reports a release where exactly one of the two
// writes succeeded, leaving the store inconsistent until the caller or
// the reconciler repairs it.
type PartialReleaseError struct {
	SlotID             string
	ReservationID      string
	SlotCleared        bool
	ReservationRemoved bool
	Cause              error
}

func (e *PartialReleaseError) Error() string {
	return fmt.Sprintf("partial release of slot %s (slot cleared: %t, reservation %s removed: %t): %v",
		e.SlotID, e.SlotCleared, e.ReservationID, e.ReservationRemoved, e.Cause)
}

func (e *PartialReleaseError) Unwrap() error {
	return e.Cause
}

// storeFailure tags a raw store error with the recoverable sentinel so
// nothing transport-shaped escapes the service layer.
func storeFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
